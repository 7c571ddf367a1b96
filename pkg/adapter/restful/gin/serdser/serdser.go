// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the serialization and deserialization
// helpers which are shared by all resources. Errors are rendered as
// {"detail": "..."} objects, while the binding errors are rendered as
// a map from field names to their error messages.
package serdser

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/drone-rental/pkg/core/cerr"
	"github.com/momeni/drone-rental/pkg/core/log"
)

// Bind decodes the request into req using the b binding and validates
// it. It renders a bad request response and returns false on errors.
// A nil b binds the uri parameters.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	var err error
	if b == nil {
		err = c.ShouldBindUri(req)
	} else {
		err = c.ShouldBindWith(req, b)
	}
	switch err := err.(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	(*errs)[name] = append((*errs)[name], msgs...)
}

func Assert(errs *map[string][]string, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// SerErr renders err with the HTTP status code of its cerr.Error.
// Errors which are not classified are rendered as internal server
// errors and are logged, since they indicate a failure of the drweb
// or its database and not of the request.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	log.Error(c.Request.Context(), "request failed", log.Err("error", err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": http.StatusText(http.StatusInternalServerError),
	})
}
