// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/momeni/drone-rental/pkg/core/log"
	"github.com/momeni/drone-rental/pkg/core/model"
)

// IdentityHeader is the request header which carries the caller
// identity. It must be set by an authenticating proxy in front of the
// drweb, so clients may not forge it.
const IdentityHeader = "X-Caller-Identity"

const identityKey = "drweb.caller"

// Identity returns a middleware which parses the IdentityHeader and
// keeps the caller identity in the gin context (see Caller). A missing
// or blank header is kept as the anonymous (empty) identity, so the use
// cases may decide if an anonymous caller is acceptable.
// The caller identity is attached to the request context logging
// attributes too.
func Identity() HandlerFunc {
	return func(c *gin.Context) {
		id, err := model.ParseIdentity(c.GetHeader(IdentityHeader))
		if err != nil {
			id = ""
		}
		c.Set(identityKey, id)
		ctx := log.WithAttrs(c.Request.Context(), log.Caller(id))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Caller returns the identity which was parsed by the Identity
// middleware, or the anonymous identity if that middleware is missing.
func Caller(c *gin.Context) model.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return ""
	}
	id, _ := v.(model.Identity)
	return id
}
