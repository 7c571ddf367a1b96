// Package cerr provides the core error type which classifies use case
// errors, so adapters may report them properly (e.g., with a matching
// HTTP status code) without knowing about individual model errors.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

// BadRequest classifies err as an invalid input.
func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

// Authorization classifies err as a permission denial for an otherwise
// identified caller.
func Authorization(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusForbidden}
}

func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

// Conflict classifies err as a state machine precondition violation.
func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

// StatusCode returns the HTTP status code of the first *Error in the
// err chain, or http.StatusInternalServerError if there is none.
func StatusCode(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.HTTPStatusCode
	}
	return http.StatusInternalServerError
}
