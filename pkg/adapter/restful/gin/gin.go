// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin adapts the gin-gonic framework for the drweb REST API.
// Its sub-packages realize the drones and events resources, while this
// package provides the engine instantiation and the common middlewares.
package gin

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Logger returns a middleware which logs each request using l.
// Client errors are logged at the warning level and server errors
// at the error level. Each request obtains a request id which is
// reported in the X-Request-ID response header too.
func Logger(l *slog.Logger) HandlerFunc {
	return sloggin.NewWithConfig(l, sloggin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	})
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}
