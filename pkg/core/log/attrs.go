// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"log/slog"

	"github.com/momeni/drone-rental/pkg/core/model"
)

// Valuer returns an Attr for the given slog.LogValuer value.
func Valuer(key string, value slog.LogValuer) slog.Attr {
	return slog.Any(key, value)
}

// Err returns an Attr for the given error value.
// The error value is resolved as a string by its Error() method.
// If error value is nil, the constant "no-error" value will be used.
func Err(key string, value error) slog.Attr {
	if value == nil {
		return slog.String(key, "no-error")
	}
	return slog.String(key, value.Error())
}

// DroneID returns a "drone" Attr holding the numeric drone id.
func DroneID(id model.DroneID) slog.Attr {
	return slog.Uint64("drone", uint64(id))
}

// Caller returns a "caller" Attr for the given identity.
// An empty identity is reported as "anonymous".
func Caller(id model.Identity) slog.Attr {
	if id == "" {
		return slog.String("caller", "anonymous")
	}
	return slog.String("caller", id.String())
}

// Event returns an Attr group describing the e change notification.
func Event(e model.Event) slog.Attr {
	return slog.Group(
		"event",
		slog.String("name", e.Name()),
		slog.Uint64("drone", uint64(e.Drone())),
	)
}
