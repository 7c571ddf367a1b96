// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"log/slog"
	"strings"
	"time"
)

// Duration is a time.Duration which is decoded from (and encoded to)
// strings like 1m30s in configuration files.
type Duration time.Duration

// UnmarshalText reifies the encoding.TextUnmarshaler interface, so
// a YAML scalar can be decoded as a time duration following the
// time.ParseDuration format. The `d` receiver is updated only if
// there were no errors.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// MarshalText implements encoding.TextMarshaler interface.
// Zero trailing components are dropped, so 2m0s is encoded as 2m and
// 1h0m0s is encoded as 1h.
func (d Duration) MarshalText() ([]byte, error) {
	s := time.Duration(d).String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return []byte(s), nil
}

// LogValue implements slog.LogValuer.
func (d *Duration) LogValue() slog.Value {
	if d == nil {
		return slog.StringValue("nil-duration")
	}
	return slog.DurationValue(time.Duration(*d))
}
