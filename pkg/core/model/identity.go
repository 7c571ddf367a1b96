// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Identity is an already authenticated caller identity, such as a
// wallet address. The registry does not know how a caller was
// authenticated and only compares identities for equality.
type Identity string

// MaxIdentityLength is the maximum number of bytes in an identity.
// It matches the size of the holder column.
const MaxIdentityLength = 512

var hexAddress = regexp.MustCompile(`^0[xX][0-9a-fA-F]{40}$`)

// ParseIdentity trims s and returns it as an Identity.
// Hex-encoded account addresses (0x followed by 40 hex digits) are
// case-insensitive and so are lower-cased. An empty identity, or one
// longer than MaxIdentityLength bytes, causes ErrUnknownCaller to be
// returned.
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "", ErrUnknownCaller
	case len(s) > MaxIdentityLength:
		return "", fmt.Errorf(
			"%w: longer than %d bytes", ErrUnknownCaller, MaxIdentityLength,
		)
	}
	if hexAddress.MatchString(s) {
		s = strings.ToLower(s)
	}
	return Identity(s), nil
}

// String returns the identity as a plain string.
func (i Identity) String() string {
	return string(i)
}
