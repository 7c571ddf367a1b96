// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// State specifies the rental state enum of a drone. Although this enum
// is numeric, it is (de)serialized as a string for readability in the
// adapter layer (both in REST responses and in database rows).
type State int

// Valid values for the State enum.
const (
	StateInvalid State = iota // zero value is invalid

	StateAvailable // drone may be rented
	StateRented    // drone is held by some identity
)

// ErrUnknownState indicates that a given string may not be parsed
// as a valid/known rental state.
var ErrUnknownState = errors.New("unknown rental state")

// StateError indicates an invalid rental state, carrying the invalid
// numeric value.
type StateError int

// Error implements the error interface, returning a string
// representation of the StateError.
func (e StateError) Error() string {
	return fmt.Sprintf("invalid rental state: %d", e)
}

// Validate returns nil if State value is valid. For invalid
// values, an instance of the StateError will be returned.
func (s State) Validate() error {
	switch s {
	case StateAvailable, StateRented:
		return nil
	default:
		return StateError(s)
	}
}

// String converts the State enum to a string. Invalid states cause
// a panic.
func (s State) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateRented:
		return "rented"
	default:
		panic(StateError(s))
	}
}

// ParseState parses the given string and returns a State.
// For invalid strings, StateInvalid and ErrUnknownState will be
// returned.
func ParseState(s string) (State, error) {
	switch s {
	case "available":
		return StateAvailable, nil
	case "rented":
		return StateRented, nil
	default:
		return StateInvalid, ErrUnknownState
	}
}

// Status is a tagged value which is either Available or Rented with
// a non-empty holder identity. The zero value is Available.
// Fields are not exported, so a Status may only be created by the
// Available and RentedBy functions and a rented status without a
// holder cannot be represented.
type Status struct {
	holder Identity
}

// Available returns the status of a drone which may be rented.
func Available() Status {
	return Status{}
}

// RentedBy returns the status of a drone which is rented by holder.
// ErrEmptyHolder is returned if holder is empty.
func RentedBy(holder Identity) (Status, error) {
	if holder == "" {
		return Status{}, ErrEmptyHolder
	}
	return Status{holder: holder}, nil
}

// State returns the enum tag of this status.
func (s Status) State() State {
	if s.holder == "" {
		return StateAvailable
	}
	return StateRented
}

// IsRented reports if the status is in its rented variant.
func (s Status) IsRented() bool {
	return s.holder != ""
}

// Holder returns the current holder identity and true for a rented
// status. For an available status, it returns an empty identity and
// false.
func (s Status) Holder() (Identity, bool) {
	return s.holder, s.holder != ""
}

// String returns "available" or "rented(holder)".
func (s Status) String() string {
	if s.holder == "" {
		return StateAvailable.String()
	}
	return fmt.Sprintf("%s(%s)", StateRented, s.holder)
}
