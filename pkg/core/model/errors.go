// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "errors"

// These errors describe why a registry operation was rejected.
// They carry no parameters because the caller already knows about
// the operation arguments (drone id, model name, and its own identity)
// and can wrap them as required. Use cases wrap them with the
// pkg/core/cerr package, so adapters can find their error class too.
// All of them may be detected with errors.Is.
var (
	// ErrEmptyModel indicates an empty (or white space only) model.
	ErrEmptyModel = errors.New("drone model is empty")
	// ErrModelTooLong indicates a model name longer than
	// MaxModelLength bytes.
	ErrModelTooLong = errors.New("drone model is too long")

	// ErrDroneNotFound indicates that no drone has the asked id.
	ErrDroneNotFound = errors.New("drone not found")

	// ErrUnknownCaller indicates a missing caller identity.
	ErrUnknownCaller = errors.New("caller identity is unknown")
	// ErrNotFleetOwner indicates a caller which may not add drones.
	ErrNotFleetOwner = errors.New("caller is not the fleet owner")

	// ErrAlreadyRented indicates a rent attempt on a rented drone.
	ErrAlreadyRented = errors.New("drone is already rented")
	// ErrNotRented indicates a return attempt on an available drone.
	ErrNotRented = errors.New("drone is not rented")
	// ErrNotHolder indicates a return attempt by an identity which is
	// not the current holder of the drone.
	ErrNotHolder = errors.New("caller is not the drone holder")
	// ErrEmptyHolder indicates a rented status with no holder.
	ErrEmptyHolder = errors.New("holder identity is empty")
)
