// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
//
// The main entity is the Drone which is registered by the fleet owner
// and may be rented and returned by other identities. Its Status field
// is a tagged value, so a rented drone always knows about its holder
// and an available drone has no holder at all.
package model

import (
	"fmt"
	"strings"
)

// MaxModelLength is the maximum number of bytes in a drone model name.
const MaxModelLength = 256

// DroneID identifies a drone. Identifiers are assigned by the registry
// in a strictly increasing order, starting from one, and are never
// reused.
type DroneID uint64

// String returns the decimal representation of the id.
func (id DroneID) String() string {
	return fmt.Sprintf("%d", uint64(id))
}

// Drone models a rentable drone of the fleet.
// The Model field is immutable after creation, so all transitions
// only touch the Status field.
type Drone struct {
	ID     DroneID // unique identifier of the drone
	Model  string  // descriptive model name, e.g., Falcon-9X
	Status Status  // either available or rented by some holder
}

// NewDrone instantiates an available drone with the given id and
// model name. The model name is trimmed and validated by the
// NormalizeModel function.
func NewDrone(id DroneID, model string) (*Drone, error) {
	m, err := NormalizeModel(model)
	if err != nil {
		return nil, err
	}
	return &Drone{ID: id, Model: m, Status: Available()}, nil
}

// NormalizeModel trims the surrounding white spaces of a model name
// and returns it, or returns ErrEmptyModel or ErrModelTooLong when the
// trimmed name is not acceptable.
func NormalizeModel(model string) (string, error) {
	m := strings.TrimSpace(model)
	switch {
	case m == "":
		return "", ErrEmptyModel
	case len(m) > MaxModelLength:
		return "", ErrModelTooLong
	}
	return m, nil
}

// Rent transitions the drone from the available state to the rented
// state, recording holder as its current renter.
// ErrAlreadyRented is returned if the drone is rented already and
// ErrEmptyHolder is returned for an empty holder identity.
// The drone is not modified in case of errors.
func (d *Drone) Rent(holder Identity) error {
	if d.Status.IsRented() {
		return ErrAlreadyRented
	}
	s, err := RentedBy(holder)
	if err != nil {
		return err
	}
	d.Status = s
	return nil
}

// Return transitions the drone from the rented state back to the
// available state. ErrNotRented is returned if the drone is available.
// Checking whether the caller is permitted to return the drone is
// not a concern of this method.
func (d *Drone) Return() error {
	if !d.Status.IsRented() {
		return ErrNotRented
	}
	d.Status = Available()
	return nil
}

// Availability is the read-only view of a drone, as reported by the
// availability check operation.
type Availability struct {
	Model    string
	IsRented bool
}

// Availability returns the read-only availability view of d.
func (d *Drone) Availability() *Availability {
	return &Availability{Model: d.Model, IsRented: d.Status.IsRented()}
}
