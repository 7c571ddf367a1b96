// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/drone-rental/pkg/core/model"
)

// DronesConnQueryer contains the drones operations which may run on
// a plain connection. Each one of them runs a single statement and so
// observes a consistent snapshot of the drones.
type DronesConnQueryer interface {
	// Get returns the drone with the given id or an error wrapping
	// model.ErrDroneNotFound if it does not exist.
	Get(ctx context.Context, id model.DroneID) (*model.Drone, error)

	// List returns all drones, sorted by their ids.
	List(ctx context.Context) ([]model.Drone, error)
}

// DronesTxQueryer contains all drones operations, including those
// which must run in a transaction because they need to be atomic with
// respect to other operations.
type DronesTxQueryer interface {
	DronesConnQueryer

	// NextID increments the monotonic drone id counter and returns
	// its new value. Returned ids are never repeated, even if the
	// caller fails to insert a drone with them.
	NextID(ctx context.Context) (model.DroneID, error)

	// Insert stores d as a new drone record.
	Insert(ctx context.Context, d *model.Drone) error

	// Lock fetches the drone with the given id and locks it until the
	// end of the current transaction, so its status may be examined
	// and then updated (with SaveStatus) atomically.
	Lock(ctx context.Context, id model.DroneID) (*model.Drone, error)

	// SaveStatus persists the status of d. The model name of d is
	// never written since it is immutable.
	SaveStatus(ctx context.Context, d *model.Drone) error
}

// Drones is the drones repository. It wraps a connection or a
// transaction and returns the corresponding queryer interface.
type Drones interface {
	Conn(Conn) DronesConnQueryer
	Tx(Tx) DronesTxQueryer
}
