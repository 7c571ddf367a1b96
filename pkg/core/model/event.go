// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Event is a change notification which is emitted when a registry
// operation commits. It is implemented by DroneAdded, DroneRented,
// and DroneReturned only.
type Event interface {
	// Name returns the notification name, e.g., DroneAdded.
	Name() string
	// Drone returns the id of the changed drone.
	Drone() DroneID

	isEvent()
}

// DroneAdded is emitted after a new drone is registered.
type DroneAdded struct {
	ID    DroneID `json:"id"`
	Model string  `json:"model"`
}

// DroneRented is emitted after a drone is rented by Holder.
type DroneRented struct {
	ID     DroneID  `json:"id"`
	Holder Identity `json:"holder"`
}

// DroneReturned is emitted after a drone becomes available again.
type DroneReturned struct {
	ID DroneID `json:"id"`
}

func (DroneAdded) Name() string    { return "DroneAdded" }
func (DroneRented) Name() string   { return "DroneRented" }
func (DroneReturned) Name() string { return "DroneReturned" }

func (e DroneAdded) Drone() DroneID    { return e.ID }
func (e DroneRented) Drone() DroneID   { return e.ID }
func (e DroneReturned) Drone() DroneID { return e.ID }

func (DroneAdded) isEvent()    {}
func (DroneRented) isEvent()   {}
func (DroneReturned) isEvent() {}
