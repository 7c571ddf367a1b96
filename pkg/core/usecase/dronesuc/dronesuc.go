// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dronesuc contains the drones UseCase which realizes the drone
// rental registry. Currently, five uses cases are supported:
//  1. Adding a drone (by the fleet owner),
//  2. Renting an available drone,
//  3. Returning a rented drone,
//  4. Checking availability of a drone,
//  5. Listing all drones.
//
// Each operation is authorized by an AccessController before any
// mutation and a change notification is published after each
// successful mutation.
package dronesuc

import (
	"context"
	"fmt"

	"github.com/momeni/drone-rental/pkg/core/cerr"
	"github.com/momeni/drone-rental/pkg/core/log"
	"github.com/momeni/drone-rental/pkg/core/model"
	"github.com/momeni/drone-rental/pkg/core/repo"
)

// UseCase represents the drones use case. It holds a database
// connection pool, the drones repository instance (to be guided with
// the DB pool), the access controller, and the notification publishers.
//
// Mutations of an existing drone run in a transaction which locks that
// drone row, so concurrent rent/return attempts are serialized by the
// database (even among multiple processes). The locks keyed mutex
// additionally serializes them in this process, from before the
// transaction begins until their notification is published, so that
// notifications of each drone are published in their commit order.
// The drone lock is always acquired before a connection.
type UseCase struct {
	pool     repo.Pool
	dronesrp repo.Drones
	access   *AccessController
	locks    *droneLocks

	owner        model.Identity
	returnPolicy ReturnPolicy
	publishers   []Publisher
}

// New instantiates a drones use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error. The owner identity is the fleet
// owner which is the only identity which may add drones.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool, d repo.Drones, owner model.Identity, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:     p,
		dronesrp: d,
		locks:    newDroneLocks(),
		owner:    owner,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.returnPolicy == ReturnPolicyInvalid {
		uc.returnPolicy = ReturnByHolder
	}
	ac, err := NewAccessController(uc.owner, uc.returnPolicy)
	if err != nil {
		return nil, fmt.Errorf("creating access controller: %w", err)
	}
	uc.access = ac
	return uc, nil
}

// AccessController returns the access controller of this use case.
func (drones *UseCase) AccessController() *AccessController {
	return drones.access
}

// AddDrone use case registers a new available drone with the given
// model name on behalf of the caller identity and returns its id.
// Only the fleet owner may add drones. The new id is strictly greater
// than all previously allocated ids.
func (drones *UseCase) AddDrone(
	ctx context.Context, caller model.Identity, droneModel string,
) (model.DroneID, error) {
	if err := drones.access.AuthorizeAdd(caller); err != nil {
		return 0, err
	}
	m, err := model.NormalizeModel(droneModel)
	if err != nil {
		return 0, cerr.BadRequest(err)
	}
	var id model.DroneID
	err = drones.inTx(ctx, func(ctx context.Context, q repo.DronesTxQueryer) (err error) {
		id, err = q.NextID(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("allocating drone id: %w", err)
	}
	unlock := drones.locks.Lock(id)
	defer unlock()
	d, err := model.NewDrone(id, m)
	if err != nil {
		return 0, cerr.BadRequest(err)
	}
	err = drones.inTx(ctx, func(ctx context.Context, q repo.DronesTxQueryer) error {
		return q.Insert(ctx, d)
	})
	if err != nil {
		return 0, fmt.Errorf("inserting drone %d: %w", id, err)
	}
	log.Info(ctx, "drone is added", log.DroneID(id))
	drones.publish(ctx, model.DroneAdded{ID: id, Model: m})
	return id, nil
}

// RentDrone use case rents the id drone for the caller identity.
// The drone must exist and be available.
func (drones *UseCase) RentDrone(
	ctx context.Context, caller model.Identity, id model.DroneID,
) error {
	if err := drones.access.AuthorizeRent(caller); err != nil {
		return err
	}
	unlock := drones.locks.Lock(id)
	defer unlock()
	err := drones.inTx(ctx, func(ctx context.Context, q repo.DronesTxQueryer) error {
		d, err := q.Lock(ctx, id)
		if err != nil {
			return err
		}
		if err = d.Rent(caller); err != nil {
			return cerr.Conflict(err)
		}
		return q.SaveStatus(ctx, d)
	})
	if err != nil {
		return err
	}
	log.Info(ctx, "drone is rented", log.DroneID(id))
	drones.publish(ctx, model.DroneRented{ID: id, Holder: caller})
	return nil
}

// ReturnDrone use case makes the id drone available again.
// The drone must exist and be rented. With the default ReturnByHolder
// policy, caller must be its current holder too.
func (drones *UseCase) ReturnDrone(
	ctx context.Context, caller model.Identity, id model.DroneID,
) error {
	if err := drones.access.AuthorizeReturnCaller(caller); err != nil {
		return err
	}
	unlock := drones.locks.Lock(id)
	defer unlock()
	err := drones.inTx(ctx, func(ctx context.Context, q repo.DronesTxQueryer) error {
		d, err := q.Lock(ctx, id)
		if err != nil {
			return err
		}
		if !d.Status.IsRented() {
			return cerr.Conflict(model.ErrNotRented)
		}
		if err = drones.access.AuthorizeReturn(caller, d); err != nil {
			return err
		}
		if err = d.Return(); err != nil {
			return cerr.Conflict(err)
		}
		return q.SaveStatus(ctx, d)
	})
	if err != nil {
		return err
	}
	log.Info(ctx, "drone is returned", log.DroneID(id))
	drones.publish(ctx, model.DroneReturned{ID: id})
	return nil
}

// CheckDroneAvailability use case reports the model name of the id
// drone and whether it is rented. Any caller (even an anonymous one
// with an empty identity) may check the availability.
func (drones *UseCase) CheckDroneAvailability(
	ctx context.Context, caller model.Identity, id model.DroneID,
) (a *model.Availability, err error) {
	if err = drones.access.AuthorizeRead(caller); err != nil {
		return nil, err
	}
	err = drones.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		d, err := drones.dronesrp.Conn(c).Get(ctx, id)
		if err != nil {
			return err
		}
		a = d.Availability()
		return nil
	})
	if err != nil {
		a = nil
	}
	return
}

// ListDrones use case returns all drones, sorted by their ids.
func (drones *UseCase) ListDrones(
	ctx context.Context, caller model.Identity,
) (ds []model.Drone, err error) {
	if err = drones.access.AuthorizeRead(caller); err != nil {
		return nil, err
	}
	err = drones.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ds, err = drones.dronesrp.Conn(c).List(ctx)
		return err
	})
	if err != nil {
		ds = nil
	}
	return
}

func (drones *UseCase) inTx(
	ctx context.Context,
	f func(ctx context.Context, q repo.DronesTxQueryer) error,
) error {
	return drones.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return f(ctx, drones.dronesrp.Tx(tx))
		})
	})
}

func (drones *UseCase) publish(ctx context.Context, e model.Event) {
	for _, p := range drones.publishers {
		p.Publish(ctx, e)
	}
}
