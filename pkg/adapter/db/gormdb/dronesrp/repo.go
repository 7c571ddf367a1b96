// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dronesrp provides a reification of the repo.Drones interface
// over GORM, storing drones in the drones table and allocating their
// ids from the registry_counters table. It works with PostgreSQL and
// SQLite databases alike.
package dronesrp

import (
	"context"

	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb"
	"github.com/momeni/drone-rental/pkg/core/model"
	"github.com/momeni/drone-rental/pkg/core/repo"
)

// Repo represents the drones repository.
type Repo struct {
}

// New instantiates a drones Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*gormdb.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *gormdb.Conn as created by this adapter layer.
// Otherwise, it will panic.
func (drones *Repo) Conn(c repo.Conn) repo.DronesConnQueryer {
	cc := c.(*gormdb.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(ctx context.Context, id model.DroneID) (*model.Drone, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) List(ctx context.Context) ([]model.Drone, error) {
	return List(ctx, cq.Conn)
}

type txQueryer struct {
	*gormdb.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an
// instance of *gormdb.Tx as created by this adapter layer.
// Otherwise, it will panic.
func (drones *Repo) Tx(tx repo.Tx) repo.DronesTxQueryer {
	tt := tx.(*gormdb.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Get(ctx context.Context, id model.DroneID) (*model.Drone, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) List(ctx context.Context) ([]model.Drone, error) {
	return List(ctx, tq.Tx)
}

func (tq txQueryer) NextID(ctx context.Context) (model.DroneID, error) {
	return NextID(ctx, tq.Tx)
}

func (tq txQueryer) Insert(ctx context.Context, d *model.Drone) error {
	return Insert(ctx, tq.Tx, d)
}

func (tq txQueryer) Lock(ctx context.Context, id model.DroneID) (*model.Drone, error) {
	return Lock(ctx, tq.Tx, id)
}

func (tq txQueryer) SaveStatus(ctx context.Context, d *model.Drone) error {
	return SaveStatus(ctx, tq.Tx, d)
}
