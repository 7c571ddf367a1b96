// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migrationuc contains the database initialization use case.
// It creates the registry tables for a fresh installation and may fill
// them with a few development suitable drones.
package migrationuc

import (
	"context"
	"fmt"

	"github.com/momeni/drone-rental/pkg/core/model"
	"github.com/momeni/drone-rental/pkg/core/repo"
)

// DevDroneModels lists the model names of drones which are registered
// by the InitDev method, in their id order.
var DevDroneModels = []string{"Falcon-9X", "Hornet-2", "Kestrel-M4"}

// InitDBUseCase represents the database initialization use case. It may
// be used to initialize database with development or production
// suitable data as asked by the InitDev and InitProd methods.
type InitDBUseCase struct {
	pool       repo.Pool
	schemaRepo repo.Schema
	dronesRepo repo.Drones
}

// NewInitDB creates an InitDBUseCase instance which uses the p pool
// in order to connect to the target database, the s repository for
// the tables management, and the d repository in order to register
// the development drones.
func NewInitDB(p repo.Pool, s repo.Schema, d repo.Drones) *InitDBUseCase {
	return &InitDBUseCase{pool: p, schemaRepo: s, dronesRepo: d}
}

// InitProd creates the registry tables (if they do not exist) with no
// drones. Drones are added by the fleet owner later.
func (iduc *InitDBUseCase) InitProd(ctx context.Context) error {
	return iduc.initDB(ctx, false, nil)
}

// InitDev drops the registry tables (if they exist) and creates them
// again, registering the DevDroneModels drones. Drones are registered
// directly in the initialization transaction, so no notification is
// emitted for them.
func (iduc *InitDBUseCase) InitDev(ctx context.Context) error {
	return iduc.initDB(
		ctx, true, func(ctx context.Context, tx repo.Tx) error {
			q := iduc.dronesRepo.Tx(tx)
			for _, m := range DevDroneModels {
				id, err := q.NextID(ctx)
				if err != nil {
					return fmt.Errorf("allocating drone id: %w", err)
				}
				d, err := model.NewDrone(id, m)
				if err != nil {
					return fmt.Errorf("model.NewDrone(%q): %w", m, err)
				}
				if err = q.Insert(ctx, d); err != nil {
					return fmt.Errorf("inserting %q: %w", m, err)
				}
			}
			return nil
		},
	)
}

func (iduc *InitDBUseCase) initDB(
	ctx context.Context,
	drop bool,
	fill func(ctx context.Context, tx repo.Tx) error,
) error {
	err := iduc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := iduc.schemaRepo.Tx(tx)
			if drop {
				if err := q.DropTables(ctx); err != nil {
					return fmt.Errorf("dropping tables: %w", err)
				}
			}
			if err := q.CreateTables(ctx); err != nil {
				return fmt.Errorf("creating tables: %w", err)
			}
			if fill == nil {
				return nil
			}
			if err := fill(ctx, tx); err != nil {
				return fmt.Errorf("filling tables: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}
