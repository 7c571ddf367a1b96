// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp provides a reification of the repo.Schema interface
// making it possible to create or drop the registry tables.
package schemarp

import (
	"context"

	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb"
	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb/dronesrp"
	"github.com/momeni/drone-rental/pkg/core/repo"
)

// Repo represents a schema management repository.
type Repo struct {
}

// New instantiates a schema management Repo struct. Although this New
// function does not perform complex operations, and users may use
// a &schemarp.Repo{} directly too, but this method improves the code
// readability as schemarp.New() makes the package to look alike a
// data type.
func New() *Repo {
	return &Repo{}
}

type txQueryer struct {
	*gormdb.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an
// instance of *gormdb.Tx as created by this adapter layer.
// Otherwise, it will panic.
func (schema *Repo) Tx(tx repo.Tx) repo.SchemaTxQueryer {
	tt := tx.(*gormdb.Tx)
	return txQueryer{Tx: tt}
}

// CreateTables creates the registry tables which are owned by the
// dronesrp package.
func (tq txQueryer) CreateTables(ctx context.Context) error {
	return dronesrp.Migrate(ctx, tq.Tx)
}

// DropTables drops the registry tables if they exist.
func (tq txQueryer) DropTables(ctx context.Context) error {
	return dronesrp.Drop(ctx, tq.Tx)
}
