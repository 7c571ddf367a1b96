// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sqlite opens a gormdb.Pool for an SQLite database file (or
// an in-memory database) using the pure Go glebarez/sqlite driver.
//
// The pool has exactly one connection. Therefore, all transactions are
// serialized and an in-memory database is shared by all of them.
package sqlite

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb"
)

// Driver is the name of this database driver in configuration files.
const Driver = "sqlite"

// InMemory is the DSN of a private in-memory database.
const InMemory = ":memory:"

// NewPool opens the dsn SQLite database, e.g., "drones.db" or
// InMemory, and returns its connection pool.
func NewPool(ctx context.Context, dsn string) (*gormdb.Pool, error) {
	p, err := gormdb.Open(ctx, sqlite.Open(dsn), gormdb.Options{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite pool: %w", err)
	}
	return p, nil
}
