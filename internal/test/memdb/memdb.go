// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memdb is an internal helper for the test packages.
// It opens a private in-memory SQLite database and creates the
// registry tables in it, so unit-level test suites may run against
// real repositories without any external DBMS server.
package memdb

import (
	"context"
	"testing"

	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb"
	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb/dronesrp"
	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb/schemarp"
	"github.com/momeni/drone-rental/pkg/adapter/db/sqlite"
	"github.com/momeni/drone-rental/pkg/core/usecase/migrationuc"
	"github.com/stretchr/testify/require"
)

// New returns a connection pool for an empty and initialized in-memory
// database. The pool is closed when t and its subtests complete.
func New(ctx context.Context, t testing.TB) *gormdb.Pool {
	t.Helper()
	pool, err := sqlite.NewPool(ctx, sqlite.InMemory)
	require.NoError(t, err, "cannot open in-memory database")
	t.Cleanup(func() {
		_ = pool.Close()
	})
	iduc := migrationuc.NewInitDB(pool, schemarp.New(), dronesrp.New())
	require.NoError(t, iduc.InitProd(ctx), "cannot create tables")
	return pool
}
