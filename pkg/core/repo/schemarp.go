// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SchemaTxQueryer manages the registry tables within a transaction.
type SchemaTxQueryer interface {
	// CreateTables creates the drones table and the id counters table
	// (if they are missing) and ensures that the drone id counter row
	// exists. Existing rows are preserved, so it may be run again on
	// an initialized database.
	CreateTables(ctx context.Context) error

	// DropTables drops all registry tables if they exist.
	DropTables(ctx context.Context) error
}

// Schema is the schema management repository.
type Schema interface {
	Tx(Tx) SchemaTxQueryer
}
