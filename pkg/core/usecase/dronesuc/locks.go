// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package dronesuc

import (
	"sync"

	"github.com/momeni/drone-rental/pkg/core/model"
)

// droneLocks is a keyed mutex with one lock per drone id.
// Entries are reference counted and removed when no go routine holds
// or waits for them, so the map only grows with the concurrency level
// and not with the fleet size.
type droneLocks struct {
	mu    sync.Mutex
	locks map[model.DroneID]*droneLock
}

type droneLock struct {
	sync.Mutex
	refs int
}

func newDroneLocks() *droneLocks {
	return &droneLocks{locks: make(map[model.DroneID]*droneLock)}
}

// Lock blocks until the id lock is acquired and returns a function
// which releases it.
func (dl *droneLocks) Lock(id model.DroneID) (unlock func()) {
	dl.mu.Lock()
	l, ok := dl.locks[id]
	if !ok {
		l = &droneLock{}
		dl.locks[id] = l
	}
	l.refs++
	dl.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		dl.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(dl.locks, id)
		}
		dl.mu.Unlock()
	}
}

// size returns the number of held or awaited locks.
func (dl *droneLocks) size() int {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	return len(dl.locks)
}
