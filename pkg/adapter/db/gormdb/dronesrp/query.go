// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package dronesrp

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb"
	"github.com/momeni/drone-rental/pkg/core/cerr"
	"github.com/momeni/drone-rental/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// droneIDCounter is the name of the registry_counters row which keeps
// the last allocated drone id.
const droneIDCounter = "drone_id"

type gDrone struct {
	ID     uint64  `gorm:"primaryKey;autoIncrement:false"`
	Model  string  `gorm:"size:256;not null"`
	Status string  `gorm:"size:16;not null;check:chk_drones_holder,(status = 'available' AND holder IS NULL) OR (status = 'rented' AND holder IS NOT NULL)"`
	Holder *string `gorm:"size:512"` // model.MaxIdentityLength
}

func (gd *gDrone) TableName() string {
	return "drones"
}

func (gd *gDrone) toModel() (*model.Drone, error) {
	st, err := model.ParseState(gd.Status)
	if err != nil {
		return nil, fmt.Errorf("drone %d: %w", gd.ID, err)
	}
	d := &model.Drone{
		ID:     model.DroneID(gd.ID),
		Model:  gd.Model,
		Status: model.Available(),
	}
	if st == model.StateRented {
		if gd.Holder == nil {
			return nil, fmt.Errorf("rented drone %d has no holder", gd.ID)
		}
		d.Status, err = model.RentedBy(model.Identity(*gd.Holder))
		if err != nil {
			return nil, fmt.Errorf("drone %d: %w", gd.ID, err)
		}
	}
	return d, nil
}

func fromModel(d *model.Drone) *gDrone {
	gd := &gDrone{
		ID:     uint64(d.ID),
		Model:  d.Model,
		Status: d.Status.State().String(),
	}
	if h, ok := d.Status.Holder(); ok {
		s := h.String()
		gd.Holder = &s
	}
	return gd
}

type gCounter struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value uint64 `gorm:"not null"`
}

func (gc *gCounter) TableName() string {
	return "registry_counters"
}

func notFound(id model.DroneID) error {
	return cerr.NotFound(fmt.Errorf("drone %d: %w", id, model.ErrDroneNotFound))
}

// Get fetches the id drone. A cerr.NotFound error wrapping the
// model.ErrDroneNotFound is returned if there is no such drone.
func Get[Q gormdb.Queryer](ctx context.Context, q Q, id model.DroneID) (*model.Drone, error) {
	return take(q.GORM(ctx), id)
}

// Lock is like Get, but also locks the fetched row (using the FOR
// UPDATE clause) until the end of the current transaction. SQLite has
// no row level locks and ignores this clause, which is fine since all
// of its transactions are serialized.
func Lock(ctx context.Context, tx *gormdb.Tx, id model.DroneID) (*model.Drone, error) {
	gdb := tx.GORM(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return take(gdb, id)
}

func take(gdb *gorm.DB, id model.DroneID) (*model.Drone, error) {
	var gd gDrone
	err := gdb.Where("id = ?", uint64(id)).Take(&gd).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, notFound(id)
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return gd.toModel()
}

// List fetches all drones, sorted by their ids.
func List[Q gormdb.Queryer](ctx context.Context, q Q) ([]model.Drone, error) {
	var gds []gDrone
	if err := q.GORM(ctx).Order("id").Find(&gds).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	ds := make([]model.Drone, 0, len(gds))
	for i := range gds {
		d, err := gds[i].toModel()
		if err != nil {
			return nil, err
		}
		ds = append(ds, *d)
	}
	return ds, nil
}

// NextID increments the drone id counter and returns its new value.
// The counter row stays locked until the end of tx, so concurrent
// transactions obtain distinct and increasing ids.
func NextID(ctx context.Context, tx *gormdb.Tx) (model.DroneID, error) {
	gdb := tx.GORM(ctx)
	tt := gdb.Model(&gCounter{}).Where(
		"name = ?", droneIDCounter,
	).UpdateColumn("value", gorm.Expr("value + ?", 1))
	if err := tt.Error; err != nil {
		return 0, fmt.Errorf("incrementing counter: %w", err)
	}
	if tt.RowsAffected != 1 {
		return 0, fmt.Errorf("counter %q is missing", droneIDCounter)
	}
	var gc gCounter
	err := gdb.Where("name = ?", droneIDCounter).Take(&gc).Error
	if err != nil {
		return 0, fmt.Errorf("reading counter: %w", err)
	}
	return model.DroneID(gc.Value), nil
}

// Insert stores d as a new row.
func Insert(ctx context.Context, tx *gormdb.Tx, d *model.Drone) error {
	if err := tx.GORM(ctx).Create(fromModel(d)).Error; err != nil {
		return fmt.Errorf("inserting drone %d: %w", d.ID, err)
	}
	return nil
}

// SaveStatus updates the status and holder columns of the d drone.
func SaveStatus(ctx context.Context, tx *gormdb.Tx, d *model.Drone) error {
	gd := fromModel(d)
	tt := tx.GORM(ctx).Model(&gDrone{}).Where(
		"id = ?", gd.ID,
	).Updates(map[string]any{
		"status": gd.Status,
		"holder": gd.Holder,
	})
	if err := tt.Error; err != nil {
		return fmt.Errorf("updating drone %d: %w", d.ID, err)
	}
	if tt.RowsAffected != 1 {
		return notFound(d.ID)
	}
	return nil
}
