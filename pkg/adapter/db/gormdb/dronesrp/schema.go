package dronesrp

import (
	"context"
	"fmt"

	"github.com/momeni/drone-rental/pkg/adapter/db/gormdb"
	"gorm.io/gorm/clause"
)

// Migrate creates the drones and registry_counters tables (or adds
// their missing columns) and inserts the drone id counter row if it is
// missing. A new counter starts from the largest existing drone id, so
// ids are not repeated even if the counter row was lost.
func Migrate(ctx context.Context, tx *gormdb.Tx) error {
	gdb := tx.GORM(ctx)
	if err := gdb.AutoMigrate(&gDrone{}, &gCounter{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	var last uint64
	err := gdb.Model(&gDrone{}).Select("COALESCE(MAX(id), 0)").Scan(&last).Error
	if err != nil {
		return fmt.Errorf("finding last drone id: %w", err)
	}
	err = gdb.Clauses(clause.OnConflict{DoNothing: true}).Create(&gCounter{
		Name:  droneIDCounter,
		Value: last,
	}).Error
	if err != nil {
		return fmt.Errorf("seeding %q counter: %w", droneIDCounter, err)
	}
	return nil
}

// Drop drops the drones and registry_counters tables if they exist.
func Drop(ctx context.Context, tx *gormdb.Tx) error {
	m := tx.GORM(ctx).Migrator()
	if err := m.DropTable(&gDrone{}, &gCounter{}); err != nil {
		return fmt.Errorf("dropping tables: %w", err)
	}
	return nil
}
