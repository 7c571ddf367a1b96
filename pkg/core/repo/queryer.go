package repo

import "context"

// Queryer runs raw SQL statements. Repositories normally use their
// own framework (e.g., GORM) and Queryer is kept for schema scripts
// and test fixtures.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
}
