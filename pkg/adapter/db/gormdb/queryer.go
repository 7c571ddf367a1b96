package gormdb

import (
	"context"

	"github.com/momeni/drone-rental/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is satisfied by *Conn and *Tx, so repository functions may be
// written once and be called with either of them.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
	GORM(ctx context.Context) *gorm.DB
}
