package gormdb

import (
	"context"
	"fmt"

	"github.com/momeni/drone-rental/pkg/core/log"
)

// slogWriter forwards the GORM logger messages (e.g., slow queries)
// to the default slog logger.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	log.Warn(context.Background(), fmt.Sprintf(format, args...))
}
