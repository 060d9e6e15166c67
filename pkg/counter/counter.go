// Package counter persists the global count of completed roasts.
package counter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// RecordID identifies the single counter row.
const RecordID = "totalRoasts"

// Store is a persisted, monotonically increasing counter.
type Store interface {
	// Increment atomically adds one and returns the new value.
	Increment(ctx context.Context) (int64, error)
	// Count returns the current value, 0 if nothing has been recorded.
	Count(ctx context.Context) (int64, error)
	Close() error
}

// PersistenceError reports a failed counter read or write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("roast counter %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Open selects a backend from dsn:
//
//	memory:                       in-process, lost on exit
//	postgres://... postgresql://  PostgreSQL via pgx
//	sqlite:path, or a bare path   SQLite file
func Open(ctx context.Context, dsn string, logger *slog.Logger) (Store, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return nil, fmt.Errorf("counter: empty DSN")
	case dsn == "memory:":
		logger.Info("using in-memory roast counter")
		return NewMemory(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		logger.Info("using postgres roast counter")
		return OpenPostgres(ctx, dsn, logger)
	default:
		path := strings.TrimPrefix(dsn, "sqlite:")
		logger.Info("using sqlite roast counter", "path", path)
		return OpenSQLite(ctx, path, logger)
	}
}
