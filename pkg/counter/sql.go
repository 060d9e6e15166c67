package counter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// sqlStore implements Store over database/sql. The increment statement is a single
// upsert, so concurrent writers never lose an update.
type sqlStore struct {
	db           *sql.DB
	logger       *slog.Logger
	incrementSQL string
	countSQL     string
	// retryable reports transient lock contention worth another attempt.
	retryable func(error) bool
}

func (s *sqlStore) migrate(ctx context.Context, schema string) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating stats table: %w", err)
	}
	return nil
}

func (s *sqlStore) Increment(ctx context.Context) (int64, error) {
	var count int64
	err := withRetry(ctx, s.logger, s.retryable, func() error {
		return s.db.QueryRowContext(ctx, s.incrementSQL, RecordID).Scan(&count)
	})
	if err != nil {
		return 0, &PersistenceError{Op: "increment", Err: err}
	}
	s.logger.Debug("roast counter incremented", "count", count)
	return count, nil
}

func (s *sqlStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, s.countSQL, RecordID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, &PersistenceError{Op: "read", Err: err}
	}
	return count, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
