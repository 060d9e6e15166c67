package counter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS stats (
		id    TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	)`

// OpenSQLite opens (creating if needed) a SQLite counter at path.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Err: fmt.Errorf("sqlite: opening database: %w", err)}
	}
	// One connection serializes writers inside this process; busy_timeout and
	// retries cover other processes sharing the file.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, &PersistenceError{Op: "open", Err: fmt.Errorf("sqlite: %s: %w", pragma, err)}
		}
	}

	store := &sqlStore{
		db:     db,
		logger: logger,
		incrementSQL: `
			INSERT INTO stats (id, count) VALUES (?, 1)
			ON CONFLICT(id) DO UPDATE SET count = count + 1
			RETURNING count`,
		countSQL:  `SELECT count FROM stats WHERE id = ?`,
		retryable: isSQLiteBusy,
	}
	if err := store.migrate(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, &PersistenceError{Op: "open", Err: err}
	}
	return store, nil
}

func isSQLiteBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	// Extended codes such as SQLITE_BUSY_SNAPSHOT carry the primary code in the low byte.
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}
