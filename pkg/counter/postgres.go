package counter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS stats (
		id    TEXT PRIMARY KEY,
		count BIGINT NOT NULL DEFAULT 0
	)`

// OpenPostgres connects to dsn and ensures the stats table exists.
func OpenPostgres(ctx context.Context, dsn string, logger *slog.Logger) (Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Err: fmt.Errorf("postgres: opening database: %w", err)}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &PersistenceError{Op: "open", Err: fmt.Errorf("postgres: pinging database: %w", err)}
	}

	store := &sqlStore{
		db:     db,
		logger: logger,
		incrementSQL: `
			INSERT INTO stats (id, count) VALUES ($1, 1)
			ON CONFLICT (id) DO UPDATE SET count = stats.count + 1
			RETURNING count`,
		countSQL: `SELECT count FROM stats WHERE id = $1`,
	}
	if err := store.migrate(ctx, postgresSchema); err != nil {
		_ = db.Close()
		return nil, &PersistenceError{Op: "open", Err: err}
	}
	return store, nil
}
