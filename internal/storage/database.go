package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"NetWatch/internal/config"
)

func NewPostgres(ctx context.Context, cfg *config.DatabaseConfig, log *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.GetDSN())
	if err != nil {
		log.Error("Failed to open connection to postgres")
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		log.Error("Failed to ping database")
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	if err = ensureSchema(ctx, pool); err != nil {
		log.Error("Failed to apply database schema")
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Info("Successfully connected to postgres database")
	return pool, nil
}

// ensureSchema bootstraps the tables on startup. Deleting a category
// nulls the reference on its endpoints; deleting an endpoint cascades
// into its transition history.
func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS endpoints (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		address     TEXT NOT NULL,
		port        INTEGER,
		check_kind  TEXT NOT NULL,
		keyword     TEXT NOT NULL DEFAULT '',
		category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
		status      TEXT NOT NULL,
		monitored   BOOLEAN NOT NULL DEFAULT TRUE,
		origin      TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS status_transitions (
		id          TEXT PRIMARY KEY,
		endpoint_id TEXT NOT NULL REFERENCES endpoints(id) ON DELETE CASCADE,
		status      TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transitions_endpoint_time
		ON status_transitions (endpoint_id, created_at);
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		return err
	}

	return nil
}
