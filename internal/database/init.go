package database

import (
	"context"
	"fmt"

	"github.com/yourusername/fourd-analyzer/internal/config"
)

// Initialize creates a database connection pool and ensures the cache
// schema exists.
func Initialize(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cache_horizons (
			horizon    TEXT PRIMARY KEY,
			watermark  DATE NOT NULL,
			cached_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS draw_records (
			horizon   TEXT NOT NULL REFERENCES cache_horizons(horizon) ON DELETE CASCADE,
			draw_date DATE NOT NULL,
			number    CHAR(4) NOT NULL,
			category  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_draw_records_horizon_date
			ON draw_records (horizon, draw_date)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure cache schema: %w", err)
		}
	}

	return nil
}
