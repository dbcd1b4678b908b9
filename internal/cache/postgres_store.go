package cache

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/fourd-analyzer/internal/database"
	"github.com/yourusername/fourd-analyzer/internal/models"
)

// PostgresStore persists snapshots in PostgreSQL, one horizon row in
// cache_horizons plus its draw_records. It is the shared-cache alternative
// to FileStore for deployments where several consumers sync the same data.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a PostgreSQL-backed store.
func NewPostgresStore(db *database.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	return &PostgresStore{db: db}, nil
}

// Load reads the snapshot for a horizon. A horizon without a row in
// cache_horizons is a cache miss, not an error.
func (s *PostgresStore) Load(ctx context.Context, horizon string) (*Snapshot, error) {
	snap := &Snapshot{}
	err := s.db.GetPool().QueryRow(ctx,
		`SELECT watermark, cached_at FROM cache_horizons WHERE horizon = $1`,
		horizon,
	).Scan(&snap.Watermark, &snap.CachedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cache horizon: %w", err)
	}

	rows, err := s.db.GetPool().Query(ctx,
		`SELECT draw_date, number, category
		 FROM draw_records
		 WHERE horizon = $1
		 ORDER BY draw_date ASC`,
		horizon,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.Record
		var category string
		if err := rows.Scan(&rec.Date, &rec.Number, &category); err != nil {
			return nil, fmt.Errorf("failed to scan cached record: %w", err)
		}
		parsed, err := models.ParsePrizeCategory(category)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrCacheCorrupted, err)
		}
		rec.Category = parsed
		if !rec.Valid() {
			return nil, fmt.Errorf("%w: invalid record %q", models.ErrCacheCorrupted, rec.Number)
		}
		rec.Date = models.DateOnly(rec.Date)
		snap.Records = append(snap.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cached records: %w", err)
	}

	snap.Watermark = models.DateOnly(snap.Watermark)
	return snap, nil
}

// Save replaces the horizon's snapshot in a single transaction. Records go
// in via COPY since a full year of draws is a few thousand rows.
func (s *PostgresStore) Save(ctx context.Context, horizon string, snap *Snapshot) error {
	tx, err := s.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO cache_horizons (horizon, watermark, cached_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (horizon) DO UPDATE
		 SET watermark = EXCLUDED.watermark, cached_at = EXCLUDED.cached_at`,
		horizon, snap.Watermark, snap.CachedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cache horizon: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM draw_records WHERE horizon = $1`, horizon); err != nil {
		return fmt.Errorf("failed to clear cached records: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"draw_records"},
		[]string{"horizon", "draw_date", "number", "category"},
		pgx.CopyFromSlice(len(snap.Records), func(i int) ([]any, error) {
			rec := snap.Records[i]
			return []any{horizon, rec.Date, rec.Number, rec.Category.String()}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy cached records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cache snapshot: %w", err)
	}

	return nil
}
