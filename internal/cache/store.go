// Package cache implements the persisted draw-history cache and its
// incremental synchronization against an upstream draw source.
package cache

import (
	"context"
	"time"

	"github.com/yourusername/fourd-analyzer/internal/models"
)

// Snapshot is the persisted state of one cache horizon: the merged record
// set, the last draw date already fetched, and when it was written.
type Snapshot struct {
	Records   []models.Record `json:"records"`
	Watermark time.Time       `json:"watermark"`
	CachedAt  time.Time       `json:"cached_at"`
}

// Store persists snapshots keyed by horizon name ("6mo", "1yr", ...).
// Load returns (nil, nil) when no snapshot exists for the horizon; an
// unreadable snapshot is reported wrapping models.ErrCacheCorrupted so
// callers can treat it as a cache miss.
type Store interface {
	Load(ctx context.Context, horizon string) (*Snapshot, error)
	Save(ctx context.Context, horizon string, snap *Snapshot) error
}
