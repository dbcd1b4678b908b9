package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fourd-analyzer/internal/datasource"
	"github.com/yourusername/fourd-analyzer/internal/metrics"
	"github.com/yourusername/fourd-analyzer/internal/models"
)

// Config controls Manager behavior.
type Config struct {
	// FetchTimeout bounds a single upstream fetch. Zero means 60s.
	FetchTimeout time.Duration
	// MemoTTL is how long a synchronized slice is served from process
	// memory without touching the store again. Zero means 5m.
	MemoTTL time.Duration
}

const (
	defaultFetchTimeout = 60 * time.Second
	defaultMemoTTL      = 5 * time.Minute
)

// Manager synchronizes a persisted cache horizon against the upstream
// draw source. The watermark in each snapshot records the last draw date
// already fetched; a sync only requests dates past it, merges the new
// records over the cached ones and persists the result.
type Manager struct {
	cfg    Config
	source datasource.DrawSource
	store  Store
	memo   *gocache.Cache
	logger *logrus.Logger

	// now is replaceable in tests
	now func() time.Time
}

// NewManager creates a cache manager. Source, store and logger are required.
func NewManager(cfg Config, source datasource.DrawSource, store Store, logger *logrus.Logger) (*Manager, error) {
	if source == nil {
		return nil, fmt.Errorf("draw source is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.MemoTTL <= 0 {
		cfg.MemoTTL = defaultMemoTTL
	}
	return &Manager{
		cfg:    cfg,
		source: source,
		store:  store,
		memo:   gocache.New(cfg.MemoTTL, cfg.MemoTTL*2),
		logger: logger,
		now:    time.Now,
	}, nil
}

// Synchronize returns all records with dates in [from, to], bringing the
// named horizon up to date first. When the persisted watermark already
// covers today no fetch happens. When the upstream fetch fails or returns
// nothing, the cached records are served as-is; with nothing cached the
// result is empty, not an error.
func (m *Manager) Synchronize(ctx context.Context, horizon string, from, to time.Time) ([]models.Record, error) {
	from = models.DateOnly(from)
	to = models.DateOnly(to)
	if to.Before(from) {
		return nil, fmt.Errorf("invalid range: %s is before %s", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	memoKey := fmt.Sprintf("%s:%s:%s", horizon, from.Format(time.DateOnly), to.Format(time.DateOnly))
	if cached, found := m.memo.Get(memoKey); found {
		if records, ok := cached.([]models.Record); ok {
			metrics.RecordCacheHit()
			return records, nil
		}
	}

	start := m.now()
	records, err := m.synchronize(ctx, horizon, from, to)
	metrics.SyncDuration.Observe(m.now().Sub(start).Seconds())
	if err != nil {
		return nil, err
	}

	m.memo.Set(memoKey, records, m.cfg.MemoTTL)
	return records, nil
}

func (m *Manager) synchronize(ctx context.Context, horizon string, from, to time.Time) ([]models.Record, error) {
	log := m.logger.WithFields(logrus.Fields{
		"horizon": horizon,
		"from":    from.Format(time.DateOnly),
		"to":      to.Format(time.DateOnly),
	})

	snap, err := m.store.Load(ctx, horizon)
	if err != nil {
		if !errors.Is(err, models.ErrCacheCorrupted) {
			return nil, fmt.Errorf("failed to load cache: %w", err)
		}
		// Unreadable state is a miss: refetch the whole range.
		log.WithError(err).Warn("Cache snapshot unreadable, refetching")
		snap = nil
	}

	today := models.DateOnly(m.now())

	if snap != nil && !snap.Watermark.Before(today) {
		log.WithField("records", len(snap.Records)).Debug("Cache is current, skipping fetch")
		metrics.RecordCacheHit()
		m.observe(horizon, snap, today)
		return sliceByRange(snap.Records, from, to), nil
	}
	metrics.RecordCacheMiss()

	fetchFrom := from
	if snap != nil && len(snap.Records) > 0 {
		fetchFrom = snap.Watermark.AddDate(0, 0, 1)
		if fetchFrom.Before(from) {
			fetchFrom = from
		}
	}

	fresh, err := m.fetch(ctx, fetchFrom, to)
	if err != nil {
		if snap == nil {
			log.WithError(err).Warn("Fetch failed with no cached data, returning empty result")
			metrics.RecordCacheFallback()
			return nil, nil
		}
		log.WithError(err).Warn("Fetch failed, serving cached data")
		metrics.RecordCacheFallback()
		return sliceByRange(snap.Records, from, to), nil
	}
	if len(fresh) == 0 {
		if snap == nil {
			return nil, nil
		}
		log.Debug("No new draws upstream, serving cached data")
		metrics.RecordCacheFallback()
		return sliceByRange(snap.Records, from, to), nil
	}

	var existing []models.Record
	if snap != nil {
		existing = snap.Records
	}
	merged := mergeRecords(existing, fresh)

	next := &Snapshot{
		Records:   merged,
		Watermark: maxDate(merged),
		CachedAt:  m.now().UTC(),
	}
	if err := m.store.Save(ctx, horizon, next); err != nil {
		// A failed persist does not invalidate the merged view.
		log.WithError(err).Error("Failed to persist cache snapshot")
	}

	log.WithFields(logrus.Fields{
		"fetched": len(fresh),
		"total":   len(merged),
	}).Info("Cache synchronized")
	m.observe(horizon, next, today)

	return sliceByRange(merged, from, to), nil
}

func (m *Manager) fetch(ctx context.Context, from, to time.Time) ([]models.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.FetchTimeout)
	defer cancel()

	start := m.now()
	records, err := m.source.FetchResults(ctx, from, to)
	elapsed := m.now().Sub(start).Seconds()
	if err != nil {
		metrics.RecordFetch("error", elapsed)
		return nil, err
	}
	metrics.RecordFetch("success", elapsed)
	return records, nil
}

func (m *Manager) observe(horizon string, snap *Snapshot, today time.Time) {
	metrics.UpdateCacheSize(horizon, float64(len(snap.Records)))
	metrics.UpdateWatermarkAge(horizon, today.Sub(snap.Watermark).Hours()/24)
}

// mergeRecords overlays fresh records on top of existing ones. Records are
// keyed by (date, category, position within that category for the date), so
// refetching a date replaces its prizes instead of duplicating them. The
// result is sorted by date, then category, then position.
func mergeRecords(existing, fresh []models.Record) []models.Record {
	type key struct {
		date     time.Time
		category models.PrizeCategory
		pos      int
	}

	merged := make(map[key]models.Record, len(existing)+len(fresh))
	index := func(records []models.Record) {
		seen := make(map[key]int)
		for _, rec := range records {
			slot := key{date: rec.Date, category: rec.Category}
			k := key{date: rec.Date, category: rec.Category, pos: seen[slot]}
			seen[slot]++
			merged[k] = rec
		}
	}
	index(existing)
	index(fresh)

	keys := make([]key, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].date.Equal(keys[j].date) {
			return keys[i].date.Before(keys[j].date)
		}
		if keys[i].category != keys[j].category {
			return keys[i].category < keys[j].category
		}
		return keys[i].pos < keys[j].pos
	})

	out := make([]models.Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, merged[k])
	}
	return out
}

// maxDate assumes records sorted by date ascending.
func maxDate(records []models.Record) time.Time {
	if len(records) == 0 {
		return time.Time{}
	}
	return records[len(records)-1].Date
}

func sliceByRange(records []models.Record, from, to time.Time) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
