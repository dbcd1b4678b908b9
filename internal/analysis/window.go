package analysis

import (
	"sort"
	"time"

	"github.com/yourusername/fourd-analyzer/internal/models"
)

// DistinctDates returns the unique draw dates present in the records, sorted
// ascending.
func DistinctDates(records []models.Record) []time.Time {
	seen := make(map[time.Time]bool, len(records))
	for _, rec := range records {
		seen[rec.Date] = true
	}
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// LastNDraws returns the records belonging to the n most recent distinct draw
// dates. The window is a derived view: recomputed on demand, never persisted.
func LastNDraws(records []models.Record, n int) []models.Record {
	if n <= 0 || len(records) == 0 {
		return nil
	}

	dates := DistinctDates(records)
	if len(dates) > n {
		dates = dates[len(dates)-n:]
	}

	keep := make(map[time.Time]bool, len(dates))
	for _, d := range dates {
		keep[d] = true
	}

	window := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if keep[rec.Date] {
			window = append(window, rec)
		}
	}
	return window
}

// RecordsInRange slices records to those whose date falls within [from, to]
// inclusive, compared at day granularity.
func RecordsInRange(records []models.Record, from, to time.Time) []models.Record {
	from = models.DateOnly(from)
	to = models.DateOnly(to)

	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
