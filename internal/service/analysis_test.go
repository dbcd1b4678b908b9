package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fourd-analyzer/internal/models"
)

var testToday = time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)

type fakeSynchronizer struct {
	records map[string][]models.Record
	err     map[string]error
	calls   []string
}

func (f *fakeSynchronizer) Synchronize(_ context.Context, horizon string, from, to time.Time) ([]models.Record, error) {
	f.calls = append(f.calls, horizon)
	if err := f.err[horizon]; err != nil {
		return nil, err
	}
	var out []models.Record
	for _, rec := range f.records[horizon] {
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func rec(t *testing.T, daysAgo int, number string, category models.PrizeCategory) models.Record {
	t.Helper()
	r, err := models.NewRecord(testToday.AddDate(0, 0, -daysAgo), number, category)
	require.NoError(t, err)
	return r
}

// fullDraw builds a complete draw daysAgo days back whose top-3 prizes all
// start with the given digits.
func fullDraw(t *testing.T, daysAgo int, first, second, third string) []models.Record {
	t.Helper()
	return []models.Record{
		rec(t, daysAgo, first, models.PrizeFirst),
		rec(t, daysAgo, second, models.PrizeSecond),
		rec(t, daysAgo, third, models.PrizeThird),
	}
}

func newService(t *testing.T, cfg Config, sync Synchronizer) *AnalysisService {
	t.Helper()
	svc, err := NewAnalysisService(cfg, sync, nil, testLogger())
	require.NoError(t, err)
	svc.now = func() time.Time { return testToday }
	return svc
}

func TestRunClassicSelectsUnionOfPipelines(t *testing.T) {
	// Six draws whose top-3 prizes only use digits 1-3, so 0 and 4-9 have zero
	// top-3 occurrences.
	var sixMonths []models.Record
	for day := 0; day < 6; day++ {
		sixMonths = append(sixMonths, fullDraw(t, day*3, "1000", "2000", "3000")...)
	}

	sync := &fakeSynchronizer{records: map[string][]models.Record{
		HorizonSixMonths: sixMonths,
		HorizonOneYear:   sixMonths,
	}}
	svc := newService(t, Config{}, sync)

	result, err := svc.RunClassic(context.Background())
	require.NoError(t, err)

	// Priority-zero digits {0,4..9} union lowest-occurrence {0,4..9}.
	assert.Equal(t, []int{0, 4, 5, 6, 7, 8, 9}, result.Digits)
	assert.Len(t, result.Generated, 7000)

	// The generated digits never collide with the drawn 1xxx/2xxx/3xxx
	// numbers, so nothing is excluded.
	assert.Len(t, result.Filter.Kept, 7000)
	assert.Equal(t, []string{HorizonSixMonths, HorizonOneYear}, sync.calls)
}

func TestRunClassicFiltersHistory(t *testing.T) {
	var sixMonths []models.Record
	for day := 0; day < 6; day++ {
		sixMonths = append(sixMonths, fullDraw(t, day*3, "1000", "2000", "3000")...)
	}
	// 4123 appeared within six months; 5321 won a top-3 prize in the year.
	sixMonths = append(sixMonths, rec(t, 30, "4123", models.PrizeStarter))
	oneYear := append(append([]models.Record{}, sixMonths...),
		rec(t, 200, "5321", models.PrizeFirst))

	sync := &fakeSynchronizer{records: map[string][]models.Record{
		HorizonSixMonths: sixMonths,
		HorizonOneYear:   oneYear,
	}}
	svc := newService(t, Config{}, sync)

	result, err := svc.RunClassic(context.Background())
	require.NoError(t, err)

	assert.Contains(t, result.Filter.ExcludedSixMonths, "4123")
	assert.Contains(t, result.Filter.ExcludedTopThreeYr, "5321")
	assert.NotContains(t, result.Filter.Kept, "4123")
	assert.NotContains(t, result.Filter.Kept, "5321")
}

func TestRunClassicSurvivesMissingOneYearHistory(t *testing.T) {
	var sixMonths []models.Record
	for day := 0; day < 6; day++ {
		sixMonths = append(sixMonths, fullDraw(t, day*3, "1000", "2000", "3000")...)
	}

	sync := &fakeSynchronizer{
		records: map[string][]models.Record{HorizonSixMonths: sixMonths},
		err:     map[string]error{HorizonOneYear: errors.New("upstream down")},
	}
	svc := newService(t, Config{}, sync)

	result, err := svc.RunClassic(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Filter.Kept)
	assert.Empty(t, result.Filter.ExcludedTopThreeYr)
	assert.Empty(t, result.Filter.ExcludedRepeatedYr)
}

func TestRunClassicFailsWithoutHistory(t *testing.T) {
	sync := &fakeSynchronizer{records: map[string][]models.Record{}}
	svc := newService(t, Config{}, sync)

	_, err := svc.RunClassic(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestRunWindowedPrefersBiasedWindow(t *testing.T) {
	// Twenty draws all starting with 7: heavily biased, so the largest
	// window with enough draws is chosen and must pick 7 first.
	var history []models.Record
	for day := 0; day < 20; day++ {
		history = append(history, fullDraw(t, day*2, "7000", "7111", "7222")...)
	}

	sync := &fakeSynchronizer{records: map[string][]models.Record{
		HorizonOneYear:   history,
		HorizonSixMonths: history,
	}}
	svc := newService(t, Config{Windows: []int{5, 10}, TopK: 3}, sync)

	result, err := svc.RunWindowed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, result.BestWindow)
	assert.Contains(t, result.Digits, 7)
	require.Contains(t, result.WindowStats, 10)
	assert.False(t, result.WindowStats[10].Uniformity.IsUniform)
}

func TestRunWindowedSkipsShortWindows(t *testing.T) {
	var history []models.Record
	for day := 0; day < 8; day++ {
		history = append(history, fullDraw(t, day*2, "7000", "7111", "7222")...)
	}

	sync := &fakeSynchronizer{records: map[string][]models.Record{
		HorizonOneYear:   history,
		HorizonSixMonths: history,
	}}
	svc := newService(t, Config{Windows: []int{5, 50}, TopK: 3}, sync)

	result, err := svc.RunWindowed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, result.BestWindow)
	assert.NotContains(t, result.WindowStats, 50)
}

func TestRunWindowedFailsWhenNoWindowFits(t *testing.T) {
	history := fullDraw(t, 0, "7000", "7111", "7222")

	sync := &fakeSynchronizer{records: map[string][]models.Record{
		HorizonOneYear: history,
	}}
	svc := newService(t, Config{Windows: []int{50}, TopK: 3}, sync)

	_, err := svc.RunWindowed(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestRunWindowedMetadataNamesSelection(t *testing.T) {
	var history []models.Record
	for day := 0; day < 12; day++ {
		history = append(history, fullDraw(t, day*2, "7000", "7111", "7222")...)
	}

	sync := &fakeSynchronizer{records: map[string][]models.Record{
		HorizonOneYear:   history,
		HorizonSixMonths: history,
	}}
	svc := newService(t, Config{Windows: []int{10}, TopK: 3}, sync)

	result, err := svc.RunWindowed(context.Background())
	require.NoError(t, err)

	keys := make([]string, 0, len(result.Metadata))
	for _, entry := range result.Metadata {
		keys = append(keys, entry.Key)
	}
	assert.Contains(t, keys, "Selected window")
	assert.Contains(t, keys, "Final filtered numbers")

	for _, entry := range result.Metadata {
		if entry.Key == "Selected window" {
			assert.Equal(t, fmt.Sprintf("%d draws", result.BestWindow), entry.Value)
		}
	}
}
