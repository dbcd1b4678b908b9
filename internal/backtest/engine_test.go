package backtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fourd-analyzer/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func drawRecord(t *testing.T, day int, number string, category models.PrizeCategory) models.Record {
	t.Helper()
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day)
	rec, err := models.NewRecord(date, number, category)
	require.NoError(t, err)
	return rec
}

// drawSeries builds one draw per day, each with a first prize starting with
// firstDigit plus a couple of filler starters.
func drawSeries(t *testing.T, days int, firstDigit int) []models.Record {
	t.Helper()
	var records []models.Record
	for day := 0; day < days; day++ {
		first := fmt.Sprintf("%d%03d", firstDigit, day%1000)
		records = append(records,
			drawRecord(t, day, first, models.PrizeFirst),
			drawRecord(t, day, "1111", models.PrizeStarter),
			drawRecord(t, day, "2222", models.PrizeConsolation),
		)
	}
	return records
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "no windows", cfg: Config{TopKs: []int{3}}},
		{name: "no top-ks", cfg: Config{Windows: []int{10}}},
		{name: "top-k out of range", cfg: Config{Windows: []int{10}, TopKs: []int{11}}},
		{name: "negative window", cfg: Config{Windows: []int{-1}, TopKs: []int{3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.cfg, testLogger())
			require.Error(t, err)
		})
	}
}

func TestRunRefusesInsufficientData(t *testing.T) {
	engine, err := NewEngine(Config{Windows: []int{30}, TopKs: []int{3}}, testLogger())
	require.NoError(t, err)

	// 30 + 10 draws are required; 39 are one short.
	records := drawSeries(t, 39, 7)
	_, err = engine.Run(context.Background(), records)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestRunTopTenIsAlwaysCorrect(t *testing.T) {
	engine, err := NewEngine(Config{Windows: []int{10}, TopKs: []int{10}, MinExtraDraws: 5}, testLogger())
	require.NoError(t, err)

	records := drawSeries(t, 20, 4)
	result, err := engine.Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Windows, 1)
	acc := result.Windows[0].Accuracies[0]
	assert.Equal(t, 10, acc.TopK)
	assert.Equal(t, acc.Total, acc.Correct)
	assert.InDelta(t, 1.0, acc.Rate(), 1e-9)
	assert.InDelta(t, 0.0, acc.Improvement(), 1e-9)
}

func TestRunPredictsConstantDigit(t *testing.T) {
	engine, err := NewEngine(Config{Windows: []int{10}, TopKs: []int{1}, MinExtraDraws: 5}, testLogger())
	require.NoError(t, err)

	// Every first prize starts with 7, so a top-1 prediction trained on any
	// window must always hit.
	records := drawSeries(t, 30, 7)
	result, err := engine.Run(context.Background(), records)
	require.NoError(t, err)

	window := result.Windows[0]
	assert.Equal(t, 20, window.TotalTests)
	acc := window.Accuracies[0]
	assert.InDelta(t, 1.0, acc.Rate(), 1e-9)
	assert.True(t, acc.Improvement() > 0)
}

func TestRunSkipsDrawsWithoutFirstPrize(t *testing.T) {
	engine, err := NewEngine(Config{Windows: []int{5}, TopKs: []int{3}, MinExtraDraws: 5}, testLogger())
	require.NoError(t, err)

	records := drawSeries(t, 15, 7)
	// Add a draw past the series that only carries a starter prize.
	records = append(records, drawRecord(t, 20, "9999", models.PrizeStarter))

	result, err := engine.Run(context.Background(), records)
	require.NoError(t, err)

	// 16 distinct dates, window 5 leaves 11 candidate tests, one of which
	// has no first prize.
	assert.Equal(t, 10, result.Windows[0].TotalTests)
}

func TestRunReportsUniformity(t *testing.T) {
	engine, err := NewEngine(Config{Windows: []int{10}, TopKs: []int{3}, MinExtraDraws: 5}, testLogger())
	require.NoError(t, err)

	// A constant digit is maximally non-uniform.
	records := drawSeries(t, 25, 3)
	result, err := engine.Run(context.Background(), records)
	require.NoError(t, err)

	window := result.Windows[0]
	assert.Equal(t, window.TotalTests, window.NonUniform)
	assert.Equal(t, 0, window.Uniform)
	assert.InDelta(t, 0.0, window.UniformRate(), 1e-9)
}

func TestGenerateConsoleReport(t *testing.T) {
	engine, err := NewEngine(Config{Windows: []int{10}, TopKs: []int{1, 3}, MinExtraDraws: 5}, testLogger())
	require.NoError(t, err)

	records := drawSeries(t, 20, 7)
	result, err := engine.Run(context.Background(), records)
	require.NoError(t, err)

	report := GenerateConsoleReport(result)
	assert.Contains(t, report, "Window Size: 10 draws")
	assert.Contains(t, report, "Top-1:")
	assert.Contains(t, report, "Top-3:")
	assert.Contains(t, report, "baseline: 10.0%")
}
