package simulate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fourd-analyzer/internal/models"
)

func TestCalculateWorstCase(t *testing.T) {
	numbers := []string{"1000", "1001", "1002"}

	s := Calculate(numbers, Outcome{})

	assert.Equal(t, 3, s.TotalNumbers)
	assert.True(t, s.TotalCost.Equal(decimal.NewFromInt(3)))
	assert.True(t, s.TotalWinnings.IsZero())
	assert.True(t, s.NetProfit.Equal(decimal.NewFromInt(-3)))
	assert.True(t, s.ROIPercent.Equal(decimal.NewFromInt(-100)))
}

func TestCalculateMaxWin(t *testing.T) {
	numbers := make([]string, 100)
	for i := range numbers {
		numbers[i] = "1000"
	}

	s := Calculate(numbers, Outcome{
		FirstPrize:   1,
		SecondPrize:  1,
		ThirdPrize:   1,
		Starters:     MaxStarters,
		Consolations: MaxConsolations,
	})

	// 2000 + 1000 + 400 + 10*250 + 10*60 = 6500
	assert.True(t, s.TotalWinnings.Equal(decimal.NewFromInt(6500)), "got %s", s.TotalWinnings)
	assert.True(t, s.NetProfit.Equal(decimal.NewFromInt(6400)))
	assert.True(t, s.ROIPercent.Equal(decimal.NewFromInt(6400)))
}

func TestCalculateNoNumbers(t *testing.T) {
	s := Calculate(nil, Outcome{FirstPrize: 1})
	assert.True(t, s.TotalCost.IsZero())
	assert.True(t, s.ROIPercent.IsZero())
}

func TestTopThreeScenarios(t *testing.T) {
	scenarios := TopThreeScenarios([]string{"1000"})
	require.Len(t, scenarios, 8)

	for _, s := range scenarios {
		assert.Zero(t, s.Outcome.Starters)
		assert.Zero(t, s.Outcome.Consolations)
	}
}

func TestCompleteScenarios(t *testing.T) {
	scenarios := CompleteScenarios([]string{"1000"})
	assert.Len(t, scenarios, 968)
}

func TestSummarize(t *testing.T) {
	numbers := make([]string, 500)
	for i := range numbers {
		numbers[i] = "1000"
	}
	scenarios := TopThreeScenarios(numbers)

	summary, err := Summarize(scenarios)
	require.NoError(t, err)

	// Best case wins all three top prizes: 3400 - 500 = 2900.
	assert.True(t, summary.BestCase.NetProfit.Equal(decimal.NewFromInt(2900)), "got %s", summary.BestCase.NetProfit)
	assert.True(t, summary.WorstCase.NetProfit.Equal(decimal.NewFromInt(-500)))
	// Scenarios clearing 500 in winnings: any with first prize (4), second
	// alone (1000), and second+third (1400).
	assert.Equal(t, 6, summary.BreakEvenHits)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	assert.Error(t, err)
}

func TestLoadNumbersCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filtered_first_digit_20250405.csv")
	content := "Number\n0123\n456\n7890\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	numbers, err := LoadNumbersCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"0123", "0456", "7890"}, numbers)
}

func TestLoadNumbersCSVRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "numbers.csv")
	require.NoError(t, os.WriteFile(path, []byte("Number\nabcd\n"), 0o644))

	_, err := LoadNumbersCSV(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMalformedRecord)
}

func TestFindLatestCSV(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "filtered_first_digit_20250401.csv")
	newer := filepath.Join(dir, "filtered_first_digit_20250405.csv")
	require.NoError(t, os.WriteFile(older, []byte("Number\n1000\n"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("Number\n2000\n"), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	latest, err := FindLatestCSV(dir, "filtered_first_digit_*.csv")
	require.NoError(t, err)
	assert.Equal(t, newer, latest)
}

func TestFindLatestCSVNoMatches(t *testing.T) {
	_, err := FindLatestCSV(t.TempDir(), "*.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
