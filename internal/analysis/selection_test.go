package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fourd-analyzer/internal/models"
)

func TestSelectPriorityZero(t *testing.T) {
	t.Run("zero count digits win outright", func(t *testing.T) {
		counts := DigitCounts{3, 0, 1, 4, 0, 2, 5, 1, 2, 3}
		assert.Equal(t, []int{1, 4}, SelectPriorityZero(counts))
	})

	t.Run("falls back to low occurrence", func(t *testing.T) {
		counts := DigitCounts{1, 9, 9, 9, 9, 9, 9, 9, 9, 2}
		selected := SelectPriorityZero(counts)
		assert.Equal(t, SelectLowOccurrence(counts), selected)

		// With no zero-count digit the result must sit inside the
		// low-occurrence candidate space.
		low := map[int]bool{}
		for _, d := range SelectLowOccurrence(counts) {
			low[d] = true
		}
		for _, d := range selected {
			assert.True(t, low[d])
		}
	})
}

func TestSelectLowOccurrence(t *testing.T) {
	t.Run("selects at or below the mean", func(t *testing.T) {
		counts := DigitCounts{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		// Mean is 5.5, so digits with counts 1..5 qualify.
		assert.Equal(t, []int{0, 1, 2, 3, 4}, SelectLowOccurrence(counts))
	})

	t.Run("no observations selects every digit", func(t *testing.T) {
		assert.Len(t, SelectLowOccurrence(DigitCounts{}), 10)
	})

	t.Run("all equal counts select every digit", func(t *testing.T) {
		counts := DigitCounts{4, 4, 4, 4, 4, 4, 4, 4, 4, 4}
		assert.Len(t, SelectLowOccurrence(counts), 10)
	})
}

func TestSelectLowestOccurrence(t *testing.T) {
	counts := DigitCounts{5, 2, 7, 2, 9, 2, 8, 6, 4, 3}
	assert.Equal(t, []int{1, 3, 5}, SelectLowestOccurrence(counts))

	single := DigitCounts{5, 2, 7, 3, 9, 4, 8, 6, 4, 3}
	assert.Equal(t, []int{1}, SelectLowestOccurrence(single))
}

func TestSelectTopKByProbability(t *testing.T) {
	probabilities := [10]float64{0.05, 0.20, 0.05, 0.15, 0.05, 0.15, 0.05, 0.10, 0.10, 0.10}

	assert.Equal(t, []int{1}, SelectTopKByProbability(probabilities, 1))
	// Ties at 0.15 and 0.10 break by digit value ascending.
	assert.Equal(t, []int{1, 3, 5}, SelectTopKByProbability(probabilities, 3))
	assert.Equal(t, []int{1, 3, 5, 7, 8}, SelectTopKByProbability(probabilities, 5))

	assert.Len(t, SelectTopKByProbability(probabilities, 10), 10)
	assert.Len(t, SelectTopKByProbability(probabilities, 25), 10)
	assert.Nil(t, SelectTopKByProbability(probabilities, 0))
}

func TestUnion(t *testing.T) {
	assert.Equal(t, []int{0, 2, 4, 7}, Union([]int{4, 0}, []int{7, 2, 0}))
	assert.Equal(t, []int{3}, Union(nil, []int{3}))
	assert.Empty(t, Union(nil, nil))
}

func TestLastNDraws(t *testing.T) {
	records := make([]models.Record, 0, 8)
	for day := 1; day <= 8; day++ {
		rec, err := models.NewRecord(time.Date(2025, 2, day, 0, 0, 0, 0, time.UTC), "1234", models.PrizeFirst)
		require.NoError(t, err)
		records = append(records, rec)
	}

	window := LastNDraws(records, 3)
	dates := DistinctDates(window)
	require.Len(t, dates, 3)
	assert.Equal(t, time.Date(2025, 2, 6, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2025, 2, 8, 0, 0, 0, 0, time.UTC), dates[2])

	assert.Len(t, LastNDraws(records, 99), len(records))
	assert.Nil(t, LastNDraws(records, 0))
	assert.Nil(t, LastNDraws(nil, 6))
}

func TestRecordsInRange(t *testing.T) {
	records := []models.Record{
		mustRecord(t, 1, "1111", models.PrizeFirst),
		mustRecord(t, 10, "2222", models.PrizeFirst),
		mustRecord(t, 20, "3333", models.PrizeFirst),
	}

	from := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	sliced := RecordsInRange(records, from, to)
	require.Len(t, sliced, 1)
	assert.Equal(t, "2222", sliced[0].Number)
}
