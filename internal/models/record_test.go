package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordValidation(t *testing.T) {
	date := time.Date(2025, 3, 12, 18, 30, 0, 0, time.Local)

	tests := []struct {
		name    string
		number  string
		wantErr bool
	}{
		{"plain", "1234", false},
		{"leading zeros", "0042", false},
		{"surrounding whitespace", " 0042 ", false},
		{"too short", "123", true},
		{"too long", "12345", true},
		{"non numeric", "12a4", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewRecord(date, tt.number, PrizeFirst)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedRecord)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rec.Number, NumberLength)
			assert.True(t, rec.Valid())
			// Dates are normalized to UTC midnight.
			assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), rec.Date)
		})
	}
}

func TestFirstDigit(t *testing.T) {
	rec, err := NewRecord(time.Now(), "0791", PrizeStarter)
	require.NoError(t, err)

	digit, ok := rec.FirstDigit()
	require.True(t, ok)
	assert.Equal(t, 0, digit)

	bad := Record{Number: "x123"}
	_, ok = bad.FirstDigit()
	assert.False(t, ok)
}

func TestPrizeCategoryRoundTrip(t *testing.T) {
	for _, c := range []PrizeCategory{PrizeFirst, PrizeSecond, PrizeThird, PrizeStarter, PrizeConsolation} {
		parsed, err := ParsePrizeCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParsePrizeCategory("jackpot")
	assert.Error(t, err)
}

func TestDefaultPrizeWeights(t *testing.T) {
	weights := DefaultPrizeWeights()
	assert.Equal(t, 1.0, weights.Weight(PrizeFirst))
	assert.Equal(t, 0.3, weights.Weight(PrizeConsolation))

	// Unknown categories fall back to full weight.
	assert.Equal(t, 1.0, PrizeWeights{}.Weight(PrizeFirst))
	assert.Equal(t, 1.0, PrizeWeights(nil).Weight(PrizeStarter))
}
