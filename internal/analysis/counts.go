// Package analysis computes first-digit frequency statistics over draw
// records and turns them into digit selections.
package analysis

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fourd-analyzer/internal/models"
)

// DigitCounts holds an occurrence count (or weighted sum) per first digit.
// Fixed-size array indexed by digit; string keys appear only at serialization
// boundaries.
type DigitCounts [10]float64

// Total returns the sum of all counts.
func (c DigitCounts) Total() float64 {
	total := 0.0
	for _, v := range c {
		total += v
	}
	return total
}

// Mean returns the average count across all ten digits.
func (c DigitCounts) Mean() float64 {
	return c.Total() / 10.0
}

// Min returns the smallest count.
func (c DigitCounts) Min() float64 {
	min := c[0]
	for _, v := range c[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// CountFirstDigits tallies first-digit occurrences for records matching the
// category filter. A nil filter counts every category. Malformed prize
// numbers are skipped, not errors.
func CountFirstDigits(records []models.Record, categories []models.PrizeCategory, logger *logrus.Logger) DigitCounts {
	var counts DigitCounts
	allowed := categorySet(categories)
	for _, rec := range records {
		if allowed != nil && !allowed[rec.Category] {
			continue
		}
		digit, ok := rec.FirstDigit()
		if !ok {
			logMalformed(logger, rec)
			continue
		}
		counts[digit]++
	}
	return counts
}

// WeightedCounts tallies first-digit occurrences where each record
// contributes its category weight instead of 1.
func WeightedCounts(records []models.Record, weights models.PrizeWeights, logger *logrus.Logger) DigitCounts {
	if weights == nil {
		weights = models.DefaultPrizeWeights()
	}
	var counts DigitCounts
	for _, rec := range records {
		digit, ok := rec.FirstDigit()
		if !ok {
			logMalformed(logger, rec)
			continue
		}
		counts[digit] += weights.Weight(rec.Category)
	}
	return counts
}

func categorySet(categories []models.PrizeCategory) map[models.PrizeCategory]bool {
	if categories == nil {
		return nil
	}
	set := make(map[models.PrizeCategory]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return set
}

func logMalformed(logger *logrus.Logger, rec models.Record) {
	if logger == nil {
		return
	}
	logger.WithFields(logrus.Fields{
		"number":   rec.Number,
		"date":     rec.Date.Format("2006-01-02"),
		"category": rec.Category.String(),
	}).Debug("Skipping malformed prize number")
}
