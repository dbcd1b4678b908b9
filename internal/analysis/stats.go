package analysis

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fourd-analyzer/internal/models"
)

// DefaultAlpha is the Laplace (add-one) smoothing parameter.
const DefaultAlpha = 1.0

// Options controls a Compute run.
type Options struct {
	// Categories restricts counting to the listed prize categories; nil
	// means all categories.
	Categories []models.PrizeCategory
	// Weights switches the analyzer to weighted counting when non-nil.
	Weights models.PrizeWeights
	// Alpha is the Bayesian smoothing parameter; zero or negative values
	// fall back to DefaultAlpha.
	Alpha float64
	// Logger receives debug entries for skipped malformed records.
	Logger *logrus.Logger
}

// DigitStats is the derived, immutable summary of a record subset: raw (or
// weighted) counts, smoothed probabilities and a uniformity test.
type DigitStats struct {
	Counts        DigitCounts     `json:"counts"`
	Probabilities [10]float64     `json:"probabilities"`
	Uniformity    ChiSquareResult `json:"uniformity"`
	Alpha         float64         `json:"alpha"`
}

// Compute builds DigitStats for the given records. Weighted counting ignores
// the category filter: the weights themselves encode category importance,
// matching the weighted analysis used by the windowed pipeline.
func Compute(records []models.Record, opts Options) DigitStats {
	alpha := opts.Alpha
	if alpha <= 0 {
		alpha = DefaultAlpha
	}

	var counts DigitCounts
	if opts.Weights != nil {
		counts = WeightedCounts(records, opts.Weights, opts.Logger)
	} else {
		counts = CountFirstDigits(records, opts.Categories, opts.Logger)
	}

	return DigitStats{
		Counts:        counts,
		Probabilities: Smooth(counts, alpha),
		Uniformity:    ChiSquareUniform(counts),
		Alpha:         alpha,
	}
}

// Smooth applies Dirichlet-multinomial smoothing to the counts:
//
//	P(d) = (counts[d] + alpha) / (total + 10*alpha)
//
// No probability is ever exactly zero and the result always sums to one.
func Smooth(counts DigitCounts, alpha float64) [10]float64 {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	denominator := counts.Total() + 10*alpha

	var probabilities [10]float64
	for digit, count := range counts {
		probabilities[digit] = (count + alpha) / denominator
	}
	return probabilities
}
