package backtest

import (
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of one backtest run across all configured windows.
type Result struct {
	RunID         uuid.UUID      `json:"run_id"`
	StartedAt     time.Time      `json:"started_at"`
	Duration      time.Duration  `json:"duration"`
	DistinctDraws int            `json:"distinct_draws"`
	Windows       []WindowResult `json:"windows"`
}

// WindowResult holds the scores for one training window size.
type WindowResult struct {
	WindowSize int            `json:"window_size"`
	TotalTests int            `json:"total_tests"`
	Uniform    int            `json:"uniform"`
	NonUniform int            `json:"non_uniform"`
	Accuracies []TopKAccuracy `json:"accuracies"`
}

// UniformRate is the share of training windows whose digit distribution
// was statistically indistinguishable from uniform.
func (w WindowResult) UniformRate() float64 {
	total := w.Uniform + w.NonUniform
	if total == 0 {
		return 0
	}
	return float64(w.Uniform) / float64(total)
}

// TopKAccuracy scores predictions of size TopK against actual first digits.
type TopKAccuracy struct {
	TopK    int `json:"top_k"`
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Rate is the hit rate of the prediction set.
func (a TopKAccuracy) Rate() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Total)
}

// Baseline is the hit rate a uniformly random k-digit pick would achieve.
func (a TopKAccuracy) Baseline() float64 {
	return float64(a.TopK) / 10.0
}

// Improvement is the relative gain over baseline, in percent.
func (a TopKAccuracy) Improvement() float64 {
	baseline := a.Baseline()
	if baseline == 0 {
		return 0
	}
	return (a.Rate() - baseline) / baseline * 100
}
