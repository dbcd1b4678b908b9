package backtest

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fourd-analyzer/internal/analysis"
	"github.com/yourusername/fourd-analyzer/internal/metrics"
	"github.com/yourusername/fourd-analyzer/internal/models"
)

// Engine orchestrates backtest runs
type Engine struct {
	config Config
	logger *logrus.Logger
}

// NewEngine creates a new backtest engine
func NewEngine(cfg Config, logger *logrus.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{config: cfg, logger: logger}, nil
}

// Config returns the backtest configuration
func (e *Engine) Config() Config {
	return e.config
}

// Run walks forward over the distinct draw dates in records. For every test
// date, digit probabilities are trained on the preceding window of draws
// only, then each top-k prediction set is scored against the first digit of
// that date's first prize.
func (e *Engine) Run(ctx context.Context, records []models.Record) (*Result, error) {
	dates := analysis.DistinctDates(records)
	required := e.config.maxWindow() + e.config.minExtraDraws()
	if len(dates) < required {
		return nil, fmt.Errorf("%w: have %d distinct draws, need %d",
			models.ErrInsufficientData, len(dates), required)
	}

	e.logger.WithFields(logrus.Fields{
		"draws":   len(dates),
		"windows": e.config.Windows,
		"top_ks":  e.config.TopKs,
	}).Info("Starting backtest run")

	start := time.Now()
	result := &Result{
		RunID:         uuid.New(),
		StartedAt:     start.UTC(),
		DistinctDraws: len(dates),
	}

	byDate := groupByDate(records)

	for _, window := range e.config.Windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		windowResult := e.runWindow(window, dates, byDate)
		result.Windows = append(result.Windows, windowResult)

		for _, acc := range windowResult.Accuracies {
			metrics.BacktestAccuracy.WithLabelValues(
				strconv.Itoa(window), strconv.Itoa(acc.TopK),
			).Set(acc.Rate())
		}
	}

	result.Duration = time.Since(start)
	metrics.RecordBacktestRun(result.Duration.Seconds())

	e.logger.WithField("duration", result.Duration).Info("Backtest run complete")
	return result, nil
}

func (e *Engine) runWindow(window int, dates []time.Time, byDate map[time.Time][]models.Record) WindowResult {
	windowResult := WindowResult{WindowSize: window}
	accuracies := make(map[int]*TopKAccuracy, len(e.config.TopKs))
	for _, k := range e.config.TopKs {
		accuracies[k] = &TopKAccuracy{TopK: k}
	}

	// Training stops at the draw before the test date; the test draw never
	// contributes to its own prediction.
	for i := window; i < len(dates); i++ {
		actual, ok := firstPrizeDigit(byDate[dates[i]])
		if !ok {
			continue
		}

		var train []models.Record
		for _, d := range dates[i-window : i] {
			train = append(train, byDate[d]...)
		}

		counts := analysis.WeightedCounts(train, e.config.Weights, e.logger)
		probabilities := analysis.Smooth(counts, e.config.Alpha)
		uniformity := analysis.ChiSquareUniform(counts)

		windowResult.TotalTests++
		if uniformity.IsUniform {
			windowResult.Uniform++
		} else {
			windowResult.NonUniform++
		}

		for _, k := range e.config.TopKs {
			predicted := analysis.SelectTopKByProbability(probabilities, k)
			acc := accuracies[k]
			acc.Total++
			if containsDigit(predicted, actual) {
				acc.Correct++
			}
		}
	}

	for _, k := range e.config.TopKs {
		windowResult.Accuracies = append(windowResult.Accuracies, *accuracies[k])
	}
	return windowResult
}

func groupByDate(records []models.Record) map[time.Time][]models.Record {
	byDate := make(map[time.Time][]models.Record)
	for _, rec := range records {
		byDate[rec.Date] = append(byDate[rec.Date], rec)
	}
	return byDate
}

// firstPrizeDigit returns the leading digit of the date's first prize, or
// false when the draw has no usable first prize record.
func firstPrizeDigit(records []models.Record) (int, bool) {
	for _, rec := range records {
		if rec.Category != models.PrizeFirst {
			continue
		}
		return rec.FirstDigit()
	}
	return 0, false
}

func containsDigit(digits []int, digit int) bool {
	for _, d := range digits {
		if d == digit {
			return true
		}
	}
	return false
}
