// Package service wires the cache, analysis, filter and output layers into
// the end-to-end number selection pipelines.
package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fourd-analyzer/internal/analysis"
	"github.com/yourusername/fourd-analyzer/internal/filter"
	"github.com/yourusername/fourd-analyzer/internal/models"
	"github.com/yourusername/fourd-analyzer/internal/output"
)

// Horizon names used for cache snapshots.
const (
	HorizonSixMonths = "6mo"
	HorizonOneYear   = "1yr"
)

const (
	defaultSixMonthsDays = 182
	defaultOneYearDays   = 365
	classicDrawCount     = 6
)

// Config holds the analysis service parameters.
type Config struct {
	// SixMonthsDays and OneYearDays size the two history horizons. Zero
	// values fall back to 182 and 365.
	SixMonthsDays int
	OneYearDays   int
	// Windows are the draw-count windows the windowed pipeline analyzes.
	Windows []int
	// TopK is the number of digits picked per window by probability.
	TopK int
	// Alpha is the smoothing parameter.
	Alpha float64
	// Weights are per-category prize weights for the weighted analysis.
	Weights models.PrizeWeights
}

// SelectionResult is the outcome of a pipeline run: the chosen digits, the
// generated candidates and the filter verdicts, plus the metadata that goes
// into the text report header.
type SelectionResult struct {
	Digits    []int
	Generated []string
	Filter    filter.Result
	Metadata  []output.MetadataEntry

	// WindowStats is populated by the windowed pipeline only.
	WindowStats map[int]analysis.DigitStats
	// BestWindow is the window the final selection came from.
	BestWindow int
}

// Synchronizer provides date-ranged draw history, kept current against the
// upstream source. cache.Manager is the production implementation.
type Synchronizer interface {
	Synchronize(ctx context.Context, horizon string, from, to time.Time) ([]models.Record, error)
}

// AnalysisService runs the selection pipelines over synchronized history.
type AnalysisService struct {
	cfg    Config
	cache  Synchronizer
	writer *output.Writer
	logger *logrus.Logger

	// now is replaceable in tests
	now func() time.Time
}

// NewAnalysisService creates the service. Synchronizer and logger are
// required; the writer may be nil when callers only want the result value.
func NewAnalysisService(cfg Config, cacheManager Synchronizer, writer *output.Writer, logger *logrus.Logger) (*AnalysisService, error) {
	if cacheManager == nil {
		return nil, fmt.Errorf("cache manager is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.SixMonthsDays <= 0 {
		cfg.SixMonthsDays = defaultSixMonthsDays
	}
	if cfg.OneYearDays <= 0 {
		cfg.OneYearDays = defaultOneYearDays
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = analysis.DefaultAlpha
	}
	if cfg.Weights == nil {
		cfg.Weights = models.DefaultPrizeWeights()
	}
	return &AnalysisService{
		cfg:    cfg,
		cache:  cacheManager,
		writer: writer,
		logger: logger,
		now:    time.Now,
	}, nil
}

// RunClassic selects digits from the last six draws: the union of the
// priority-zero pick over top-3 prizes and the lowest-occurrence pick over
// all prizes, then generates and filters candidate numbers.
func (s *AnalysisService) RunClassic(ctx context.Context) (*SelectionResult, error) {
	today := models.DateOnly(s.now())
	sixMonthsAgo := today.AddDate(0, 0, -s.cfg.SixMonthsDays)
	oneYearAgo := today.AddDate(0, 0, -s.cfg.OneYearDays)

	sixMonths, err := s.cache.Synchronize(ctx, HorizonSixMonths, sixMonthsAgo, today)
	if err != nil {
		return nil, fmt.Errorf("failed to sync six month history: %w", err)
	}
	if len(sixMonths) == 0 {
		return nil, fmt.Errorf("%w: no draws in the last %d days", models.ErrInsufficientData, s.cfg.SixMonthsDays)
	}

	lastDraws := analysis.LastNDraws(sixMonths, classicDrawCount)
	drawDates := analysis.DistinctDates(lastDraws)
	s.logger.WithField("draws", len(drawDates)).Info("Analyzing recent draws")

	topThreeCounts := analysis.CountFirstDigits(lastDraws, models.TopThreeCategories, s.logger)
	topThreePick := analysis.SelectPriorityZero(topThreeCounts)

	allCounts := analysis.CountFirstDigits(lastDraws, nil, s.logger)
	lowestPick := analysis.SelectLowestOccurrence(allCounts)

	digits := analysis.Union(topThreePick, lowestPick)
	s.logger.WithFields(logrus.Fields{
		"top3_pick":   topThreePick,
		"lowest_pick": lowestPick,
		"digits":      digits,
	}).Info("Digits selected")

	oneYear, err := s.cache.Synchronize(ctx, HorizonOneYear, oneYearAgo, today)
	if err != nil {
		// The one-year exclusions degrade gracefully without history.
		s.logger.WithError(err).Warn("One year history unavailable, filtering on six months only")
		oneYear = nil
	}

	result := s.generateAndFilter(digits, sixMonths, oneYear)
	result.Metadata = append([]output.MetadataEntry{
		{Key: "Filtered 4D Numbers: Based on First Digit Analysis", Value: ""},
		{Key: "Generated on", Value: s.now().Format("02 Jan 2006 15:04:05")},
		{Key: "Last draws analyzed", Value: formatDates(drawDates)},
		{Key: "Selected first digits", Value: formatDigits(digits)},
		{Key: "Date range for filtering (6 months)", Value: formatRange(sixMonthsAgo, today)},
		{Key: "Date range for filtering (1 year)", Value: formatRange(oneYearAgo, today)},
	}, result.Metadata...)

	if err := s.write("filtered_first_digit", result); err != nil {
		return nil, err
	}
	return result, nil
}

// RunWindowed selects digits with the weighted Bayesian analysis over the
// configured rolling windows, preferring the largest window whose digit
// distribution is not consistent with uniform.
func (s *AnalysisService) RunWindowed(ctx context.Context) (*SelectionResult, error) {
	if len(s.cfg.Windows) == 0 {
		return nil, fmt.Errorf("no analysis windows configured")
	}

	today := models.DateOnly(s.now())
	oneYearAgo := today.AddDate(0, 0, -s.cfg.OneYearDays)
	sixMonthsAgo := today.AddDate(0, 0, -s.cfg.SixMonthsDays)

	history, err := s.cache.Synchronize(ctx, HorizonOneYear, oneYearAgo, today)
	if err != nil {
		return nil, fmt.Errorf("failed to sync history: %w", err)
	}

	windowStats := make(map[int]analysis.DigitStats, len(s.cfg.Windows))
	for _, window := range s.cfg.Windows {
		windowRecords := analysis.LastNDraws(history, window)
		if len(analysis.DistinctDates(windowRecords)) < window {
			s.logger.WithField("window", window).Warn("Not enough draws for window, skipping")
			continue
		}
		windowStats[window] = analysis.Compute(windowRecords, analysis.Options{
			Weights: s.cfg.Weights,
			Alpha:   s.cfg.Alpha,
			Logger:  s.logger,
		})
	}
	if len(windowStats) == 0 {
		return nil, fmt.Errorf("%w: no window has enough draws", models.ErrInsufficientData)
	}

	bestWindow := chooseBestWindow(s.cfg.Windows, windowStats)
	digits := analysis.SelectTopKByProbability(windowStats[bestWindow].Probabilities, s.cfg.TopK)
	sortedDigits := append([]int(nil), digits...)
	sort.Ints(sortedDigits)

	s.logger.WithFields(logrus.Fields{
		"best_window": bestWindow,
		"digits":      digits,
	}).Info("Window selected")

	sixMonths, err := s.cache.Synchronize(ctx, HorizonSixMonths, sixMonthsAgo, today)
	if err != nil {
		s.logger.WithError(err).Warn("Six month history unavailable, reusing one year history")
		sixMonths = analysis.RecordsInRange(history, sixMonthsAgo, today)
	}

	result := s.generateAndFilter(sortedDigits, sixMonths, history)
	result.WindowStats = windowStats
	result.BestWindow = bestWindow
	result.Metadata = append([]output.MetadataEntry{
		{Key: "Improved 4D Filter: Bayesian Analysis with Rolling Windows", Value: ""},
		{Key: "Generated on", Value: s.now().Format("02 Jan 2006 15:04:05")},
		{Key: "Window sizes analyzed", Value: formatWindows(s.cfg.Windows)},
		{Key: "Selected window", Value: fmt.Sprintf("%d draws", bestWindow)},
		{Key: "Selected digits", Value: formatDigits(sortedDigits)},
	}, result.Metadata...)

	if err := s.write("filtered_improved", result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AnalysisService) generateAndFilter(digits []int, sixMonths, oneYear []models.Record) *SelectionResult {
	generated := filter.Generate(digits)
	filtered := filter.ByHistory(generated, sixMonths, oneYear)

	s.logger.WithFields(logrus.Fields{
		"generated":      len(generated),
		"kept":           len(filtered.Kept),
		"excluded_6mo":   len(filtered.ExcludedSixMonths),
		"excluded_top3":  len(filtered.ExcludedTopThreeYr),
		"excluded_multi": len(filtered.ExcludedRepeatedYr),
	}).Info("Candidates filtered")

	return &SelectionResult{
		Digits:    digits,
		Generated: generated,
		Filter:    filtered,
		Metadata: []output.MetadataEntry{
			{Key: "Total generated numbers", Value: strconv.Itoa(len(generated))},
			{Key: "Numbers appeared in past 6 months (all prizes)", Value: strconv.Itoa(len(filtered.ExcludedSixMonths))},
			{Key: "Numbers appeared in top 3 prizes (past 1 year)", Value: strconv.Itoa(len(filtered.ExcludedTopThreeYr))},
			{Key: "Numbers appeared multiple times (past 1 year)", Value: strconv.Itoa(len(filtered.ExcludedRepeatedYr))},
			{Key: "Final filtered numbers", Value: strconv.Itoa(len(filtered.Kept))},
		},
	}
}

func (s *AnalysisService) write(prefix string, result *SelectionResult) error {
	if s.writer == nil {
		return nil
	}
	paths, err := s.writer.Write(prefix, result.Filter.Kept, result.Metadata)
	if err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	s.logger.WithField("paths", paths).Info("Selection saved")
	return nil
}

// chooseBestWindow prefers the largest window whose distribution shows real
// bias; with nothing but uniform windows the largest one wins.
func chooseBestWindow(windows []int, stats map[int]analysis.DigitStats) int {
	sorted := append([]int(nil), windows...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	for _, window := range sorted {
		if s, ok := stats[window]; ok && !s.Uniformity.IsUniform {
			return window
		}
	}
	for _, window := range sorted {
		if _, ok := stats[window]; ok {
			return window
		}
	}
	return sorted[len(sorted)-1]
}

func formatDates(dates []time.Time) string {
	formatted := make([]string, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		formatted = append(formatted, dates[i].Format("02 Jan 2006"))
	}
	return strings.Join(formatted, ", ")
}

func formatDigits(digits []int) string {
	parts := make([]string, 0, len(digits))
	for _, d := range digits {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ", ")
}

func formatWindows(windows []int) string {
	parts := make([]string, 0, len(windows))
	for _, w := range windows {
		parts = append(parts, strconv.Itoa(w))
	}
	return strings.Join(parts, ", ")
}

func formatRange(from, to time.Time) string {
	return fmt.Sprintf("%s to %s", from.Format("02 Jan 2006"), to.Format("02 Jan 2006"))
}
