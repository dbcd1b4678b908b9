// Package backtest evaluates digit predictions with walk-forward validation
// over historical draws.
package backtest

import (
	"fmt"

	"github.com/yourusername/fourd-analyzer/internal/analysis"
	"github.com/yourusername/fourd-analyzer/internal/config"
	"github.com/yourusername/fourd-analyzer/internal/models"
)

// DefaultMinExtraDraws is how many draws beyond the largest window must
// exist before a backtest is considered meaningful.
const DefaultMinExtraDraws = 10

// Config holds backtest parameters
type Config struct {
	// Windows are training window sizes in distinct draws
	Windows []int
	// TopKs are the prediction set sizes to score
	TopKs []int
	// MinExtraDraws is the required slack past the largest window
	MinExtraDraws int
	// Alpha is the smoothing parameter used when training
	Alpha float64
	// Weights are the per-category prize weights used when training
	Weights models.PrizeWeights
	// OutputPath, when set, receives a CSV export of the results
	OutputPath string
}

// FromConfig converts app config to backtest config
func FromConfig(cfg *config.BacktestConfig, analysisCfg *config.AnalysisConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("backtest config is required")
	}

	bt := Config{
		Windows:       cfg.Windows,
		TopKs:         cfg.TopKs,
		MinExtraDraws: cfg.MinExtraDraws,
		Alpha:         analysis.DefaultAlpha,
		Weights:       models.DefaultPrizeWeights(),
		OutputPath:    cfg.OutputPath,
	}
	if analysisCfg != nil {
		bt.Alpha = analysisCfg.Alpha
		if len(analysisCfg.Weights) > 0 {
			bt.Weights = models.PrizeWeightsFromMap(analysisCfg.Weights)
		}
	}

	return bt, bt.Validate()
}

// Validate validates backtest config parameters
func (c Config) Validate() error {
	if len(c.Windows) == 0 {
		return fmt.Errorf("at least one window size is required")
	}
	for _, w := range c.Windows {
		if w <= 0 {
			return fmt.Errorf("window size must be positive, got %d", w)
		}
	}
	if len(c.TopKs) == 0 {
		return fmt.Errorf("at least one top-k value is required")
	}
	for _, k := range c.TopKs {
		if k < 1 || k > 10 {
			return fmt.Errorf("top-k must be between 1 and 10, got %d", k)
		}
	}
	if c.MinExtraDraws < 0 {
		return fmt.Errorf("min extra draws cannot be negative")
	}
	if c.Alpha < 0 {
		return fmt.Errorf("alpha cannot be negative")
	}
	return nil
}

func (c Config) minExtraDraws() int {
	if c.MinExtraDraws == 0 {
		return DefaultMinExtraDraws
	}
	return c.MinExtraDraws
}

func (c Config) maxWindow() int {
	max := 0
	for _, w := range c.Windows {
		if w > max {
			max = w
		}
	}
	return max
}
