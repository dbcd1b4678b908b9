package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fourd-analyzer/internal/config"
	"github.com/yourusername/fourd-analyzer/internal/models"
)

func TestFromConfigCarriesAllFields(t *testing.T) {
	appCfg := &config.BacktestConfig{
		Windows:       []int{30, 60},
		TopKs:         []int{3, 5},
		MinExtraDraws: 12,
		OutputPath:    "output/backtest",
	}
	analysisCfg := &config.AnalysisConfig{
		Alpha:   0.5,
		Weights: map[string]float64{"starter": 0.3},
	}

	bt, err := FromConfig(appCfg, analysisCfg)
	require.NoError(t, err)

	assert.Equal(t, []int{30, 60}, bt.Windows)
	assert.Equal(t, []int{3, 5}, bt.TopKs)
	assert.Equal(t, 12, bt.MinExtraDraws)
	assert.Equal(t, "output/backtest", bt.OutputPath)
	assert.Equal(t, 0.5, bt.Alpha)
	assert.Equal(t, 0.3, bt.Weights.Weight(models.PrizeStarter))
}

func TestFromConfigRequiresBacktestSection(t *testing.T) {
	_, err := FromConfig(nil, nil)
	require.Error(t, err)
}
