// Package main provides the entry point for the walk-forward backtesting CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fourd-analyzer/internal/backtest"
	"github.com/yourusername/fourd-analyzer/internal/models"
	"github.com/yourusername/fourd-analyzer/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		days       = flag.Int("days", 365, "Days of draw history to backtest over")
		output     = flag.String("output", "", "Override CSV output path, empty disables export")
	)
	flag.Parse()

	ctx := context.Background()
	cfg, logger := loadConfig(ctx, *configPath)

	btConfig, err := backtest.FromConfig(&cfg.Backtest, &cfg.Analysis)
	if err != nil {
		logger.Fatalf("Invalid backtest config: %v", err)
	}
	if *output != "" {
		btConfig.OutputPath = *output
	}

	manager, cleanup := buildCacheManager(ctx, cfg, logger)
	defer cleanup()

	records := loadHistory(ctx, manager, *days, logger)

	engine, err := backtest.NewEngine(btConfig, logger)
	if err != nil {
		logger.Fatalf("Failed to create engine: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"records": len(records),
		"windows": btConfig.Windows,
		"top_ks":  btConfig.TopKs,
	}).Info("Starting backtest")

	result, err := engine.Run(ctx, records)
	if err != nil {
		logger.Fatalf("Backtest failed: %v", err)
	}

	fmt.Print(backtest.GenerateConsoleReport(result))

	if btConfig.OutputPath != "" {
		if err := backtest.GenerateCSVExport(result, btConfig.OutputPath); err != nil {
			logger.Fatalf("Failed to export results: %v", err)
		}
		logger.WithField("path", btConfig.OutputPath).Info("Results exported")
	}
}

func loadHistory(ctx context.Context, manager service.Synchronizer, days int, logger *logrus.Logger) []models.Record {
	horizon := service.HorizonOneYear
	if days != 365 {
		horizon = fmt.Sprintf("%dd", days)
	}

	to := models.DateOnly(time.Now())
	from := to.AddDate(0, 0, -days)

	records, err := manager.Synchronize(ctx, horizon, from, to)
	if err != nil {
		logger.Fatalf("Failed to sync draw history: %v", err)
	}
	return records
}
