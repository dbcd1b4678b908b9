// Package main provides the entry point for the number selection CLI.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fourd-analyzer/internal/models"
	"github.com/yourusername/fourd-analyzer/internal/output"
	"github.com/yourusername/fourd-analyzer/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		mode       = flag.String("mode", "classic", "Analysis mode: classic, windowed")
		outputDir  = flag.String("output", "", "Override output directory")
	)
	flag.Parse()

	ctx := context.Background()
	cfg, logger := loadConfig(ctx, *configPath)

	manager, cleanup := buildCacheManager(ctx, cfg, logger)
	defer cleanup()

	dir := cfg.Output.Dir
	if *outputDir != "" {
		dir = *outputDir
	}
	writer, err := output.NewWriter(dir, cfg.Output.Format, logger)
	if err != nil {
		logger.Fatalf("Failed to create output writer: %v", err)
	}

	svcCfg := service.Config{
		Windows: cfg.Analysis.Windows,
		TopK:    cfg.Analysis.TopK,
		Alpha:   cfg.Analysis.Alpha,
		Weights: models.PrizeWeightsFromMap(cfg.Analysis.Weights),
	}
	for _, horizon := range cfg.Sync.Horizons {
		switch horizon.Name {
		case service.HorizonSixMonths:
			svcCfg.SixMonthsDays = horizon.Days
		case service.HorizonOneYear:
			svcCfg.OneYearDays = horizon.Days
		}
	}

	svc, err := service.NewAnalysisService(svcCfg, manager, writer, logger)
	if err != nil {
		logger.Fatalf("Failed to create analysis service: %v", err)
	}

	result, err := runMode(ctx, svc, *mode)
	if err != nil {
		logger.Fatalf("Analysis failed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"mode":   *mode,
		"digits": result.Digits,
		"kept":   len(result.Filter.Kept),
	}).Info("Analysis complete")

	for _, entry := range result.Metadata {
		if entry.Value == "" {
			fmt.Println(entry.Key)
			continue
		}
		fmt.Printf("%s: %s\n", entry.Key, entry.Value)
	}
}

func runMode(ctx context.Context, svc *service.AnalysisService, mode string) (*service.SelectionResult, error) {
	switch mode {
	case "classic":
		return svc.RunClassic(ctx)
	case "windowed":
		return svc.RunWindowed(ctx)
	default:
		return nil, fmt.Errorf("unsupported mode %q, want classic or windowed", mode)
	}
}
