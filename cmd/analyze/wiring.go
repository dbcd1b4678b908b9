package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fourd-analyzer/internal/cache"
	"github.com/yourusername/fourd-analyzer/internal/config"
	"github.com/yourusername/fourd-analyzer/internal/database"
	"github.com/yourusername/fourd-analyzer/internal/datasource"
	applogger "github.com/yourusername/fourd-analyzer/internal/logger"
)

func loadConfig(ctx context.Context, path string) (*config.Config, *logrus.Logger) {
	bootLogger := logrus.New()

	cfg, err := config.Load(path)
	if err != nil {
		bootLogger.Fatalf("Failed to load config: %v", err)
	}
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		bootLogger.Fatalf("Failed to load secrets: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		bootLogger.Fatalf("Invalid configuration: %v", err)
	}

	return cfg, applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
}

// buildCacheManager wires the upstream client and the configured snapshot
// store into a cache manager. The returned cleanup closes what was opened.
func buildCacheManager(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*cache.Manager, func()) {
	httpClient := datasource.NewRateLimitedHTTPClient(buildHTTPConfig(cfg), logger)

	source, err := datasource.NewSingaporePoolsClient(httpClient, cfg.Source.DrawListURL, cfg.Source.ResultURL, logger)
	if err != nil {
		logger.Fatalf("Failed to create draw source: %v", err)
	}

	var store cache.Store
	cleanup := func() { httpClient.Close() }

	switch cfg.Cache.Backend {
	case "postgres":
		db, err := database.Initialize(ctx, &cfg.Database)
		if err != nil {
			logger.Fatalf("Failed to initialize database: %v", err)
		}
		store, err = cache.NewPostgresStore(db)
		if err != nil {
			logger.Fatalf("Failed to create postgres store: %v", err)
		}
		cleanup = func() {
			db.Close()
			httpClient.Close()
		}
	default:
		store, err = cache.NewFileStore(cfg.Cache.Dir, logger)
		if err != nil {
			logger.Fatalf("Failed to create file store: %v", err)
		}
	}

	manager, err := cache.NewManager(cache.Config{
		FetchTimeout: cfg.Cache.FetchTimeout(),
		MemoTTL:      cfg.Cache.MemoTTL(),
	}, source, store, logger)
	if err != nil {
		logger.Fatalf("Failed to create cache manager: %v", err)
	}

	return manager, cleanup
}

func buildHTTPConfig(cfg *config.Config) datasource.HTTPClientConfig {
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.Source.Timeout()
	if cfg.Source.MaxRetries > 0 {
		httpCfg.MaxRetries = cfg.Source.MaxRetries
	}
	if cfg.Source.RateLimit > 0 {
		httpCfg.RateLimit = cfg.Source.RateLimit
	}
	if cfg.Source.CircuitBreakerMax > 0 {
		httpCfg.CircuitBreakerMax = cfg.Source.CircuitBreakerMax
	}
	return httpCfg
}
