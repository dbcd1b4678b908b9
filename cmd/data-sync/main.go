// Package main provides the entry point for the draw synchronization daemon.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/fourd-analyzer/internal/config"
	"github.com/yourusername/fourd-analyzer/internal/health"
	"github.com/yourusername/fourd-analyzer/internal/metrics"
	"github.com/yourusername/fourd-analyzer/internal/models"
	"github.com/yourusername/fourd-analyzer/internal/scheduler"
	"github.com/yourusername/fourd-analyzer/internal/service"
)

// Build information, set via ldflags.
var Version = "dev"

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to config file")
		syncOnStart = flag.Bool("sync-on-start", true, "Run every horizon sync once before scheduling")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, logger := loadConfig(ctx, *configPath)
	manager, pinger, cleanup := buildCacheManager(ctx, cfg, logger)
	defer cleanup()

	sched, err := scheduler.NewScheduler(manager, logger)
	if err != nil {
		logger.Fatalf("Failed to create scheduler: %v", err)
	}
	for _, horizon := range cfg.Sync.Horizons {
		job := scheduler.HorizonJob{Horizon: horizon.Name, Days: horizon.Days}
		if err := sched.ScheduleSync(cfg.Sync.Schedule, job); err != nil {
			logger.Fatalf("Failed to schedule sync: %v", err)
		}
	}

	server := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Sync.HealthPort,
		Logger:      logger,
		Store:       pinger,
		Scheduler:   sched,
	})
	if err := server.Start(ctx); err != nil {
		logger.Fatalf("Failed to start health server: %v", err)
	}

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(metrics.ServerConfig{
			Port:   cfg.Metrics.Port,
			Path:   cfg.Metrics.Path,
			Logger: logger,
		})
		if err := metricsServer.Start(ctx); err != nil {
			logger.Fatalf("Failed to start metrics server: %v", err)
		}
	}

	if *syncOnStart {
		runInitialSync(ctx, manager, cfg, logger)
	}

	if err := sched.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	server.SetReady(true)
	logger.WithField("next_run", sched.NextRun()).Info("Sync daemon running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.WithField("signal", sig.String()).Info("Shutting down")

	server.SetReady(false)
	sched.Stop()
	cancel()
	logger.Info("Sync daemon stopped")
}

// runInitialSync brings every horizon current before the cron takes over, so
// a fresh deploy serves data immediately.
func runInitialSync(ctx context.Context, manager service.Synchronizer, cfg *config.Config, logger *logrus.Logger) {
	today := models.DateOnly(time.Now())
	for _, horizon := range cfg.Sync.Horizons {
		from := today.AddDate(0, 0, -horizon.Days)
		records, err := manager.Synchronize(ctx, horizon.Name, from, today)
		if err != nil {
			logger.WithError(err).WithField("horizon", horizon.Name).Error("Initial sync failed")
			continue
		}
		logger.WithFields(logrus.Fields{
			"horizon": horizon.Name,
			"records": len(records),
		}).Info("Initial sync completed")
	}
}
