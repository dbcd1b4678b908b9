// Package metrics provides the centralized Prometheus metrics registry for the analyzer.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	FetchRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fourd_analyzer",
		Name:      "fetch_requests_total",
		Help:      "Total number of upstream fetch attempts by outcome",
	}, []string{"outcome"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fourd_analyzer",
		Name:      "cache_hits_total",
		Help:      "Total number of synchronizations served without an upstream fetch",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fourd_analyzer",
		Name:      "cache_misses_total",
		Help:      "Total number of synchronizations that required an upstream fetch",
	})
	CacheFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fourd_analyzer",
		Name:      "cache_fallbacks_total",
		Help:      "Total number of synchronizations that fell back to stale cached data",
	})
	BacktestRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fourd_analyzer",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs",
	})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fourd_analyzer",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of circuit breaker trips",
	})
)

// Gauge metrics
var (
	CachedRecords = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fourd_analyzer",
		Name:      "cached_records",
		Help:      "Number of records held per cache horizon",
	}, []string{"horizon"})
	CacheWatermarkAge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fourd_analyzer",
		Name:      "cache_watermark_age_days",
		Help:      "Age of the cache watermark in days per horizon",
	}, []string{"horizon"})
	BacktestAccuracy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fourd_analyzer",
		Name:      "backtest_accuracy",
		Help:      "Hit rate of the most recent backtest per window and top-k",
	}, []string{"window", "top_k"})
)

// Histogram metrics
var (
	FetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fourd_analyzer",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of upstream fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	SyncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fourd_analyzer",
		Name:      "sync_duration_seconds",
		Help:      "Duration of full cache synchronizations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fourd_analyzer",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(FetchRequestsTotal)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)
		registry.MustRegister(CacheFallbacksTotal)
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		// Register gauge metrics
		registry.MustRegister(CachedRecords)
		registry.MustRegister(CacheWatermarkAge)
		registry.MustRegister(BacktestAccuracy)

		// Register histogram metrics
		registry.MustRegister(FetchDuration)
		registry.MustRegister(SyncDuration)
		registry.MustRegister(BacktestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordFetch records an upstream fetch attempt and its duration.
func RecordFetch(outcome string, durationSeconds float64) {
	FetchRequestsTotal.WithLabelValues(outcome).Inc()
	FetchDuration.Observe(durationSeconds)
}

// RecordCacheHit records a synchronization served entirely from cache.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a synchronization that needed an upstream fetch.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordCacheFallback records a synchronization that served stale data.
func RecordCacheFallback() {
	CacheFallbacksTotal.Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// RecordBacktestRun records a backtest run and its duration.
func RecordBacktestRun(durationSeconds float64) {
	BacktestRunsTotal.Inc()
	BacktestDuration.Observe(durationSeconds)
}

// UpdateCacheSize updates the cached record count for a horizon.
func UpdateCacheSize(horizon string, count float64) {
	CachedRecords.WithLabelValues(horizon).Set(count)
}

// UpdateWatermarkAge updates the watermark age gauge for a horizon.
func UpdateWatermarkAge(horizon string, days float64) {
	CacheWatermarkAge.WithLabelValues(horizon).Set(days)
}
