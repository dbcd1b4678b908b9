// Package config provides configuration management for the 4D analyzer.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Source   SourceConfig   `mapstructure:"source" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Analysis AnalysisConfig `mapstructure:"analysis" validate:"required"`
	Backtest BacktestConfig `mapstructure:"backtest" validate:"required"`
	Output   OutputConfig   `mapstructure:"output" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
	Sync     SyncConfig     `mapstructure:"sync" validate:"required"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// SourceConfig represents the upstream draw source configuration
type SourceConfig struct {
	DrawListURL       string  `mapstructure:"draw_list_url" validate:"omitempty,url"`
	ResultURL         string  `mapstructure:"result_url" validate:"omitempty,url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
}

// CacheConfig represents the draw-history cache configuration
type CacheConfig struct {
	Backend             string `mapstructure:"backend" validate:"required,oneof=file postgres"`
	Dir                 string `mapstructure:"dir"`
	MemoTTLSeconds      int    `mapstructure:"memo_ttl_seconds" validate:"gte=0"`
	FetchTimeoutSeconds int    `mapstructure:"fetch_timeout_seconds" validate:"required,gt=0"`
}

// DatabaseConfig represents database connection configuration, used only
// when the cache backend is postgres
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// AnalysisConfig represents digit analysis configuration
type AnalysisConfig struct {
	Alpha   float64            `mapstructure:"alpha" validate:"gte=0"`
	Windows []int              `mapstructure:"windows" validate:"required,min=1,dive,gt=0"`
	TopK    int                `mapstructure:"top_k" validate:"required,min=1,max=10"`
	Weights map[string]float64 `mapstructure:"weights"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	Windows       []int  `mapstructure:"windows" validate:"required,min=1,dive,gt=0"`
	TopKs         []int  `mapstructure:"top_ks" validate:"required,min=1,dive,min=1,max=10"`
	MinExtraDraws int    `mapstructure:"min_extra_draws" validate:"gte=0"`
	OutputPath    string `mapstructure:"output_path"`
}

// OutputConfig represents result output configuration
type OutputConfig struct {
	Dir    string `mapstructure:"dir" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=text csv both"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SyncConfig represents the scheduled synchronization daemon configuration
type SyncConfig struct {
	Schedule   string          `mapstructure:"schedule" validate:"required"`
	HealthPort int             `mapstructure:"health_port" validate:"required,min=1,max=65535"`
	Horizons   []HorizonConfig `mapstructure:"horizons" validate:"required,min=1,dive"`
}

// HorizonConfig names one cache horizon and how far back it reaches
type HorizonConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	Days int    `mapstructure:"days" validate:"required,gt=0"`
}

// SecretsConfig represents the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// FetchTimeout returns the cache fetch timeout as a duration
func (c *CacheConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// MemoTTL returns the in-process memoization TTL as a duration
func (c *CacheConfig) MemoTTL() time.Duration {
	return time.Duration(c.MemoTTLSeconds) * time.Second
}

// Timeout returns the source HTTP timeout as a duration
func (c *SourceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
