// Package config provides configuration management for the keiba predictor.
package config

import (
	"fmt"

	"github.com/yourusername/keiba-predictor/internal/evaluator"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	DataSource DataSourceConfig `mapstructure:"data_source" validate:"required"`
	Evaluation EvaluationConfig `mapstructure:"evaluation" validate:"required"`
	Weights    WeightsConfig    `mapstructure:"weights"`
	Betting    BettingConfig    `mapstructure:"betting" validate:"required"`
	DarkHorse  DarkHorseConfig  `mapstructure:"dark_horse"`
	History    HistoryConfig    `mapstructure:"history"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Watch      WatchConfig      `mapstructure:"watch"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DataSourceConfig controls where race cards are read from and how remote
// fetches behave.
type DataSourceConfig struct {
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts      int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"gt=0"`
	CacheTTLSeconds    int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// EvaluationConfig tunes the pace analysis and the scoring fan-out.
type EvaluationConfig struct {
	PaceTopN        int     `mapstructure:"pace_top_n" validate:"required,gt=0"`
	AdjustmentScale float64 `mapstructure:"adjustment_scale" validate:"required,gt=0,lte=0.5"`
	BiasThreshold   float64 `mapstructure:"bias_threshold" validate:"required,gt=0,lt=1"`
	Workers         int     `mapstructure:"workers" validate:"gte=0"`
}

// WeightsConfig carries the two factor weight profiles. Zero-value profiles
// fall back to the built-in defaults at load time.
type WeightsConfig struct {
	Ability evaluator.WeightProfile `mapstructure:"ability"`
	Value   evaluator.WeightProfile `mapstructure:"value"`
}

// BettingConfig controls plan generation.
type BettingConfig struct {
	TotalBudget int64 `mapstructure:"total_budget" validate:"required,gte=100"`
}

// DarkHorseConfig points at the curated longshot database.
type DarkHorseConfig struct {
	Path string `mapstructure:"path"`
}

// HistoryConfig controls the prediction history store.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// WatchConfig controls the re-evaluation scheduler.
type WatchConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// MetricsAddress returns the listen address for the metrics endpoint.
func (c *Config) MetricsAddress() string {
	return fmt.Sprintf(":%d", c.Metrics.Port)
}
