// Package config provides configuration management for the keiba predictor.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/yourusername/keiba-predictor/internal/evaluator"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	applyWeightDefaults(cfg)
	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields, tolerating a missing config file.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	applyWeightDefaults(cfg)
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("KEIBA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "keiba-predictor")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("data_source.timeout_seconds", 10)
	v.SetDefault("data_source.retry_attempts", 3)
	v.SetDefault("data_source.rate_limit_per_second", 2.0)
	v.SetDefault("data_source.cache_ttl_seconds", 300)

	v.SetDefault("evaluation.pace_top_n", 3)
	v.SetDefault("evaluation.adjustment_scale", 0.08)
	v.SetDefault("evaluation.bias_threshold", 0.12)
	v.SetDefault("evaluation.workers", 0)

	v.SetDefault("betting.total_budget", 400)

	v.SetDefault("dark_horse.path", "data/dark_horse.db")
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "data/predictions.db")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("watch.enabled", false)
	v.SetDefault("watch.schedule", "@every 10m")
}

// applyWeightDefaults fills unset weight profiles with the built-in ones so a
// config file only has to spell out profiles it wants to override.
func applyWeightDefaults(cfg *Config) {
	if cfg.Weights.Ability.Sum() == 0 {
		cfg.Weights.Ability = evaluator.AbilityProfile()
	}
	if cfg.Weights.Value.Sum() == 0 {
		cfg.Weights.Value = evaluator.ValueProfile()
	}
}
