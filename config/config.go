// Package config loads locator configuration from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all locator configuration.
type Config struct {
	Logging LogConfig
	Inspect InspectConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOCATOR_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOCATOR_LOG_DEV" default:"false"`
}

// InspectConfig holds the developer inspection surface configuration.
// The surface is off unless explicitly enabled.
type InspectConfig struct {
	Enabled   bool   `envconfig:"LOCATOR_INSPECT_ENABLED" default:"false"`
	Host      string `envconfig:"LOCATOR_INSPECT_HOST" default:"127.0.0.1"`
	Port      string `envconfig:"LOCATOR_INSPECT_PORT" default:"9190"`
	AllowCORS bool   `envconfig:"LOCATOR_INSPECT_CORS" default:"true"`
}

// Addr returns the inspection listen address.
func (c InspectConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Inspect: InspectConfig{
			Enabled:   false,
			Host:      "127.0.0.1",
			Port:      "9190",
			AllowCORS: true,
		},
	}
}
