// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

// Package config loads and validates Cinescout configuration using layered
// sources: struct defaults, then an optional YAML file, then environment
// variables (highest priority).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the client.
type Config struct {
	API             APIConfig             `koanf:"api" validate:"required"`
	Catalog         CatalogConfig         `koanf:"catalog"`
	Personalization PersonalizationConfig `koanf:"personalization"`
	Data            DataConfig            `koanf:"data"`
	Log             LogConfig             `koanf:"log"`
	Metrics         MetricsConfig         `koanf:"metrics"`
}

// APIConfig configures access to the remote recommendation API.
type APIConfig struct {
	// BaseURL is the recommendation API root, e.g. http://localhost:5000
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// RateLimit caps outbound requests per second. 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`

	// RateBurst is the burst size for the rate limiter.
	RateBurst int `koanf:"rate_burst" validate:"gte=0"`

	// CircuitBreaker enables the circuit breaker wrapper.
	CircuitBreaker bool `koanf:"circuit_breaker"`
}

// CatalogConfig configures catalog browsing.
type CatalogConfig struct {
	// PageSize is the number of movies requested per catalog page.
	PageSize int `koanf:"page_size" validate:"gt=0,lte=100"`
}

// PersonalizationConfig configures the personalized recommendation stream.
type PersonalizationConfig struct {
	// Enabled controls whether the session identifier accompanies
	// similarity requests and whether the personalized stream runs.
	Enabled bool `koanf:"enabled"`

	// Limit is the top-N size of personalized recommendations.
	Limit int `koanf:"limit" validate:"gt=0,lte=50"`
}

// DataConfig configures durable local state.
type DataConfig struct {
	// Dir is the BadgerDB directory holding the session identifier.
	Dir string `koanf:"dir" validate:"required"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// MetricsConfig configures the Prometheus exposition endpoint.
type MetricsConfig struct {
	// Enabled controls whether /metrics is served.
	Enabled bool `koanf:"enabled"`

	// ListenAddr is the address for the metrics listener.
	ListenAddr string `koanf:"listen_addr"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:5000",
			Timeout:        30 * time.Second,
			RateLimit:      10,
			RateBurst:      5,
			CircuitBreaker: true,
		},
		Catalog: CatalogConfig{
			PageSize: 15,
		},
		Personalization: PersonalizationConfig{
			Enabled: true,
			Limit:   10,
		},
		Data: DataConfig{
			Dir: "data/cinescout",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: "127.0.0.1:9188",
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.API.RateLimit > 0 && c.API.RateBurst == 0 {
		return fmt.Errorf("config validation failed: api.rate_burst must be set when api.rate_limit is enabled")
	}
	return nil
}
