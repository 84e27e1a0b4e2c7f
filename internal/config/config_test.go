// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:5000" {
		t.Errorf("unexpected default base URL: %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("unexpected default timeout: %v", cfg.API.Timeout)
	}
	if cfg.Catalog.PageSize != 15 {
		t.Errorf("unexpected default page size: %d", cfg.Catalog.PageSize)
	}
	if !cfg.Personalization.Enabled {
		t.Error("personalization should default to enabled")
	}
	if cfg.Personalization.Limit != 10 {
		t.Errorf("unexpected default personalization limit: %d", cfg.Personalization.Limit)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("unexpected default log config: %+v", cfg.Log)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics should default to disabled")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CINESCOUT_API__BASE_URL", "http://api.example.com:8080")
	t.Setenv("CINESCOUT_API__TIMEOUT", "45s")
	t.Setenv("CINESCOUT_CATALOG__PAGE_SIZE", "20")
	t.Setenv("CINESCOUT_PERSONALIZATION__ENABLED", "false")
	t.Setenv("CINESCOUT_LOG__LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load with env overrides: %v", err)
	}

	if cfg.API.BaseURL != "http://api.example.com:8080" {
		t.Errorf("base URL override not applied: %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 45*time.Second {
		t.Errorf("timeout override not applied: %v", cfg.API.Timeout)
	}
	if cfg.Catalog.PageSize != 20 {
		t.Errorf("page size override not applied: %d", cfg.Catalog.PageSize)
	}
	if cfg.Personalization.Enabled {
		t.Error("personalization override not applied")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level override not applied: %q", cfg.Log.Level)
	}

	// Untouched settings keep their defaults.
	if cfg.Data.Dir != "data/cinescout" {
		t.Errorf("unexpected data dir: %q", cfg.Data.Dir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("CINESCOUT_LOG__LEVEL", "verbose")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unknown log level")
	}
}

func TestValidateRateLimitRequiresBurst(t *testing.T) {
	cfg := defaultConfig()
	cfg.API.RateLimit = 10
	cfg.API.RateBurst = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error when burst is unset")
	}
	if !strings.Contains(err.Error(), "rate_burst") {
		t.Errorf("error should name the offending field, got %v", err)
	}
}

func TestValidateRejectsOversizedPageSize(t *testing.T) {
	cfg := defaultConfig()
	cfg.Catalog.PageSize = 500

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for page size above 100")
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CINESCOUT_API__BASE_URL", "api.base_url"},
		{"CINESCOUT_API__CIRCUIT_BREAKER", "api.circuit_breaker"},
		{"CINESCOUT_CATALOG__PAGE_SIZE", "catalog.page_size"},
		{"CINESCOUT_METRICS__LISTEN_ADDR", "metrics.listen_addr"},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
