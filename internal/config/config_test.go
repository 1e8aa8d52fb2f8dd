// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "rate limit window too long",
			mutate:  func(c *Config) { c.Server.RateLimitWindow = 2 * time.Hour },
			wantErr: "RATE_LIMIT_WINDOW",
		},
		{
			name: "rate limit disabled skips bounds",
			mutate: func(c *Config) {
				c.Server.RateLimitDisabled = true
				c.Server.RateLimitReqs = 0
			},
		},
		{
			name:    "log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
		{
			name: "all weights zero",
			mutate: func(c *Config) {
				c.Recommend.Weights = WeightsConfig{}
			},
			wantErr: "sum to a positive value",
		},
		{
			name:    "negative objective",
			mutate:  func(c *Config) { c.Recommend.Objectives.Novelty = -0.1 },
			wantErr: "objectives",
		},
		{
			name:    "default count above max",
			mutate:  func(c *Config) { c.Recommend.DefaultCount = 60 },
			wantErr: "default_count",
		},
		{
			name:    "cache enabled without size",
			mutate:  func(c *Config) { c.Recommend.CacheSize = 0 },
			wantErr: "RECOMMEND_CACHE_SIZE",
		},
		{
			name: "cache disabled without size",
			mutate: func(c *Config) {
				c.Recommend.CacheEnabled = false
				c.Recommend.CacheSize = 0
			},
		},
		{
			name: "breaker without failures",
			mutate: func(c *Config) {
				c.Recommend.Learned.BreakerEnabled = true
				c.Recommend.Learned.BreakerFailures = 0
			},
			wantErr: "RECOMMEND_BREAKER_FAILURES",
		},
		{
			name:    "storage without path",
			mutate:  func(c *Config) { c.Storage.Path = "" },
			wantErr: "STORAGE_PATH",
		},
		{
			name: "in-memory storage needs no path",
			mutate: func(c *Config) {
				c.Storage.Path = ""
				c.Storage.InMemory = true
			},
		},
		{
			name: "disabled storage is not checked",
			mutate: func(c *Config) {
				c.Storage.Enabled = false
				c.Storage.GCDiscardRatio = 5
			},
		},
		{
			name:    "gc ratio",
			mutate:  func(c *Config) { c.Storage.GCDiscardRatio = 1 },
			wantErr: "gc_discard_ratio",
		},
		{
			name: "sample seed without size",
			mutate: func(c *Config) {
				c.Catalog.SeedSample = true
				c.Catalog.SampleItems = 0
			},
			wantErr: "SAMPLE_USERS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	require.False(t, cfg.IsProduction())
	require.True(t, cfg.HasWildcardCORS())

	cfg.Server.Environment = "production"
	cfg.Server.CORSOrigins = []string{"https://wellness.example.com"}
	require.True(t, cfg.IsProduction())
	require.False(t, cfg.HasWildcardCORS())
}
