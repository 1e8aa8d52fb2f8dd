// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	return c.validateCatalog()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT and HTTP_WRITE_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return c.validateRateLimits()
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs < minRateLimitRequests || c.Server.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Server.RateLimitWindow < minRateLimitWindow || c.Server.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateRecommend checks the settings an operator is most likely to get
// wrong. The engine validates the full mapped configuration on start.
func (c *Config) validateRecommend() error {
	w := c.Recommend.Weights
	if w.Collaborative < 0 || w.Content < 0 || w.Learned < 0 {
		return fmt.Errorf("recommend.weights must be non-negative")
	}
	if w.Collaborative+w.Content+w.Learned <= 0 {
		return fmt.Errorf("recommend.weights must sum to a positive value")
	}

	o := c.Recommend.Objectives
	if o.UserSatisfaction < 0 || o.Diversity < 0 || o.Novelty < 0 || o.BusinessValue < 0 {
		return fmt.Errorf("recommend.objectives must be non-negative")
	}

	if c.Recommend.DefaultCount < 1 || c.Recommend.MaxCount < c.Recommend.DefaultCount {
		return fmt.Errorf("recommend.default_count must be in [1, max_count], got %d (max %d)",
			c.Recommend.DefaultCount, c.Recommend.MaxCount)
	}
	if c.Recommend.CacheEnabled && c.Recommend.CacheSize < 1 {
		return fmt.Errorf("RECOMMEND_CACHE_SIZE must be positive when the cache is enabled")
	}
	if c.Recommend.ScorerTimeout < 0 || c.Recommend.RefreshInterval < 0 {
		return fmt.Errorf("recommend durations must be non-negative")
	}
	if t := c.Recommend.Heuristic.Threshold; t < 0 || t >= 1 {
		return fmt.Errorf("RECOMMEND_HEURISTIC_THRESHOLD must be in [0, 1), got %f", t)
	}
	if c.Recommend.Learned.BreakerEnabled && c.Recommend.Learned.BreakerFailures == 0 {
		return fmt.Errorf("RECOMMEND_BREAKER_FAILURES must be positive when the breaker is enabled")
	}
	return nil
}

// validateStorage validates snapshot storage configuration (only if enabled)
func (c *Config) validateStorage() error {
	if !c.Storage.Enabled {
		return nil
	}
	if !c.Storage.InMemory && c.Storage.Path == "" {
		return fmt.Errorf("STORAGE_PATH is required when storage is enabled")
	}
	if c.Storage.SnapshotInterval < 0 {
		return fmt.Errorf("SNAPSHOT_INTERVAL must be non-negative")
	}
	if c.Storage.GCDiscardRatio <= 0 || c.Storage.GCDiscardRatio >= 1 {
		return fmt.Errorf("storage.gc_discard_ratio must be in (0, 1), got %f", c.Storage.GCDiscardRatio)
	}
	return nil
}

// validateCatalog validates catalog bootstrap configuration
func (c *Config) validateCatalog() error {
	if c.Catalog.SeedSample && (c.Catalog.SampleUsers < 1 || c.Catalog.SampleItems < 1) {
		return fmt.Errorf("SAMPLE_USERS and SAMPLE_ITEMS must be positive when seeding sample data")
	}
	return nil
}
