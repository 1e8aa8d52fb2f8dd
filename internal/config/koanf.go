// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/wellnessrec/config.yaml",
	"/etc/wellnessrec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			Host:              "0.0.0.0",
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			Environment:       "development",
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			Weights: WeightsConfig{
				Collaborative: 0.30,
				Content:       0.25,
				Learned:       0.45,
			},
			Objectives: ObjectivesConfig{
				UserSatisfaction: 0.6,
				Diversity:        0.2,
				Novelty:          0.1,
				BusinessValue:    0.1,
			},
			CacheEnabled:          true,
			CacheSize:             1000,
			CacheTTL:              time.Hour,
			DefaultCount:          10,
			MaxCount:              50,
			ScorerTimeout:         2 * time.Second,
			SlowRequestThreshold:  2 * time.Second,
			RefreshInterval:       5 * time.Minute,
			Seed:                  42,
			TFIDFMaxFeatures:      1000,
			FeedbackSequenceLimit: 100,
			FeedbackSignalLimit:   50,
			Collaborative: CollaborativeAlgorithmConfig{
				UserNeighbors:  20,
				ItemNeighbors:  10,
				MinSimilarity:  0.1,
				Factors:        16,
				Iterations:     10,
				Regularization: 0.1,
				Workers:        4,
			},
			Content: ContentAlgorithmConfig{
				MinSimilarity: 0.1,
			},
			Learned: LearnedAlgorithmConfig{
				Enabled:         true,
				MinPrediction:   2.0,
				Ridge:           1.0,
				BreakerEnabled:  false,
				BreakerFailures: 5,
				BreakerTimeout:  time.Minute,
			},
			Heuristic: HeuristicAlgorithmConfig{
				Enabled:   true,
				Threshold: 0.3,
			},
		},
		Storage: StorageConfig{
			Enabled:          true,
			Path:             "/data/wellnessrec",
			InMemory:         false,
			SyncWrites:       false,
			Compression:      true,
			SnapshotInterval: 10 * time.Minute,
			GCDiscardRatio:   0.5,
		},
		Catalog: CatalogConfig{
			Path:        "",
			SeedSample:  false,
			SampleUsers: 100,
			SampleItems: 50,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := FindConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// LOG_LEVEL -> logging.level
	// ENSEMBLE_WEIGHT_LEARNED -> recommend.weights.learned
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func FindConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine
	"ensemble_weight_collaborative":    "recommend.weights.collaborative",
	"ensemble_weight_content":          "recommend.weights.content",
	"ensemble_weight_learned":          "recommend.weights.learned",
	"recommend_cache_enabled":          "recommend.cache_enabled",
	"recommend_cache_size":             "recommend.cache_size",
	"recommend_cache_ttl":              "recommend.cache_ttl",
	"recommend_default_count":          "recommend.default_count",
	"recommend_max_count":              "recommend.max_count",
	"recommend_scorer_timeout":         "recommend.scorer_timeout",
	"recommend_slow_request_threshold": "recommend.slow_request_threshold",
	"recommend_refresh_interval":       "recommend.refresh_interval",
	"recommend_seed":                   "recommend.seed",
	"recommend_user_neighbors":         "recommend.collaborative.user_neighbors",
	"recommend_item_neighbors":         "recommend.collaborative.item_neighbors",
	"recommend_min_similarity":         "recommend.collaborative.min_similarity",
	"recommend_factors":                "recommend.collaborative.factors",
	"recommend_workers":                "recommend.collaborative.workers",
	"recommend_learned_enabled":        "recommend.learned.enabled",
	"recommend_breaker_enabled":        "recommend.learned.breaker_enabled",
	"recommend_breaker_failures":       "recommend.learned.breaker_failures",
	"recommend_breaker_timeout":        "recommend.learned.breaker_timeout",
	"recommend_heuristic_enabled":      "recommend.heuristic.enabled",
	"recommend_heuristic_threshold":    "recommend.heuristic.threshold",

	// Storage
	"storage_enabled":    "storage.enabled",
	"storage_path":       "storage.path",
	"storage_in_memory":  "storage.in_memory",
	"storage_sync":       "storage.sync_writes",
	"snapshot_interval":  "storage.snapshot_interval",
	"storage_gc_discard": "storage.gc_discard_ratio",

	// Catalog
	"catalog_path":     "catalog.path",
	"seed_sample_data": "catalog.seed_sample",
	"sample_users":     "catalog.sample_users",
	"sample_items":     "catalog.sample_items",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - LOG_LEVEL -> logging.level
//   - STORAGE_PATH -> storage.path
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables cannot
	// pollute the config.
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for synchronizing access to state touched by
// the callback.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
