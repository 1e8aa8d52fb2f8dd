// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Storage   StorageConfig   `koanf:"storage"`
	Catalog   CatalogConfig   `koanf:"catalog"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST, HTTP_PORT
//   - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
//   - CORS_ORIGINS: Comma-separated list of allowed origins (default: *)
//   - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
//   - ENVIRONMENT: development, staging, production
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// JSON is recommended for production (structured, machine-parseable).
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// RecommendConfig holds recommendation engine settings. It is mapped onto
// the engine's own configuration at startup.
type RecommendConfig struct {
	// Weights are the ensemble weights. They are normalized to sum to 1.
	Weights WeightsConfig `koanf:"weights"`

	// Objectives are the business objectives applied after the ensemble.
	Objectives ObjectivesConfig `koanf:"objectives"`

	// CacheEnabled toggles the recommendation cache.
	// Default: true
	CacheEnabled bool `koanf:"cache_enabled"`

	// CacheSize is the maximum number of cached answers.
	// Changing it requires a restart.
	// Default: 1000
	CacheSize int `koanf:"cache_size"`

	// CacheTTL is how long a cached answer stays valid.
	// Default: 1h
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// DefaultCount is the number of records returned when a request names none.
	// Default: 10
	DefaultCount int `koanf:"default_count"`

	// MaxCount caps the number of records per request.
	// Default: 50
	MaxCount int `koanf:"max_count"`

	// ScorerTimeout is the soft deadline for the scorer fan-out.
	// Default: 2s
	ScorerTimeout time.Duration `koanf:"scorer_timeout"`

	// SlowRequestThreshold is the latency above which a request is logged.
	// Default: 2s
	SlowRequestThreshold time.Duration `koanf:"slow_request_threshold"`

	// RefreshInterval is how often the matrix and the models are rebuilt in
	// the background. Zero disables the refresh service.
	// Default: 5m
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// Seed drives every random choice in the engine.
	// Default: 42
	Seed int64 `koanf:"seed"`

	// TFIDFMaxFeatures caps the catalog text vocabulary.
	// Default: 1000
	TFIDFMaxFeatures int `koanf:"tfidf_max_features"`

	// FeedbackSequenceLimit is the number of feedback events kept per user.
	// Default: 100
	FeedbackSequenceLimit int `koanf:"feedback_sequence_limit"`

	// FeedbackSignalLimit is the number of implicit signals kept per user.
	// Default: 50
	FeedbackSignalLimit int `koanf:"feedback_signal_limit"`

	// Algorithm-specific configuration
	Collaborative CollaborativeAlgorithmConfig `koanf:"collaborative"`
	Content       ContentAlgorithmConfig       `koanf:"content"`
	Learned       LearnedAlgorithmConfig       `koanf:"learned"`
	Heuristic     HeuristicAlgorithmConfig     `koanf:"heuristic"`
}

// WeightsConfig holds the ensemble weight per scorer.
type WeightsConfig struct {
	Collaborative float64 `koanf:"collaborative"`
	Content       float64 `koanf:"content"`
	Learned       float64 `koanf:"learned"`
}

// ObjectivesConfig holds the business objective weights.
type ObjectivesConfig struct {
	UserSatisfaction float64 `koanf:"user_satisfaction"`
	Diversity        float64 `koanf:"diversity"`
	Novelty          float64 `koanf:"novelty"`
	BusinessValue    float64 `koanf:"business_value"`
}

// CollaborativeAlgorithmConfig holds neighbourhood and factorization settings.
type CollaborativeAlgorithmConfig struct {
	// UserNeighbors is the number of similar users consulted.
	// Default: 20
	UserNeighbors int `koanf:"user_neighbors"`

	// ItemNeighbors is the number of similar items consulted per rated item.
	// Default: 10
	ItemNeighbors int `koanf:"item_neighbors"`

	// MinSimilarity is the lowest cosine similarity a neighbour may have.
	// Default: 0.1
	MinSimilarity float64 `koanf:"min_similarity"`

	// Factors is the number of latent factors.
	// Default: 16
	Factors int `koanf:"factors"`

	// Iterations is the number of alternating least squares sweeps.
	// Default: 10
	Iterations int `koanf:"iterations"`

	// Regularization is the L2 penalty of the factorization.
	// Default: 0.1
	Regularization float64 `koanf:"regularization"`

	// Workers is the number of goroutines used while fitting.
	// Default: 4
	Workers int `koanf:"workers"`
}

// ContentAlgorithmConfig holds content similarity settings.
type ContentAlgorithmConfig struct {
	// MinSimilarity is the lowest profile similarity a candidate may have.
	// Default: 0.1
	MinSimilarity float64 `koanf:"min_similarity"`
}

// LearnedAlgorithmConfig holds learned scorer settings.
type LearnedAlgorithmConfig struct {
	// Enabled toggles the learned scorer.
	// Default: true
	Enabled bool `koanf:"enabled"`

	// MinPrediction drops predictions at or below this rating.
	// Default: 2.0
	MinPrediction float64 `koanf:"min_prediction"`

	// Ridge is the L2 penalty of the built-in regressor.
	// Default: 1.0
	Ridge float64 `koanf:"ridge"`

	// BreakerEnabled wraps the regressor in a circuit breaker.
	// Default: false
	BreakerEnabled bool `koanf:"breaker_enabled"`

	// BreakerFailures is the number of consecutive failures that opens the breaker.
	// Default: 5
	BreakerFailures uint32 `koanf:"breaker_failures"`

	// BreakerTimeout is how long the breaker stays open.
	// Default: 1m
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// HeuristicAlgorithmConfig holds wellness domain scorer settings.
type HeuristicAlgorithmConfig struct {
	// Enabled toggles domain routing.
	// Default: true
	Enabled bool `koanf:"enabled"`

	// Threshold drops domain items whose rule score is at or below it.
	// Default: 0.3
	Threshold float64 `koanf:"threshold"`
}

// StorageConfig holds snapshot persistence settings.
//
// Environment Variables:
//   - STORAGE_ENABLED: Persist engine state to BadgerDB (default: true)
//   - STORAGE_PATH: BadgerDB directory (default: /data/wellnessrec)
//   - STORAGE_IN_MEMORY: Keep the snapshot store in memory (default: false)
//   - SNAPSHOT_INTERVAL: Time between snapshots (default: 10m)
type StorageConfig struct {
	Enabled          bool          `koanf:"enabled"`
	Path             string        `koanf:"path"`
	InMemory         bool          `koanf:"in_memory"`
	SyncWrites       bool          `koanf:"sync_writes"`
	Compression      bool          `koanf:"compression"`
	SnapshotInterval time.Duration `koanf:"snapshot_interval"`
	GCDiscardRatio   float64       `koanf:"gc_discard_ratio"`
}

// CatalogConfig holds catalog bootstrap settings.
//
// Environment Variables:
//   - CATALOG_PATH: YAML item file loaded at startup (optional)
//   - SEED_SAMPLE_DATA: Load the synthetic dataset (default: false)
//   - SAMPLE_USERS, SAMPLE_ITEMS: Synthetic dataset size
type CatalogConfig struct {
	Path        string `koanf:"path"`
	SeedSample  bool   `koanf:"seed_sample"`
	SampleUsers int    `koanf:"sample_users"`
	SampleItems int    `koanf:"sample_items"`
}

// Load loads configuration using Koanf v2 with layered sources.
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
