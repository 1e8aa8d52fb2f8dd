// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

/*
Package config provides centralized configuration management for WellnessRec.

# Configuration Sources

Configuration is layered with Koanf v2, later layers winning:
  - Built-in defaults (defaultConfig)
  - An optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/wellnessrec/config.yaml and /etc/wellnessrec/config.yml
  - Environment variables with an explicit name mapping

Unmapped environment variables are ignored.

# Configuration Structure

  - ServerConfig: HTTP listener, timeouts, CORS and rate limiting
  - LoggingConfig: Log level, format and caller info
  - RecommendConfig: Ensemble weights, objectives, cache, counts and
    per-scorer settings
  - StorageConfig: BadgerDB snapshot persistence
  - CatalogConfig: YAML catalog file and synthetic seed data

# Example config.yaml

	server:
	  port: 8080
	  cors_origins: ["https://wellness.example.com"]
	logging:
	  level: debug
	  format: console
	recommend:
	  weights:
	    collaborative: 0.4
	    content: 0.3
	    learned: 0.3
	  learned:
	    breaker_enabled: true
	storage:
	  path: /var/lib/wellnessrec
	catalog:
	  path: /etc/wellnessrec/items.yaml

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
