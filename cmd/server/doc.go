// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

/*
Package main is the entry point for the WellnessRec server.

WellnessRec blends collaborative filtering, content similarity, a learned
rating model and wellness domain rules into one ranked list of
recommendations per user, and serves it over a REST API.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("wellnessrec")
	├── DataSupervisor ("data-layer")
	│   ├── RefreshService (matrix and model rebuilds)
	│   └── SnapshotService (BadgerDB persistence, optional)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Startup order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog, JSON or console
 3. Engine: scorers registered, snapshot restored, catalog loaded
 4. Supervisor tree: data and API services started
 5. Config watcher: weights, objectives and limits hot-reloaded

# Configuration

Common environment variables:

	HTTP_PORT=8080
	LOG_LEVEL=info
	CATALOG_PATH=/etc/wellnessrec/items.yaml
	SEED_SAMPLE_DATA=true
	STORAGE_ENABLED=true
	STORAGE_PATH=/data/wellnessrec
	ENSEMBLE_WEIGHT_LEARNED=0.45

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, the snapshot service writes a final snapshot and the
BadgerDB store is closed.

# Example Usage

	SEED_SAMPLE_DATA=true STORAGE_IN_MEMORY=true ./wellnessrec
	curl 'localhost:8080/api/v1/recommendations/user_1?count=5'
*/
package main
