// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

/*
Package supervisor provides process supervision for WellnessRec using suture v4.

# Overview

The supervisor tree organizes services into two layers:

	RootSupervisor ("wellnessrec")
	├── DataSupervisor ("data-layer")
	│   ├── RefreshService (matrix, factorization and learned model rebuilds)
	│   └── SnapshotService (if STORAGE_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's failure decay and backoff.
Supervisor events are logged through sutureslog, bridged to zerolog by
logging.NewSlogLogger.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddDataService(services.NewRefreshService(engine, cfg.Recommend.RefreshInterval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    log.Error().Err(err).Msg("Supervisor tree stopped with error")
	}
*/
package supervisor
