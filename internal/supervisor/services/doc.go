// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

/*
Package services provides suture.Service wrappers for WellnessRec components.

Each wrapper implements the suture v4 Service interface

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer so supervisor events name the service.

# Available Services

HTTP Server (HTTPServerService):
  - Runs ListenAndServe in a goroutine
  - Shuts down gracefully with a bounded timeout on cancellation

Model Refresh (RefreshService):
  - Calls Engine.Refresh on start and on every interval
  - Rebuilds the interaction matrix, factorization and learned model ahead
    of requests
  - Logs failures and retries on the next tick

Snapshot Persistence (SnapshotService):
  - Exports engine state and saves it to the BadgerDB snapshot store
  - Runs value log GC after periodic saves
  - Saves once more on shutdown
  - Records duration, size and failures in Prometheus
*/
package services
