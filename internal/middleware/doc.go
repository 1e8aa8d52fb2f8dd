// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

/*
Package middleware provides HTTP middleware for the WellnessRec API.

Every middleware has the chi signature func(http.Handler) http.Handler:

  - RequestID: reuses or generates X-Request-ID and stores it for logging.Ctx
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - PerformanceMonitor: sliding-window latency percentiles per endpoint,
    reported by the status endpoint, plus slow request warnings

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)
*/
package middleware
