// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

/*
Package metrics provides Prometheus metrics for WellnessRec.

Collectors are registered with the default registry through promauto and
exposed at /metrics by the API router.

# Available Metrics

Prediction:
  - wellnessrec_predict_requests_total{route}: requests by serving route
  - wellnessrec_predict_duration_seconds: request latency (histogram)
  - wellnessrec_predict_results: records per answer (histogram)
  - wellnessrec_scorer_candidates{source}: candidates per scorer run
  - wellnessrec_scorer_errors_total{source}: scorer failures and timeouts
  - wellnessrec_cache_hits_total, wellnessrec_cache_misses_total

Data:
  - wellnessrec_feedback_events_total{kind}
  - wellnessrec_interactions_total
  - wellnessrec_matrix_rebuilds_total
  - wellnessrec_circuit_breaker_state: 0 closed, 1 half-open, 2 open
  - wellnessrec_snapshot_duration_seconds, wellnessrec_snapshot_errors_total

HTTP:
  - wellnessrec_api_requests_total{method,endpoint,status}
  - wellnessrec_api_request_duration_seconds{method,endpoint}
  - wellnessrec_api_active_requests
  - wellnessrec_api_rate_limit_hits_total{endpoint}

# Engine Integration

EngineObserver implements recommend.Observer:

	engine.SetObserver(metrics.EngineObserver{})
*/
package metrics
