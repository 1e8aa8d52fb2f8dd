// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Prediction Metrics
	PredictRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellnessrec_predict_requests_total",
			Help: "Total number of prediction requests by serving route",
		},
		[]string{"route"}, // cache, heuristic, ensemble, fallback, emergency
	)

	PredictDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wellnessrec_predict_duration_seconds",
			Help:    "Duration of prediction requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	PredictResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wellnessrec_predict_results",
			Help:    "Number of records returned per prediction request",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
	)

	// Scorer Metrics
	ScorerCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wellnessrec_scorer_candidates",
			Help:    "Number of candidates produced per scorer run",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"source"},
	)

	ScorerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellnessrec_scorer_errors_total",
			Help: "Total number of scorer failures and timeouts",
		},
		[]string{"source"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wellnessrec_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wellnessrec_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// Data Metrics
	FeedbackEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellnessrec_feedback_events_total",
			Help: "Total number of feedback events by kind",
		},
		[]string{"kind"},
	)

	Interactions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wellnessrec_interactions_total",
			Help: "Total number of recorded ratings",
		},
	)

	MatrixRebuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wellnessrec_matrix_rebuilds_total",
			Help: "Total number of interaction matrix and model rebuilds",
		},
	)

	MatrixRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wellnessrec_matrix_rebuild_duration_seconds",
			Help:    "Duration of matrix and model rebuilds in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wellnessrec_circuit_breaker_state",
			Help: "Learned scorer circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Snapshot Metrics
	SnapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wellnessrec_snapshot_duration_seconds",
			Help:    "Duration of BadgerDB snapshot saves in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SnapshotErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wellnessrec_snapshot_errors_total",
			Help: "Total number of failed snapshot saves",
		},
	)

	SnapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wellnessrec_snapshot_size_bytes",
			Help: "Encoded size of the last saved snapshot",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellnessrec_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wellnessrec_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wellnessrec_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellnessrec_api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSnapshot records a snapshot save.
func RecordSnapshot(duration time.Duration, sizeBytes int64, err error) {
	SnapshotDuration.Observe(duration.Seconds())
	if err != nil {
		SnapshotErrors.Inc()
		return
	}
	SnapshotSize.Set(float64(sizeBytes))
}

// SetCircuitBreakerState records a learned scorer breaker transition.
func SetCircuitBreakerState(state int) {
	CircuitBreakerState.Set(float64(state))
}
