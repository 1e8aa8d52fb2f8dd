// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package metrics

import (
	"time"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// EngineObserver forwards engine events to the Prometheus collectors.
type EngineObserver struct{}

var _ recommend.Observer = EngineObserver{}

// ObservePredict implements recommend.Observer.
func (EngineObserver) ObservePredict(route string, latency time.Duration, results int) {
	PredictRequests.WithLabelValues(route).Inc()
	PredictDuration.Observe(latency.Seconds())
	PredictResults.Observe(float64(results))
}

// ObserveScorer implements recommend.Observer.
func (EngineObserver) ObserveScorer(source recommend.SourceKind, candidates int, err error) {
	if err != nil {
		ScorerErrors.WithLabelValues(source.String()).Inc()
		return
	}
	ScorerCandidates.WithLabelValues(source.String()).Observe(float64(candidates))
}

// ObserveCache implements recommend.Observer.
func (EngineObserver) ObserveCache(hit bool) {
	if hit {
		CacheHits.Inc()
	} else {
		CacheMisses.Inc()
	}
}

// ObserveFeedback implements recommend.Observer.
func (EngineObserver) ObserveFeedback(kind recommend.FeedbackKind) {
	FeedbackEvents.WithLabelValues(string(kind)).Inc()
}

// ObserveInteraction implements recommend.Observer.
func (EngineObserver) ObserveInteraction() {
	Interactions.Inc()
}

// ObserveMatrixRebuild implements recommend.Observer.
func (EngineObserver) ObserveMatrixRebuild(latency time.Duration) {
	MatrixRebuilds.Inc()
	MatrixRebuildDuration.Observe(latency.Seconds())
}
