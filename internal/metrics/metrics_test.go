// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// delta runs fn and returns how much c moved.
func delta(c prometheus.Collector, fn func()) float64 {
	before := testutil.ToFloat64(c)
	fn()
	return testutil.ToFloat64(c) - before
}

func TestRecordAPIRequest(t *testing.T) {
	c := APIRequestsTotal.WithLabelValues("GET", "/api/v1/status", "200")
	got := delta(c, func() {
		RecordAPIRequest("GET", "/api/v1/status", "200", 5*time.Millisecond)
		RecordAPIRequest("GET", "/api/v1/status", "200", 7*time.Millisecond)
	})
	if got != 2 {
		t.Errorf("api requests delta = %f, want 2", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active requests = %f, want %f", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %f, want %f", got, before)
	}
}

func TestRecordSnapshot(t *testing.T) {
	got := delta(SnapshotErrors, func() {
		RecordSnapshot(time.Millisecond, 0, errors.New("disk full"))
	})
	if got != 1 {
		t.Errorf("snapshot errors delta = %f, want 1", got)
	}

	RecordSnapshot(time.Millisecond, 4096, nil)
	if size := testutil.ToFloat64(SnapshotSize); size != 4096 {
		t.Errorf("snapshot size = %f, want 4096", size)
	}
}

func TestSetCircuitBreakerState(t *testing.T) {
	SetCircuitBreakerState(2)
	if got := testutil.ToFloat64(CircuitBreakerState); got != 2 {
		t.Errorf("breaker state = %f, want 2", got)
	}
	SetCircuitBreakerState(0)
	if got := testutil.ToFloat64(CircuitBreakerState); got != 0 {
		t.Errorf("breaker state = %f, want 0", got)
	}
}

func TestEngineObserver(t *testing.T) {
	obs := EngineObserver{}

	tests := []struct {
		name      string
		collector prometheus.Collector
		fn        func()
		want      float64
	}{
		{
			name:      "predict by route",
			collector: PredictRequests.WithLabelValues(recommend.RouteEnsemble),
			fn:        func() { obs.ObservePredict(recommend.RouteEnsemble, time.Millisecond, 10) },
			want:      1,
		},
		{
			name:      "scorer error",
			collector: ScorerErrors.WithLabelValues("learned"),
			fn:        func() { obs.ObserveScorer(recommend.SourceLearned, 0, errors.New("timeout")) },
			want:      1,
		},
		{
			name:      "scorer success is not an error",
			collector: ScorerErrors.WithLabelValues("content"),
			fn:        func() { obs.ObserveScorer(recommend.SourceContent, 12, nil) },
			want:      0,
		},
		{
			name:      "cache hit",
			collector: CacheHits,
			fn:        func() { obs.ObserveCache(true) },
			want:      1,
		},
		{
			name:      "cache miss",
			collector: CacheMisses,
			fn:        func() { obs.ObserveCache(false) },
			want:      1,
		},
		{
			name:      "feedback by kind",
			collector: FeedbackEvents.WithLabelValues("purchase"),
			fn:        func() { obs.ObserveFeedback(recommend.FeedbackPurchase) },
			want:      1,
		},
		{
			name:      "interaction",
			collector: Interactions,
			fn:        obs.ObserveInteraction,
			want:      1,
		},
		{
			name:      "matrix rebuild",
			collector: MatrixRebuilds,
			fn:        func() { obs.ObserveMatrixRebuild(20 * time.Millisecond) },
			want:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := delta(tt.collector, tt.fn); got != tt.want {
				t.Errorf("delta = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestConcurrentObserver(t *testing.T) {
	obs := EngineObserver{}
	got := delta(Interactions, func() {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				obs.ObserveInteraction()
			}()
		}
		wg.Wait()
	})
	if got != 50 {
		t.Errorf("interactions delta = %f, want 50", got)
	}
}

func TestMetricLint(t *testing.T) {
	RecordAPIRequest("GET", "/health", "200", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer,
		"wellnessrec_predict_requests_total",
		"wellnessrec_cache_hits_total",
		"wellnessrec_api_requests_total",
	)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric lint problem %s: %s", p.Metric, p.Text)
	}
}
