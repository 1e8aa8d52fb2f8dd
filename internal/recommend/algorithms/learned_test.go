// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package algorithms

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// stubRegressor returns a fixed prediction or error.
type stubRegressor struct {
	value float64
	err   error
	calls int
}

func (s *stubRegressor) Predict(_ []float64) (float64, error) {
	s.calls++
	return s.value, s.err
}

func sampleFixture(users, items int) (*recommend.MatrixSnapshot, *recommend.CatalogSnapshot) {
	catalogItems, interactions := recommend.GenerateSampleData(42, users, items)
	c := recommend.NewItemCatalog(1000)
	c.Load(catalogItems)
	return recommend.NewMatrixSnapshot(interactions), c.Snapshot()
}

func TestFitScaler(t *testing.T) {
	t.Parallel()

	s := FitScaler([][]float64{{1, 7}, {3, 7}})
	if s.Mean[0] != 2 || s.Std[0] != 1 {
		t.Errorf("column 0 mean/std = %f/%f, want 2/1", s.Mean[0], s.Std[0])
	}
	if s.Std[1] != 1 {
		t.Errorf("constant column std = %f, want 1", s.Std[1])
	}

	got, err := s.Transform([]float64{3, 7})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if got[0] != 1 || got[1] != 0 {
		t.Errorf("Transform() = %v, want [1 0]", got)
	}

	if _, err := s.Transform([]float64{1}); !errors.Is(err, ErrFeatureDimension) {
		t.Errorf("Transform(short) error = %v, want ErrFeatureDimension", err)
	}
}

func TestFitRidgeRecoversLinearRelation(t *testing.T) {
	t.Parallel()

	// y = 3 + 2x over a centred feature.
	var X [][]float64
	var y []float64
	for i := -5; i <= 5; i++ {
		X = append(X, []float64{float64(i)})
		y = append(y, 3+2*float64(i))
	}

	model, err := FitRidge(X, y, 1e-6)
	if err != nil {
		t.Fatalf("FitRidge() error = %v", err)
	}
	if math.Abs(model.Intercept-3) > 1e-6 || math.Abs(model.Weights[0]-2) > 1e-4 {
		t.Errorf("model = %+v, want intercept 3 weight 2", model)
	}

	pred, err := model.Predict([]float64{10})
	if err != nil || math.Abs(pred-23) > 1e-3 {
		t.Errorf("Predict(10) = %f, %v; want 23", pred, err)
	}
	if _, err := model.Predict([]float64{1, 2}); !errors.Is(err, ErrFeatureDimension) {
		t.Errorf("Predict(wrong dim) error = %v, want ErrFeatureDimension", err)
	}
	if _, err := FitRidge(nil, nil, 1); err == nil {
		t.Error("FitRidge(empty) succeeded")
	}
}

func TestUserAndItemFeatures(t *testing.T) {
	t.Parallel()

	catalog := wellnessCatalog()
	uf := userFeatures(map[string]float64{"yoga_mat": 5, "yoga_blocks": 3, "sleep_mask": 4}, catalog)

	want := []float64{3, 4, math.Sqrt(2.0 / 3.0), 5, 3, float64(catalog.CategoryCode("fitness"))}
	for i := range want {
		if math.Abs(uf[i]-want[i]) > 1e-9 {
			t.Errorf("userFeatures[%d] = %f, want %f", i, uf[i], want[i])
		}
	}

	single := userFeatures(map[string]float64{"orphan": 2}, catalog)
	if single[2] != 0 || single[5] != 0 {
		t.Errorf("single uncatalogued rating features = %v, want std 0 and category 0", single)
	}

	item, _ := catalog.Item("yoga_strap")
	itf := itemFeatures(item, catalog)
	if itf[0] != 12 || itf[1] != 4.2 || itf[3] != 5 || itf[4] != 2 {
		t.Errorf("itemFeatures = %v", itf)
	}
}

func TestLearnedInsufficientData(t *testing.T) {
	t.Parallel()

	l := NewLearned(recommend.DefaultConfig().Learned, zerolog.Nop())
	m, catalog := sampleFixture(5, 20)
	if err := l.Fit(context.Background(), m, catalog); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if l.Available() {
		t.Error("Available() = true with 5 users")
	}

	res, err := l.Score(context.Background(), scoreInput(m, catalog, "user_1", 5))
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if !res.Disabled || len(res.Candidates) != 0 {
		t.Errorf("Score() = %+v, want disabled and empty", res)
	}
}

func TestLearnedFitAndScore(t *testing.T) {
	t.Parallel()

	cfg := recommend.DefaultConfig().Learned
	l := NewLearned(cfg, zerolog.Nop())
	m, catalog := sampleFixture(100, 50)
	if err := l.Fit(context.Background(), m, catalog); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !l.Available() {
		t.Fatal("Available() = false after fitting 100 users")
	}
	if _, _, ok := l.LinearModel(); !ok {
		t.Error("LinearModel() not available after Fit()")
	}

	in := scoreInput(m, catalog, "user_1", 10)
	res, err := l.Score(context.Background(), in)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if res.Disabled {
		t.Fatal("Score() disabled with a fitted model")
	}
	if len(res.Candidates) > 20 {
		t.Errorf("len(candidates) = %d, want <= 2 * count", len(res.Candidates))
	}
	for _, c := range res.Candidates {
		if in.Rated(c.ItemID) {
			t.Errorf("rated item %s returned", c.ItemID)
		}
		if c.Score <= cfg.MinPrediction || c.Score > recommend.MaxScore {
			t.Errorf("%s score %f outside (%f, 5]", c.ItemID, c.Score, cfg.MinPrediction)
		}
		if math.Abs(c.Confidence-c.Score/recommend.MaxScore) > 1e-9 {
			t.Errorf("%s confidence %f, want score/5", c.ItemID, c.Confidence)
		}
		if c.Source != recommend.SourceLearned {
			t.Errorf("%s source = %v", c.ItemID, c.Source)
		}
	}
}

func TestLearnedCustomRegressor(t *testing.T) {
	t.Parallel()

	m, catalog := sampleFixture(20, 30)
	in := scoreInput(m, catalog, "user_1", 3)

	t.Run("clamps and thresholds", func(t *testing.T) {
		t.Parallel()
		l := NewLearned(recommend.DefaultConfig().Learned, zerolog.Nop())
		l.SetRegressor(&stubRegressor{value: 9}, nil)
		if err := l.Fit(context.Background(), m, catalog); err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
		res, err := l.Score(context.Background(), in)
		if err != nil || len(res.Candidates) == 0 {
			t.Fatalf("Score() = %+v, %v", res, err)
		}
		for _, c := range res.Candidates {
			if c.Score != recommend.MaxScore || c.Confidence != 1 {
				t.Errorf("%s = %f/%f, want clamped 5/1", c.ItemID, c.Score, c.Confidence)
			}
		}

		l.SetRegressor(&stubRegressor{value: 2}, nil)
		res, _ = l.Score(context.Background(), in)
		if len(res.Candidates) != 0 {
			t.Errorf("predictions at 2.0 emitted %d candidates, want 0", len(res.Candidates))
		}
	})

	t.Run("model error disables the source", func(t *testing.T) {
		t.Parallel()
		l := NewLearned(recommend.DefaultConfig().Learned, zerolog.Nop())
		l.SetRegressor(&stubRegressor{err: errors.New("boom")}, nil)
		res, err := l.Score(context.Background(), in)
		if err != nil {
			t.Fatalf("Score() error = %v, want nil", err)
		}
		if !res.Disabled || len(res.Candidates) != 0 {
			t.Errorf("Score() = %+v, want disabled", res)
		}
	})
}

func TestLearnedCircuitBreaker(t *testing.T) {
	t.Parallel()

	cfg := recommend.DefaultConfig().Learned
	cfg.BreakerEnabled = true
	cfg.BreakerFailures = 2
	cfg.BreakerTimeout = time.Hour

	l := NewLearned(cfg, zerolog.Nop())
	failing := &stubRegressor{err: errors.New("model crashed")}
	l.SetRegressor(failing, nil)

	m, catalog := sampleFixture(20, 30)
	in := scoreInput(m, catalog, "user_1", 3)

	// Each request stops at its first failure.
	for i := 0; i < 2; i++ {
		res, err := l.Score(context.Background(), in)
		if err != nil || !res.Disabled {
			t.Fatalf("request %d: Score() = %+v, %v; want disabled", i, res, err)
		}
	}
	if l.Available() {
		t.Fatal("Available() = true with the breaker open")
	}

	calls := failing.calls
	res, _ := l.Score(context.Background(), in)
	if !res.Disabled {
		t.Error("open breaker did not disable the source")
	}
	if failing.calls != calls {
		t.Error("open breaker still called the model")
	}
}

func TestLearnedBreakerListener(t *testing.T) {
	t.Parallel()

	cfg := recommend.DefaultConfig().Learned
	cfg.BreakerEnabled = true
	cfg.BreakerFailures = 1
	cfg.BreakerTimeout = time.Hour

	l := NewLearned(cfg, zerolog.Nop())
	l.SetRegressor(&stubRegressor{err: errors.New("model crashed")}, nil)

	var states []int
	l.SetBreakerListener(func(state int) { states = append(states, state) })

	m, catalog := sampleFixture(20, 30)
	if _, err := l.Score(context.Background(), scoreInput(m, catalog, "user_1", 3)); err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(states) != 1 || states[0] != 2 {
		t.Errorf("breaker transitions = %v, want [2] (open)", states)
	}
}
