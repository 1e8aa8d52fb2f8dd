// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package algorithms

import (
	"context"
	"math"
	"testing"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

func TestNewALS(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ALSConfig
		verify func(t *testing.T, a *ALS)
	}{
		{
			name: "applies defaults for zero config",
			cfg:  ALSConfig{},
			verify: func(t *testing.T, a *ALS) {
				def := DefaultALSConfig()
				if a.config.NumFactors != def.NumFactors {
					t.Errorf("NumFactors = %d, want %d", a.config.NumFactors, def.NumFactors)
				}
				if a.config.NumIterations != def.NumIterations {
					t.Errorf("NumIterations = %d, want %d", a.config.NumIterations, def.NumIterations)
				}
				if a.config.Regularization <= 0 {
					t.Errorf("Regularization = %f, want > 0", a.config.Regularization)
				}
				if a.config.NumWorkers <= 0 {
					t.Errorf("NumWorkers = %d, want > 0", a.config.NumWorkers)
				}
			},
		},
		{
			name: "uses provided config values",
			cfg: ALSConfig{
				NumFactors:     8,
				NumIterations:  3,
				Regularization: 0.5,
				NumWorkers:     2,
			},
			verify: func(t *testing.T, a *ALS) {
				if a.config.NumFactors != 8 {
					t.Errorf("NumFactors = %d, want 8", a.config.NumFactors)
				}
				if a.config.NumIterations != 3 {
					t.Errorf("NumIterations = %d, want 3", a.config.NumIterations)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := NewALS(tt.cfg)
			if a == nil {
				t.Fatal("NewALS() returned nil")
			}
			if a.Name() != "als" {
				t.Errorf("Name() = %q, want %q", a.Name(), "als")
			}
			tt.verify(t, a)
		})
	}
}

func TestSolveLinearSystem(t *testing.T) {
	t.Parallel()

	// [4 2; 2 3] x = [2; 1]  =>  x = [0.5; 0]
	x := solveLinearSystem([][]float64{{4, 2}, {2, 3}}, []float64{2, 1})
	if math.Abs(x[0]-0.5) > 1e-9 || math.Abs(x[1]) > 1e-9 {
		t.Errorf("solveLinearSystem() = %v, want [0.5 0]", x)
	}
}

func sampleMatrix(users, items int) *recommend.MatrixSnapshot {
	_, interactions := recommend.GenerateSampleData(42, users, items)
	return recommend.NewMatrixSnapshot(interactions)
}

func TestALSFit(t *testing.T) {
	t.Parallel()

	m := sampleMatrix(100, 50)
	a := NewALS(DefaultALSConfig())
	if err := a.Fit(context.Background(), m); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !a.IsTrained() || a.Version() != 1 {
		t.Errorf("IsTrained() = %v, Version() = %d", a.IsTrained(), a.Version())
	}
	if !a.Ready(m) {
		t.Fatal("Ready() = false for the fitted snapshot")
	}
	if len(a.X) != m.UserCount() || len(a.Y) != m.ItemCount() {
		t.Fatalf("factor shapes %dx%d, want %dx%d", len(a.X), len(a.Y), m.UserCount(), m.ItemCount())
	}

	var errSum float64
	var n int
	for u := 0; u < m.UserCount(); u++ {
		for i, r := range m.Row(u) {
			pred, ok := a.Predict(u, i)
			if !ok {
				t.Fatalf("Predict(%d, %d) not ok", u, i)
			}
			errSum += math.Abs(pred - r)
			n++
		}
	}
	if mae := errSum / float64(n); mae > 1.0 {
		t.Errorf("training MAE = %f, want <= 1.0", mae)
	}
}

func TestALSScores(t *testing.T) {
	t.Parallel()

	m := sampleMatrix(30, 20)
	a := NewALS(ALSConfig{NumFactors: 8, NumIterations: 5, NumWorkers: 3})
	if err := a.Fit(context.Background(), m); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	u, _ := m.UserIndex("user_1")
	scores := a.Scores(m, u)
	if len(scores) == 0 {
		t.Fatal("Scores() returned nothing")
	}
	for i, s := range scores {
		if _, rated := m.Row(u)[i]; rated {
			t.Errorf("rated item %s scored", m.ItemID(i))
		}
		if s <= 0 || s > recommend.MaxScore {
			t.Errorf("score(%s) = %f outside (0, 5]", m.ItemID(i), s)
		}
	}

	other := sampleMatrix(30, 20)
	if a.Ready(other) || a.Scores(other, u) != nil {
		t.Error("factors must not be used against another snapshot")
	}

	a.Reset()
	if a.Ready(m) {
		t.Error("Ready() = true after Reset()")
	}
}

func TestALSFitCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewALS(DefaultALSConfig())
	if err := a.Fit(ctx, sampleMatrix(20, 15)); err == nil {
		t.Error("Fit() with cancelled context succeeded")
	}
	if a.IsTrained() {
		t.Error("cancelled fit marked the model trained")
	}
}

func TestALSFitCancelledKeepsFactors(t *testing.T) {
	t.Parallel()

	m := sampleMatrix(30, 20)
	a := NewALS(ALSConfig{NumFactors: 8, NumIterations: 5, NumWorkers: 2})
	if err := a.Fit(context.Background(), m); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	users, items := len(a.X), len(a.Y)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Fit(ctx, sampleMatrix(40, 25)); err == nil {
		t.Fatal("Fit() with cancelled context succeeded")
	}

	if !a.Ready(m) {
		t.Error("cancelled fit dropped the previous factors")
	}
	if len(a.X) != users || len(a.Y) != items {
		t.Errorf("factor shapes %dx%d, want %dx%d", len(a.X), len(a.Y), users, items)
	}
	if a.Version() != 1 {
		t.Errorf("Version() = %d, want 1", a.Version())
	}
}

func TestALSFitEmpty(t *testing.T) {
	t.Parallel()

	a := NewALS(DefaultALSConfig())
	m := recommend.NewMatrixSnapshot(nil)
	if err := a.Fit(context.Background(), m); err != nil {
		t.Fatalf("Fit(empty) error = %v", err)
	}
	if a.Ready(m) {
		t.Error("empty fit should not produce factors")
	}
}
