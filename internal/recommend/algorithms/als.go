// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package algorithms

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// ALSConfig contains configuration for the ALS factorization.
type ALSConfig struct {
	// NumFactors is the dimension of the latent factor vectors.
	NumFactors int

	// NumIterations is the number of alternating sweeps.
	NumIterations int

	// Regularization is the L2 regularization parameter.
	Regularization float64

	// NumWorkers is the number of parallel workers for training.
	// If <= 0, defaults to 4.
	NumWorkers int

	// Seed drives the factor initialization.
	Seed int64
}

// DefaultALSConfig returns default ALS configuration.
func DefaultALSConfig() ALSConfig {
	return ALSConfig{
		NumFactors:     16,
		NumIterations:  10,
		Regularization: 0.1,
		NumWorkers:     4,
		Seed:           42,
	}
}

// ALS factorizes the explicit rating matrix R ≈ X·Yᵀ by alternating least
// squares. Each sweep fixes Y and solves every user row
//
//	(Σ_{i∈R(u)} y_i y_iᵀ + λI) x_u = Σ_{i∈R(u)} r_ui y_i
//
// then does the same for items with X fixed.
//
// Factors are only valid for the snapshot they were fitted on; scoring
// against any other snapshot yields nothing.
type ALS struct {
	BaseAlgorithm
	config ALSConfig

	// X is the user factor matrix (numUsers x numFactors)
	X [][]float64

	// Y is the item factor matrix (numItems x numFactors)
	Y [][]float64

	fitted *recommend.MatrixSnapshot
}

// NewALS creates a new ALS factorization with the given configuration.
func NewALS(cfg ALSConfig) *ALS {
	def := DefaultALSConfig()
	if cfg.NumFactors <= 0 {
		cfg.NumFactors = def.NumFactors
	}
	if cfg.NumIterations <= 0 {
		cfg.NumIterations = def.NumIterations
	}
	if cfg.Regularization <= 0 {
		cfg.Regularization = def.Regularization
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = def.NumWorkers
	}

	return &ALS{
		BaseAlgorithm: NewBaseAlgorithm("als"),
		config:        cfg,
	}
}

// Fit factorizes m. The previous factors stay in place until the new ones
// are complete, so a cancelled fit leaves the last good model untouched.
func (a *ALS) Fit(ctx context.Context, m *recommend.MatrixSnapshot) error {
	a.acquireTrainLock()
	defer a.releaseTrainLock()

	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	numUsers := m.UserCount()
	numItems := m.ItemCount()
	numFactors := a.config.NumFactors

	if numUsers == 0 || numItems == 0 {
		a.X, a.Y, a.fitted = nil, nil, nil
		a.markTrained()
		return nil
	}

	//nolint:gosec // G404: factor initialization does not need crypto randomness
	rng := rand.New(rand.NewPCG(uint64(a.config.Seed), uint64(numUsers*numItems)))

	X := make([][]float64, numUsers)
	for u := range X {
		X[u] = make([]float64, numFactors)
		for f := range X[u] {
			X[u][f] = 0.1 * (rng.Float64() - 0.5)
		}
	}
	Y := make([][]float64, numItems)
	for i := range Y {
		Y[i] = make([]float64, numFactors)
		for f := range Y[i] {
			Y[i][f] = 0.1 * (rng.Float64() - 0.5)
		}
	}

	lambda := a.config.Regularization

	for iter := 0; iter < a.config.NumIterations; iter++ {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}

		// Fix Y, solve for X
		a.sweep(numUsers, func(u int) {
			X[u] = solveFactor(m.Row(u), Y, numFactors, lambda)
		})

		if ContextCancelled(ctx) {
			return ctx.Err()
		}

		// Fix X, solve for Y
		a.sweep(numItems, func(i int) {
			Y[i] = solveFactor(m.Col(i), X, numFactors, lambda)
		})
	}

	a.X, a.Y, a.fitted = X, Y, m
	a.markTrained()
	return nil
}

// Reset drops the factors so scoring yields nothing until the next Fit.
func (a *ALS) Reset() {
	a.acquireTrainLock()
	defer a.releaseTrainLock()
	a.X, a.Y, a.fitted = nil, nil, nil
}

// Ready reports whether factors exist for m.
func (a *ALS) Ready(m *recommend.MatrixSnapshot) bool {
	a.acquirePredictLock()
	defer a.releasePredictLock()
	return a.fitted != nil && a.fitted == m
}

// sweep runs update over [0, n) split into contiguous worker chunks.
func (a *ALS) sweep(n int, update func(int)) {
	var wg sync.WaitGroup
	chunkSize := (n + a.config.NumWorkers - 1) / a.config.NumWorkers

	for w := 0; w < a.config.NumWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for k := lo; k < hi; k++ {
				update(k)
			}
		}(start, end)
	}

	wg.Wait()
}

// solveFactor solves one row of the alternating step against the fixed
// factor matrix F over the observed ratings.
//
//nolint:gocritic // F, A follow standard linear algebra notation
func solveFactor(ratings map[int]float64, F [][]float64, numFactors int, lambda float64) []float64 {
	A := make([][]float64, numFactors)
	for f := range A {
		A[f] = make([]float64, numFactors)
		A[f][f] = lambda
	}

	b := make([]float64, numFactors)
	for j, r := range ratings {
		y := F[j]
		for f1 := 0; f1 < numFactors; f1++ {
			for f2 := f1; f2 < numFactors; f2++ {
				delta := y[f1] * y[f2]
				A[f1][f2] += delta
				if f1 != f2 {
					A[f2][f1] += delta
				}
			}
			b[f1] += r * y[f1]
		}
	}

	return solveLinearSystem(A, b)
}

// solveLinearSystem solves A*x = b using Cholesky decomposition.
//
//nolint:gocritic // A, L follow standard linear algebra notation
func solveLinearSystem(A [][]float64, b []float64) []float64 {
	n := len(b)

	// Cholesky decomposition: A = L * L'
	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := A[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}

			if i == j {
				if sum <= 0 {
					sum = 1e-10
				}
				L[i][j] = math.Sqrt(sum)
			} else if L[j][j] != 0 {
				L[i][j] = sum / L[j][j]
			}
		}
	}

	// Solve L * z = b (forward substitution)
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for j := 0; j < i; j++ {
			sum -= L[i][j] * z[j]
		}
		if L[i][i] != 0 {
			z[i] = sum / L[i][i]
		}
	}

	// Solve L' * x = z (back substitution)
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < n; j++ {
			sum -= L[j][i] * x[j]
		}
		if L[i][i] != 0 {
			x[i] = sum / L[i][i]
		}
	}

	return x
}

// Scores returns the positive predicted ratings of the items row u has not
// rated, capped at the rating scale maximum. It returns nil when the factors
// were fitted on a different snapshot.
func (a *ALS) Scores(m *recommend.MatrixSnapshot, u int) map[int]float64 {
	a.acquirePredictLock()
	defer a.releasePredictLock()

	if a.fitted == nil || a.fitted != m || u < 0 || u >= len(a.X) {
		return nil
	}

	rated := m.Row(u)
	x := a.X[u]
	scores := make(map[int]float64)
	for i, y := range a.Y {
		if _, ok := rated[i]; ok {
			continue
		}
		var score float64
		for f := range x {
			score += x[f] * y[f]
		}
		if score > 0 {
			scores[i] = capScore(score)
		}
	}
	return scores
}

// Predict returns the reconstructed rating of (u, i) on the fitted snapshot.
func (a *ALS) Predict(u, i int) (float64, bool) {
	a.acquirePredictLock()
	defer a.releasePredictLock()

	if a.fitted == nil || u < 0 || u >= len(a.X) || i < 0 || i >= len(a.Y) {
		return 0, false
	}
	var score float64
	for f := range a.X[u] {
		score += a.X[u][f] * a.Y[i][f]
	}
	return score, true
}
