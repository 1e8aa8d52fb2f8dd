// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package algorithms

import (
	"errors"
	"fmt"
	"math"
)

// ErrFeatureDimension is returned when a feature vector does not match the
// dimension a model or scaler was fitted on.
var ErrFeatureDimension = errors.New("feature dimension mismatch")

// Regressor predicts a rating from a scaled feature vector.
type Regressor interface {
	Predict(features []float64) (float64, error)
}

// FeatureScaler standardizes features to zero mean and unit variance.
// A constant column keeps a standard deviation of 1.
type FeatureScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler computes per-column statistics of rows.
func FitScaler(rows [][]float64) *FeatureScaler {
	if len(rows) == 0 {
		return &FeatureScaler{}
	}
	dim := len(rows[0])
	s := &FeatureScaler{
		Mean: make([]float64, dim),
		Std:  make([]float64, dim),
	}

	n := float64(len(rows))
	for _, row := range rows {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= n
	}
	for _, row := range rows {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	return s
}

// Transform returns the standardized copy of x.
func (s *FeatureScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("%w: scaler has %d columns, got %d", ErrFeatureDimension, len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out, nil
}

// LinearRegressor is a ridge regression model over standardized features.
type LinearRegressor struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// FitRidge fits y ≈ Xw + b by solving (XᵀX + λI)w = Xᵀ(y - ȳ) with the
// intercept fixed at the mean target. X is expected to be standardized.
//
//nolint:gocritic // X, A follow standard linear algebra notation
func FitRidge(X [][]float64, y []float64, lambda float64) (*LinearRegressor, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("ridge fit: %d rows for %d targets", len(X), len(y))
	}
	dim := len(X[0])

	var mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	A := make([][]float64, dim)
	for f := range A {
		A[f] = make([]float64, dim)
		A[f][f] = lambda
	}
	b := make([]float64, dim)

	for r, row := range X {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrFeatureDimension, r, len(row), dim)
		}
		target := y[r] - mean
		for f1 := 0; f1 < dim; f1++ {
			for f2 := f1; f2 < dim; f2++ {
				delta := row[f1] * row[f2]
				A[f1][f2] += delta
				if f1 != f2 {
					A[f2][f1] += delta
				}
			}
			b[f1] += row[f1] * target
		}
	}

	return &LinearRegressor{
		Weights:   solveLinearSystem(A, b),
		Intercept: mean,
	}, nil
}

// Predict implements Regressor.
func (m *LinearRegressor) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Weights) {
		return 0, fmt.Errorf("%w: model has %d weights, got %d", ErrFeatureDimension, len(m.Weights), len(features))
	}
	out := m.Intercept
	for j, w := range m.Weights {
		out += w * features[j]
	}
	return out, nil
}
