// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package algorithms

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// Training minimums of the default regressor.
const (
	minTrainingUsers   = 10
	minTrainingSamples = 20
)

// Learned scores unrated catalog items with a regression model over user
// statistics and item attributes.
//
// User features: rating count, mean, standard deviation, max, min and the
// code of the most rated category. Item features: price, rating, category
// code, description word count and tag count.
//
// Without a model the scorer reports itself disabled and the ensemble gives
// the learned source no weight for that request.
type Learned struct {
	BaseAlgorithm
	config  recommend.LearnedConfig
	logger  zerolog.Logger
	breaker *gobreaker.CircuitBreaker[float64]

	model  Regressor
	scaler *FeatureScaler
	// custom marks a model installed with SetRegressor; Fit leaves it alone.
	custom bool

	listener atomic.Pointer[BreakerListener]
}

// BreakerListener receives circuit breaker transitions: 0 closed,
// 1 half-open, 2 open.
type BreakerListener func(state int)

// NewLearned creates the learned scorer. With BreakerEnabled the regressor
// is wrapped in a circuit breaker that skips the source after repeated
// prediction failures.
func NewLearned(cfg recommend.LearnedConfig, logger zerolog.Logger) *Learned {
	l := &Learned{
		BaseAlgorithm: NewBaseAlgorithm("learned"),
		config:        cfg,
		logger:        logger.With().Str("component", "learned").Logger(),
	}

	if cfg.BreakerEnabled {
		l.breaker = gobreaker.NewCircuitBreaker[float64](gobreaker.Settings{
			Name:        "learned-scorer",
			MaxRequests: 1,
			Timeout:     cfg.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.BreakerFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				l.logger.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("learned scorer circuit breaker state changed")
				if fn := l.listener.Load(); fn != nil {
					(*fn)(int(to))
				}
			},
		})
	}

	return l
}

// SetBreakerListener installs a callback for breaker transitions. It is a
// no-op without a breaker.
func (l *Learned) SetBreakerListener(fn BreakerListener) {
	if fn == nil {
		l.listener.Store(nil)
		return
	}
	l.listener.Store(&fn)
}

// Source implements recommend.Scorer.
func (l *Learned) Source() recommend.SourceKind {
	return recommend.SourceLearned
}

// SetRegressor installs an externally trained model. A nil scaler passes
// features through unscaled. A nil model disables the scorer.
func (l *Learned) SetRegressor(model Regressor, scaler *FeatureScaler) {
	l.acquireTrainLock()
	defer l.releaseTrainLock()
	l.model = model
	l.scaler = scaler
	l.custom = model != nil
}

// LinearModel returns the fitted default regressor and its scaler.
func (l *Learned) LinearModel() (*LinearRegressor, *FeatureScaler, bool) {
	l.acquirePredictLock()
	defer l.releasePredictLock()
	lin, ok := l.model.(*LinearRegressor)
	if !ok || lin == nil {
		return nil, nil, false
	}
	return lin, l.scaler, true
}

// Available implements recommend.StatusReporter.
func (l *Learned) Available() bool {
	l.acquirePredictLock()
	defer l.releasePredictLock()
	if l.model == nil {
		return false
	}
	return l.breaker == nil || l.breaker.State() != gobreaker.StateOpen
}

// Fit trains the default ridge regressor on every rating of a catalog item.
// Too little data leaves the scorer without a model.
//
//nolint:gocritic // X follows standard linear algebra notation
func (l *Learned) Fit(ctx context.Context, m *recommend.MatrixSnapshot, catalog *recommend.CatalogSnapshot) error {
	l.acquireTrainLock()
	defer l.releaseTrainLock()

	if l.custom {
		l.markTrained()
		return nil
	}

	var (
		X     [][]float64
		y     []float64
		users int
	)
	for u := 0; u < m.UserCount(); u++ {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}
		history := make(map[string]float64, len(m.Row(u)))
		for i, r := range m.Row(u) {
			history[m.ItemID(i)] = r
		}
		uf := userFeatures(history, catalog)

		rows := 0
		for itemID, rating := range history {
			item, ok := catalog.Item(itemID)
			if !ok {
				continue
			}
			X = append(X, append(append([]float64{}, uf...), itemFeatures(item, catalog)...))
			y = append(y, rating)
			rows++
		}
		if rows > 0 {
			users++
		}
	}

	if users < minTrainingUsers || len(X) < minTrainingSamples {
		l.model, l.scaler = nil, nil
		l.logger.Debug().
			Int("users", users).
			Int("samples", len(X)).
			Msg("insufficient data for learned model")
		l.markTrained()
		return nil
	}

	scaler := FitScaler(X)
	scaled := make([][]float64, len(X))
	for r, row := range X {
		s, err := scaler.Transform(row)
		if err != nil {
			return err
		}
		scaled[r] = s
	}

	model, err := FitRidge(scaled, y, l.config.Ridge)
	if err != nil {
		l.model, l.scaler = nil, nil
		return err
	}

	l.model, l.scaler = model, scaler
	l.markTrained()
	l.logger.Debug().
		Int("users", users).
		Int("samples", len(X)).
		Msg("learned model fitted")
	return nil
}

// Score implements recommend.Scorer.
func (l *Learned) Score(ctx context.Context, in *recommend.ScoreInput) (recommend.ScoreResult, error) {
	l.acquirePredictLock()
	model, scaler := l.model, l.scaler
	l.releasePredictLock()

	if model == nil {
		return recommend.ScoreResult{Disabled: true}, nil
	}
	if len(in.History) == 0 || in.Catalog.Len() == 0 {
		return recommend.ScoreResult{}, nil
	}

	uf := userFeatures(in.History, in.Catalog)

	var candidates []recommend.Candidate
	for _, id := range in.Catalog.IDs() {
		if in.Rated(id) {
			continue
		}
		if ContextCancelled(ctx) {
			return recommend.ScoreResult{}, ctx.Err()
		}
		item, _ := in.Catalog.Item(id)

		features := append(append([]float64{}, uf...), itemFeatures(item, in.Catalog)...)
		if scaler != nil {
			scaled, err := scaler.Transform(features)
			if err != nil {
				return l.disable(err), nil
			}
			features = scaled
		}

		pred, err := l.predict(model, features)
		if err != nil {
			return l.disable(err), nil
		}

		pred = math.Max(0, math.Min(pred, recommend.MaxScore))
		if pred <= l.config.MinPrediction {
			continue
		}
		candidates = append(candidates, recommend.Candidate{
			ItemID:     id,
			Score:      pred,
			Reason:     "learned model prediction",
			Confidence: math.Min(pred/recommend.MaxScore, 1),
			Source:     recommend.SourceLearned,
		})
	}

	sortCandidates(candidates)
	if limit := candidateLimit(in.Count); limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return recommend.ScoreResult{Candidates: candidates}, nil
}

func (l *Learned) predict(model Regressor, features []float64) (float64, error) {
	if l.breaker == nil {
		return model.Predict(features)
	}
	return l.breaker.Execute(func() (float64, error) {
		return model.Predict(features)
	})
}

// disable logs a prediction fault and marks the source disabled for the request.
func (l *Learned) disable(err error) recommend.ScoreResult {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		l.logger.Debug().Err(err).Msg("learned scorer skipped by circuit breaker")
	} else {
		l.logger.Warn().Err(err).Msg("learned model prediction failed")
	}
	return recommend.ScoreResult{Disabled: true}
}

// userFeatures returns the rating statistics and dominant category code of
// a history. history must not be empty.
func userFeatures(history map[string]float64, catalog *recommend.CatalogSnapshot) []float64 {
	n := float64(len(history))
	var sum, maxR, minR float64
	minR = math.Inf(1)
	maxR = math.Inf(-1)
	categories := make(map[string]int)
	for id, r := range history {
		sum += r
		maxR = math.Max(maxR, r)
		minR = math.Min(minR, r)
		if c := catalog.Category(id); c != "" {
			categories[c]++
		}
	}
	mean := sum / n

	var std float64
	if len(history) > 1 {
		for _, r := range history {
			std += (r - mean) * (r - mean)
		}
		std = math.Sqrt(std / n)
	}

	dominant, best := "", 0
	for c, count := range categories {
		if count > best || (count == best && c < dominant) {
			dominant, best = c, count
		}
	}

	return []float64{n, mean, std, maxR, minR, categoryFeature(catalog, dominant)}
}

// itemFeatures returns the numeric attributes of item.
//
//nolint:gocritic // hugeParam: Item passed by value for immutability
func itemFeatures(item recommend.Item, catalog *recommend.CatalogSnapshot) []float64 {
	return []float64{
		item.Price,
		item.Rating,
		categoryFeature(catalog, item.Category),
		float64(len(strings.Fields(item.Description))),
		float64(len(item.Tags)),
	}
}

func categoryFeature(catalog *recommend.CatalogSnapshot, category string) float64 {
	if category == "" {
		return 0
	}
	return float64(max(catalog.CategoryCode(category), 0))
}
