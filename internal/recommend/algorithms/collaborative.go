// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package algorithms

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// Method weights of the collaborative merge.
const (
	userBasedWeight     = 0.40
	itemBasedWeight     = 0.35
	factorizationWeight = 0.25
)

// Collaborative combines user-based and item-based neighbourhood scoring
// with an ALS factorization of the rating matrix.
//
// Factorization only runs when the snapshot has more users and items than
// the configured minimums; smaller matrices are scored by the neighbourhood
// methods alone.
type Collaborative struct {
	BaseAlgorithm
	config recommend.CollaborativeConfig
	als    *ALS
	logger zerolog.Logger
}

// NewCollaborative creates the collaborative scorer.
func NewCollaborative(cfg recommend.CollaborativeConfig, seed int64, logger zerolog.Logger) *Collaborative {
	return &Collaborative{
		BaseAlgorithm: NewBaseAlgorithm("collaborative"),
		config:        cfg,
		als: NewALS(ALSConfig{
			NumFactors:     cfg.Factors,
			NumIterations:  cfg.Iterations,
			Regularization: cfg.Regularization,
			NumWorkers:     cfg.Workers,
			Seed:           seed,
		}),
		logger: logger.With().Str("component", "collaborative").Logger(),
	}
}

// Source implements recommend.Scorer.
func (c *Collaborative) Source() recommend.SourceKind {
	return recommend.SourceCollaborative
}

// Factorization exposes the underlying ALS model.
func (c *Collaborative) Factorization() *ALS {
	return c.als
}

// Fit refits the factorization when the snapshot is large enough.
func (c *Collaborative) Fit(ctx context.Context, m *recommend.MatrixSnapshot, _ *recommend.CatalogSnapshot) error {
	if m.UserCount() <= c.config.FactorizationMinUsers || m.ItemCount() <= c.config.FactorizationMinItems {
		c.als.Reset()
		c.logger.Debug().
			Int("users", m.UserCount()).
			Int("items", m.ItemCount()).
			Msg("matrix below factorization minimum, skipping ALS")
	} else if err := c.als.Fit(ctx, m); err != nil {
		return err
	}

	c.acquireTrainLock()
	c.markTrained()
	c.releaseTrainLock()
	return nil
}

// collaborativeMethod is one contributing neighbourhood or factor method.
type collaborativeMethod struct {
	label  string
	weight float64
	scores map[int]float64
}

// mergedScore accumulates the weighted method scores of one item.
type mergedScore struct {
	sum     float64
	methods []string
}

// Score implements recommend.Scorer.
func (c *Collaborative) Score(ctx context.Context, in *recommend.ScoreInput) (recommend.ScoreResult, error) {
	if len(in.History) == 0 || in.Matrix == nil {
		return recommend.ScoreResult{}, nil
	}
	m := in.Matrix
	u, ok := m.UserIndex(in.UserID)
	if !ok {
		return recommend.ScoreResult{}, nil
	}

	methods := make([]collaborativeMethod, 0, 3)
	methods = append(methods, collaborativeMethod{"user-based", userBasedWeight, userBasedScores(m, u, c.config)})
	if ContextCancelled(ctx) {
		return recommend.ScoreResult{}, ctx.Err()
	}
	methods = append(methods, collaborativeMethod{"item-based", itemBasedWeight, itemBasedScores(m, u, c.config)})
	if ContextCancelled(ctx) {
		return recommend.ScoreResult{}, ctx.Err()
	}
	methods = append(methods, collaborativeMethod{"factorization", factorizationWeight, c.als.Scores(m, u)})

	limit := candidateLimit(in.Count)
	merged := make(map[int]*mergedScore)
	for _, method := range methods {
		for _, s := range rankScores(method.scores, m.ItemID, limit) {
			entry, ok := merged[s.Index]
			if !ok {
				entry = &mergedScore{}
				merged[s.Index] = entry
			}
			entry.sum += method.weight * s.Score
			entry.methods = append(entry.methods, method.label)
		}
	}

	candidates := make([]recommend.Candidate, 0, len(merged))
	for i, entry := range merged {
		n := float64(len(entry.methods))
		candidates = append(candidates, recommend.Candidate{
			ItemID:     m.ItemID(i),
			Score:      capScore(entry.sum / n),
			Reason:     "collaborative filtering (" + strings.Join(entry.methods, " + ") + ")",
			Confidence: math.Min(0.6+0.1*n, 1),
			Source:     recommend.SourceCollaborative,
		})
	}
	sortCandidates(candidates)

	return recommend.ScoreResult{Candidates: candidates}, nil
}

// candidateLimit is how many candidates each method hands to the ranker.
// Twice the request leaves room for diversity filtering.
func candidateLimit(count int) int {
	if count <= 0 {
		return 0
	}
	return 2 * count
}

// sortCandidates orders by score descending with ties broken by item ID.
func sortCandidates(candidates []recommend.Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ItemID < candidates[j].ItemID
	})
}
