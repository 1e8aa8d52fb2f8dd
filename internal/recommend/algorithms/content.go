// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package algorithms

import (
	"context"
	"maps"
	"math"
	"slices"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// ContentBased scores unrated items by the cosine similarity between their
// embedding and the user's profile, the rating-weighted mean embedding of
// the items the user rated.
//
// The scorer is stateless; everything it needs comes from the catalog
// snapshot in the score input.
type ContentBased struct {
	BaseAlgorithm
	config recommend.ContentConfig
	logger zerolog.Logger
}

// NewContentBased creates the content scorer.
func NewContentBased(cfg recommend.ContentConfig, logger zerolog.Logger) *ContentBased {
	return &ContentBased{
		BaseAlgorithm: NewBaseAlgorithm("content"),
		config:        cfg,
		logger:        logger.With().Str("component", "content").Logger(),
	}
}

// Source implements recommend.Scorer.
func (c *ContentBased) Source() recommend.SourceKind {
	return recommend.SourceContent
}

// Score implements recommend.Scorer.
func (c *ContentBased) Score(ctx context.Context, in *recommend.ScoreInput) (recommend.ScoreResult, error) {
	if len(in.History) == 0 || in.Catalog.Len() == 0 {
		return recommend.ScoreResult{}, nil
	}

	profile := userProfile(in.Catalog, in.History)
	if profile == nil {
		c.logger.Debug().Str("user_id", in.UserID).Msg("no rated items in catalog")
		return recommend.ScoreResult{}, nil
	}

	var candidates []recommend.Candidate
	for _, id := range in.Catalog.IDs() {
		if in.Rated(id) {
			continue
		}
		if ContextCancelled(ctx) {
			return recommend.ScoreResult{}, ctx.Err()
		}
		emb, ok := in.Catalog.Embedding(id)
		if !ok {
			continue
		}
		sim := cosineSimilarity(profile, emb)
		if sim <= c.config.MinSimilarity {
			continue
		}
		candidates = append(candidates, recommend.Candidate{
			ItemID:     id,
			Score:      capScore(sim * recommend.MaxScore),
			Reason:     "content-based similarity",
			Confidence: math.Min(sim, 1),
			Source:     recommend.SourceContent,
		})
	}

	sortCandidates(candidates)
	if limit := candidateLimit(in.Count); limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return recommend.ScoreResult{Candidates: candidates}, nil
}

// userProfile returns the rating-weighted mean embedding of the rated items
// present in the catalog, or nil when none are.
func userProfile(catalog *recommend.CatalogSnapshot, history map[string]float64) []float64 {
	var (
		profile []float64
		total   float64
	)
	for _, id := range slices.Sorted(maps.Keys(history)) {
		rating := history[id]
		emb, ok := catalog.Embedding(id)
		if !ok {
			continue
		}
		if profile == nil {
			profile = make([]float64, len(emb))
		}
		for d, v := range emb {
			profile[d] += rating * v
		}
		total += rating
	}
	if profile == nil || total == 0 {
		return nil
	}
	for d := range profile {
		profile[d] /= total
	}
	return profile
}
