// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package algorithms

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// BaseAlgorithm provides common functionality for all scorers.
type BaseAlgorithm struct {
	name          string
	trained       bool
	version       int
	lastTrainedAt time.Time
	mu            sync.RWMutex
}

// NewBaseAlgorithm creates a new base algorithm with the given name.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{
		name: name,
	}
}

// Name returns the scorer identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// IsTrained returns whether Fit has completed at least once.
func (b *BaseAlgorithm) IsTrained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trained
}

// Version returns the number of completed fits.
func (b *BaseAlgorithm) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// LastTrainedAt returns when the scorer was last fitted.
func (b *BaseAlgorithm) LastTrainedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastTrainedAt
}

// markTrained updates the trained state.
// Must be called while holding the training lock (acquireTrainLock).
func (b *BaseAlgorithm) markTrained() {
	b.trained = true
	b.version++
	b.lastTrainedAt = time.Now()
}

// acquireTrainLock acquires the exclusive training lock.
func (b *BaseAlgorithm) acquireTrainLock() {
	b.mu.Lock()
}

// releaseTrainLock releases the exclusive training lock.
func (b *BaseAlgorithm) releaseTrainLock() {
	b.mu.Unlock()
}

// acquirePredictLock acquires the shared prediction lock.
func (b *BaseAlgorithm) acquirePredictLock() {
	b.mu.RLock()
}

// releasePredictLock releases the shared prediction lock.
func (b *BaseAlgorithm) releasePredictLock() {
	b.mu.RUnlock()
}

// neighbor is a similar row or column of the rating matrix.
type neighbor struct {
	Index      int
	Similarity float64
}

// topNeighbors sorts by similarity (descending, ties by index) and keeps k.
func topNeighbors(neighbors []neighbor, k int) []neighbor {
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].Index < neighbors[j].Index
	})
	if k > 0 && len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// scoredIndex is an intermediate (column, score) pair.
type scoredIndex struct {
	Index int
	Score float64
}

// rankScores orders a score map descending with ties broken by the ID of
// each column and truncates to limit (no limit when limit <= 0).
func rankScores(scores map[int]float64, idOf func(int) string, limit int) []scoredIndex {
	out := make([]scoredIndex, 0, len(scores))
	for i, s := range scores {
		out = append(out, scoredIndex{Index: i, Score: s})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return idOf(out[a].Index) < idOf(out[b].Index)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// cosineSimilarity computes cosine similarity between two dense vectors.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// overlap counts the entries of a that also appear in b.
func overlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	n := 0
	for _, s := range a {
		if _, ok := set[s]; ok {
			n++
		}
	}
	return n
}

func capScore(score float64) float64 {
	return math.Min(score, recommend.MaxScore)
}

// Ensure all scorers implement the engine interfaces.
var (
	_ recommend.Scorer         = (*Collaborative)(nil)
	_ recommend.Fitter         = (*Collaborative)(nil)
	_ recommend.Scorer         = (*ContentBased)(nil)
	_ recommend.Scorer         = (*Learned)(nil)
	_ recommend.Fitter         = (*Learned)(nil)
	_ recommend.StatusReporter = (*Learned)(nil)
	_ recommend.DomainScorer   = (*Heuristic)(nil)
)

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
