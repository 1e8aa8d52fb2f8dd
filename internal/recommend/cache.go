// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/wellnessrec/internal/cache"
)

// RecommendationCache is a fingerprinted LRU in front of the whole pipeline.
// Lists are copied on both put and get so cached state can never be mutated
// through a returned slice.
type RecommendationCache struct {
	enabled bool
	lru     *cache.LRU[[]Recommendation]
}

// NewRecommendationCache creates a cache from cfg.
func NewRecommendationCache(cfg CacheConfig) *RecommendationCache {
	return &RecommendationCache{
		enabled: cfg.Enabled,
		lru:     cache.NewLRU[[]Recommendation](cfg.Size, cfg.TTL),
	}
}

// Fingerprint derives the cache key of a normalized request. The user comes
// first so per-user invalidation can match on the prefix.
func Fingerprint(req Request) string {
	var b strings.Builder
	b.WriteString(userKeyPrefix(req.UserID))
	b.WriteString("n=")
	b.WriteString(strconv.Itoa(req.Count))
	b.WriteString("|d=")
	b.WriteString(normalizeField(req.Domain))
	if req.DisableLearned {
		b.WriteString("|nolearned")
	}

	if c := req.Context; c != nil {
		b.WriteString("|t=")
		b.WriteString(normalizeField(c.TimeOfDay))
		b.WriteString("|dev=")
		b.WriteString(normalizeField(c.DeviceType))
		b.WriteString("|s=")
		b.WriteString(normalizeField(c.SessionType))

		// Fields that change heuristic scoring.
		b.WriteString("|a=")
		b.WriteString(strconv.Itoa(c.AvailableTime))
		b.WriteString("|st=")
		b.WriteString(normalizeField(c.StressLevel))
		b.WriteString("|e=")
		b.WriteString(normalizeField(c.EnergyLevel))
		b.WriteString("|m=")
		b.WriteString(normalizeField(c.MealType))
		b.WriteString("|l=")
		b.WriteString(normalizeField(c.LifeStage))
		b.WriteString("|f=")
		b.WriteString(normalizeField(c.FinancialStress))
		if len(c.Goals) > 0 {
			goals := make([]string, len(c.Goals))
			for i, g := range c.Goals {
				goals[i] = normalizeField(g)
			}
			sort.Strings(goals)
			b.WriteString("|g=")
			b.WriteString(strings.Join(goals, ","))
		}
	}
	return b.String()
}

func userKeyPrefix(userID string) string {
	return strconv.Quote(userID) + "|"
}

func normalizeField(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Enabled reports whether lookups and stores are active.
func (c *RecommendationCache) Enabled() bool {
	return c.enabled
}

// Get returns a copy of the cached list for key.
func (c *RecommendationCache) Get(key string) ([]Recommendation, bool) {
	if !c.enabled {
		return nil, false
	}
	recs, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return cloneRecommendations(recs), true
}

// Put stores a copy of recs under key.
func (c *RecommendationCache) Put(key string, recs []Recommendation) {
	if !c.enabled {
		return
	}
	c.lru.Add(key, cloneRecommendations(recs))
}

// Clear drops every entry.
func (c *RecommendationCache) Clear() {
	c.lru.Clear()
}

// InvalidateUser drops every entry of userID and returns the count removed.
func (c *RecommendationCache) InvalidateUser(userID string) int {
	prefix := userKeyPrefix(userID)
	return c.lru.RemoveFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

// Stats returns size and hit counters.
func (c *RecommendationCache) Stats() CacheStats {
	hits, misses, size := c.lru.Stats()
	stats := CacheStats{
		Size:     size,
		Capacity: c.lru.Capacity(),
		Hits:     hits,
		Misses:   misses,
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}

// CleanupExpired drops entries past their TTL and returns the count removed.
func (c *RecommendationCache) CleanupExpired() int {
	return c.lru.CleanupExpired()
}
