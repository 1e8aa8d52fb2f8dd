// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package algorithms

import (
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// Heuristic scoring constants.
const (
	heuristicBase      = 0.5
	wellnessGoalWeight = 0.1
)

// Heuristic scores the fixed wellness domain tables with additive rules:
// a base of 0.5, context bonuses per domain and a goal bonus when the item
// shares a goal with the user, capped at 1.
//
// Heuristic holds no mutable state and is safe for concurrent use.
type Heuristic struct {
	config  recommend.HeuristicConfig
	domains map[string]*domainRules
	order   []string
}

// NewHeuristic creates the domain scorer over the built-in tables.
func NewHeuristic(cfg recommend.HeuristicConfig) *Heuristic {
	h := &Heuristic{
		config:  cfg,
		domains: make(map[string]*domainRules, len(wellnessDomains)),
	}
	for i := range wellnessDomains {
		d := &wellnessDomains[i]
		h.domains[d.name] = d
		h.order = append(h.order, d.name)
	}
	return h
}

// Domains implements recommend.DomainScorer.
func (h *Heuristic) Domains() []string {
	return append([]string(nil), h.order...)
}

// ScoreDomain implements recommend.DomainScorer. Results are sorted by
// score descending (ties by item ID) and truncated to req.Count when it is
// positive.
func (h *Heuristic) ScoreDomain(req recommend.DomainRequest) []recommend.Recommendation {
	rules, ok := h.domains[strings.ToLower(strings.TrimSpace(req.Domain))]
	if !ok {
		return nil
	}

	goals := make([]string, 0, len(req.Goals))
	for _, g := range req.Goals {
		if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
			goals = append(goals, g)
		}
	}
	dc := &domainContext{RequestContext: req.Context}

	var recs []recommend.Recommendation
	for i := range rules.items {
		it := &rules.items[i]

		matched := overlap(it.Goals, goals)
		score := heuristicBase + rules.bonus(it, dc)
		if matched > 0 {
			score += rules.goalBonus
		}
		score = math.Min(score, 1)
		if score <= h.config.Threshold {
			continue
		}

		wellness := math.Min(score+wellnessGoalWeight*float64(matched), 1)
		recs = append(recs, recommend.Recommendation{
			ItemID:        it.ID,
			Score:         wellness * recommend.MaxScore,
			Reason:        rules.reason(it),
			Confidence:    score,
			Source:        recommend.SourceHeuristic,
			Category:      rules.name,
			Action:        rules.action(it, dc),
			Domain:        rules.name,
			WellnessScore: &wellness,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ItemID < recs[j].ItemID
	})
	if req.Count > 0 && len(recs) > req.Count {
		recs = recs[:req.Count]
	}
	return recs
}
