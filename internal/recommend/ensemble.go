// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"fmt"
	"sort"
)

// Ensemble tuning constants.
const (
	availabilitySaturation = 10.0
	multiSourceStep        = 0.1
	multiSourceCap         = 0.3
	confidenceBonusScale   = 0.2
	minCategoryCap         = 2
)

// EnsembleInput is everything the ranker needs for one request.
type EnsembleInput struct {
	// Candidates maps each source to its proposals.
	Candidates map[SourceKind][]Candidate

	// Weights are the configured base weights.
	Weights EnsembleWeights

	// Disabled sources get weight 0 for this request.
	Disabled map[SourceKind]bool

	// Count is the requested list length.
	Count int

	// CategoryCap is the per-category limit of the diversity filter.
	CategoryCap int

	// Catalog resolves item categories. May be nil.
	Catalog *CatalogSnapshot
}

// CategoryCap returns the per-category cap for a list of count items.
// A diversity objective below the default share relaxes the cap.
func CategoryCap(count int, diversity float64) int {
	divisor := 4
	if diversity < 0.2 {
		divisor = 2
	}
	return max(minCategoryCap, count/divisor)
}

// itemAggregate accumulates one item's evidence across sources.
type itemAggregate struct {
	itemID       string
	score        float64
	sources      map[SourceKind]float64 // raw score per source
	contribution map[SourceKind]float64 // weighted normalized score per source
	confidences  []float64
	reasons      map[string]struct{}
	firstReason  string
}

// RankEnsemble merges scorer outputs into a diversity-filtered top-N list.
// It reports naive=true when the adaptive pipeline failed and the naive
// average was used instead. An empty pool yields an empty list.
func RankEnsemble(in EnsembleInput) (recs []Recommendation, naive bool) {
	recs, err := rankAdaptive(in)
	if err == nil {
		return recs, false
	}
	return rankNaive(in), true
}

// rankAdaptive runs adaptive weighting, normalization, aggregation, bonuses,
// reason composition and the diversity filter. Panics are returned as errors.
func rankAdaptive(in EnsembleInput) (recs []Recommendation, err error) {
	defer func() {
		if r := recover(); r != nil {
			recs = nil
			err = fmt.Errorf("ensemble ranking panicked: %v", r)
		}
	}()

	for source, cands := range in.Candidates {
		for _, c := range cands {
			if !c.Source.Valid() || c.Source != source {
				return nil, fmt.Errorf("%w: item %q under %s", ErrUntaggedCandidate, c.ItemID, source)
			}
		}
	}

	weights := AdaptiveWeights(in.Candidates, in.Weights, in.Disabled)

	aggregates := make(map[string]*itemAggregate)
	for _, source := range sortedSources(in.Candidates) {
		w := weights[source]
		if w <= 0 {
			continue
		}
		cands := dedupeCandidates(in.Candidates[source])
		normalized := normalizeCandidateScores(cands)
		for i, c := range cands {
			agg, ok := aggregates[c.ItemID]
			if !ok {
				agg = &itemAggregate{
					itemID:       c.ItemID,
					sources:      make(map[SourceKind]float64),
					contribution: make(map[SourceKind]float64),
					reasons:      make(map[string]struct{}),
					firstReason:  c.Reason,
				}
				aggregates[c.ItemID] = agg
			}
			agg.score += normalized[i] * w
			agg.sources[source] = c.Score
			agg.contribution[source] = normalized[i] * w
			agg.confidences = append(agg.confidences, c.Confidence)
			agg.reasons[c.Reason] = struct{}{}
		}
	}

	ranked := make([]Recommendation, 0, len(aggregates))
	for _, agg := range aggregates {
		ranked = append(ranked, finalizeAggregate(agg, in.Catalog))
	}
	sortRecommendations(ranked)

	return diversify(ranked, in.Count, in.CategoryCap, in.Catalog), nil
}

// AdaptiveWeights scales each source's base weight by the quality and
// availability of its candidates and renormalizes the result. Empty and
// disabled sources get 0. If every active source scales to zero, the active
// sources share the weight equally.
func AdaptiveWeights(candidates map[SourceKind][]Candidate, base EnsembleWeights, disabled map[SourceKind]bool) map[SourceKind]float64 {
	weights := make(map[SourceKind]float64, len(candidates))
	var active []SourceKind
	var total float64

	for _, source := range sortedSources(candidates) {
		cands := candidates[source]
		if len(cands) == 0 || disabled[source] {
			weights[source] = 0
			continue
		}
		active = append(active, source)

		var confSum, scoreSum float64
		for _, c := range cands {
			confSum += c.Confidence
			scoreSum += c.Score
		}
		n := float64(len(cands))
		quality := (confSum/n + (scoreSum/n)/MaxScore) / 2
		availability := min(n/availabilitySaturation, 1)

		w := base.For(source) * quality * availability
		if w < 0 {
			w = 0
		}
		weights[source] = w
		total += w
	}

	if total <= 0 {
		for _, source := range active {
			weights[source] = 1 / float64(len(active))
		}
		return weights
	}
	for source, w := range weights {
		weights[source] = w / total
	}
	return weights
}

// finalizeAggregate applies the bonuses, composes the reason and picks the
// dominant source.
func finalizeAggregate(agg *itemAggregate, catalog *CatalogSnapshot) Recommendation {
	multiBonus := min(multiSourceStep*float64(len(agg.sources)), multiSourceCap)

	var confSum float64
	for _, c := range agg.confidences {
		confSum += c
	}
	meanConf := confSum / float64(len(agg.confidences))
	confBonus := (meanConf - 0.5) * confidenceBonusScale

	score := clamp((agg.score+multiBonus+confBonus)*MaxScore, 0, MaxScore)

	reason := agg.firstReason
	if len(agg.reasons) > 1 {
		reason = fmt.Sprintf("multi-source agreement (%d methods)", len(agg.sources))
	}

	dominant := SourceUnknown
	best := -1.0
	for _, source := range EnsembleSources {
		if c, ok := agg.contribution[source]; ok && c > best {
			dominant, best = source, c
		}
	}

	confidence := clamp(meanConf, 0, 1)
	category := catalog.Category(agg.itemID)
	return Recommendation{
		ItemID:     agg.itemID,
		Score:      score,
		Reason:     reason,
		Confidence: confidence,
		Source:     dominant,
		Category:   category,
		Action:     ActionText(dominant, category, score, confidence),
		Breakdown:  agg.sources,
	}
}

// diversify fills the list in score order, skipping items whose category is
// already at the cap, then backfills with skipped items until count is met.
func diversify(ranked []Recommendation, count, categoryCap int, catalog *CatalogSnapshot) []Recommendation {
	if count <= 0 || len(ranked) == 0 {
		return []Recommendation{}
	}
	if categoryCap <= 0 {
		categoryCap = max(minCategoryCap, count/4)
	}

	out := make([]Recommendation, 0, min(count, len(ranked)))
	perCategory := make(map[string]int)
	var skipped []Recommendation

	for _, rec := range ranked {
		if len(out) == count {
			break
		}
		category := rec.Category
		if category == "" {
			category = catalog.Category(rec.ItemID)
		}
		if perCategory[category] >= categoryCap {
			skipped = append(skipped, rec)
			continue
		}
		perCategory[category]++
		out = append(out, rec)
	}

	for _, rec := range skipped {
		if len(out) == count {
			break
		}
		out = append(out, rec)
	}

	// Backfilled items may outscore capped picks.
	sortRecommendations(out)
	return out
}

// rankNaive averages raw scores per item across the unweighted pool.
func rankNaive(in EnsembleInput) []Recommendation {
	type naiveAgg struct {
		sum, confSum float64
		n            int
		source       SourceKind
		reason       string
		reasons      map[string]struct{}
	}
	pool := make(map[string]*naiveAgg)
	for _, source := range sortedSources(in.Candidates) {
		for _, c := range in.Candidates[source] {
			a, ok := pool[c.ItemID]
			if !ok {
				a = &naiveAgg{source: source, reason: c.Reason, reasons: make(map[string]struct{})}
				pool[c.ItemID] = a
			}
			a.sum += c.Score
			a.confSum += c.Confidence
			a.n++
			a.reasons[c.Reason] = struct{}{}
		}
	}

	out := make([]Recommendation, 0, len(pool))
	for id, a := range pool {
		score := clamp(a.sum/float64(a.n), 0, MaxScore)
		confidence := clamp(a.confSum/float64(a.n), 0, 1)
		reason := a.reason
		if len(a.reasons) > 1 {
			reason = fmt.Sprintf("multi-source agreement (%d methods)", len(a.reasons))
		}
		if !a.source.Valid() {
			a.source = SourceFallback
		}
		category := in.Catalog.Category(id)
		out = append(out, Recommendation{
			ItemID:     id,
			Score:      score,
			Reason:     reason,
			Confidence: confidence,
			Source:     a.source,
			Category:   category,
			Action:     ActionText(a.source, category, score, confidence),
		})
	}
	sortRecommendations(out)
	if in.Count >= 0 && len(out) > in.Count {
		out = out[:in.Count]
	}
	return out
}

// dedupeCandidates keeps the highest-scoring candidate per item.
func dedupeCandidates(cands []Candidate) []Candidate {
	seen := make(map[string]int, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if idx, ok := seen[c.ItemID]; ok {
			if c.Score > out[idx].Score {
				out[idx] = c
			}
			continue
		}
		seen[c.ItemID] = len(out)
		out = append(out, c)
	}
	return out
}

// normalizeCandidateScores min-max normalizes scores to [0, 1]. When all
// scores are equal every candidate gets 0.5.
func normalizeCandidateScores(cands []Candidate) []float64 {
	out := make([]float64, len(cands))
	if len(cands) == 0 {
		return out
	}

	lo, hi := cands[0].Score, cands[0].Score
	for _, c := range cands[1:] {
		lo = min(lo, c.Score)
		hi = max(hi, c.Score)
	}

	rang := hi - lo
	for i, c := range cands {
		if rang == 0 {
			out[i] = 0.5
			continue
		}
		out[i] = (c.Score - lo) / rang
	}
	return out
}

// sortRecommendations orders by score descending, then item ID.
func sortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ItemID < recs[j].ItemID
	})
}

// sortedSources returns the map keys in enum order for deterministic iteration.
func sortedSources[V any](m map[SourceKind]V) []SourceKind {
	out := make([]SourceKind, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
