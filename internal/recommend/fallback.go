// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"fmt"
	"sort"
)

// FallbackStrategy names a tier of the fallback chain.
type FallbackStrategy string

// Fallback tiers in the order they are tried.
const (
	FallbackPopularity      FallbackStrategy = "popularity"
	FallbackTrending        FallbackStrategy = "trending"
	FallbackDiverseCategory FallbackStrategy = "diverse_category"
	FallbackEmergency       FallbackStrategy = "emergency"
)

const (
	popularityCountWeight  = 0.7
	popularityRatingWeight = 0.3
	trendingMinRating      = 3.5
	trendingConfidence     = 0.7
	diverseConfidence      = 0.6
	emergencyScore         = 3.0
	emergencyConfidence    = 0.5
)

// FallbackInput is the data the chain may consult.
type FallbackInput struct {
	Popularity map[string]ItemPopularity
	Catalog    *CatalogSnapshot
	Count      int
	// Exclude holds items the user already rated.
	Exclude map[string]float64
}

// RunFallbackChain tries popularity, trending, diverse-category and finally
// the emergency default, returning the first non-empty result and the tier
// that produced it.
func RunFallbackChain(in FallbackInput) ([]Recommendation, FallbackStrategy) {
	if in.Count < 1 {
		in.Count = 1
	}
	if recs := popularityFallback(in); len(recs) > 0 {
		return recs, FallbackPopularity
	}
	if recs := trendingFallback(in); len(recs) > 0 {
		return recs, FallbackTrending
	}
	if recs := diverseCategoryFallback(in); len(recs) > 0 {
		return recs, FallbackDiverseCategory
	}
	return EmergencyDefault(in.Count), FallbackEmergency
}

// popularityFallback ranks rated items by count*0.7 + mean*0.3.
func popularityFallback(in FallbackInput) []Recommendation {
	type ranked struct {
		id   string
		pop  float64
		mean float64
		n    int
	}
	items := make([]ranked, 0, len(in.Popularity))
	for id, p := range in.Popularity {
		if _, seen := in.Exclude[id]; seen || p.Count == 0 {
			continue
		}
		mean := p.Mean()
		items = append(items, ranked{
			id:   id,
			pop:  float64(p.Count)*popularityCountWeight + mean*popularityRatingWeight,
			mean: mean,
			n:    p.Count,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].pop != items[j].pop {
			return items[i].pop > items[j].pop
		}
		return items[i].id < items[j].id
	})

	out := make([]Recommendation, 0, min(in.Count, len(items)))
	for _, it := range items[:min(in.Count, len(items))] {
		out = append(out, fallbackRecord(in.Catalog, it.id, clamp(it.mean, 0, MaxScore),
			min(it.pop/10, 1), fmt.Sprintf("popular with the community (%d ratings)", it.n)))
	}
	return out
}

// trendingFallback ranks catalog items with a stored rating above 3.5.
func trendingFallback(in FallbackInput) []Recommendation {
	var items []Item
	for _, id := range in.Catalog.IDs() {
		item, _ := in.Catalog.Item(id)
		if _, seen := in.Exclude[id]; seen || item.Rating <= trendingMinRating {
			continue
		}
		items = append(items, item)
	}
	sortByRating(items)

	out := make([]Recommendation, 0, min(in.Count, len(items)))
	for _, item := range items[:min(in.Count, len(items))] {
		out = append(out, fallbackRecord(in.Catalog, item.ID, clamp(item.Rating, 0, MaxScore),
			trendingConfidence, "trending: highly rated"))
	}
	return out
}

// diverseCategoryFallback takes the best remaining item of each category in
// turn until count items are chosen.
func diverseCategoryFallback(in FallbackInput) []Recommendation {
	byCategory := make(map[string][]Item)
	for _, id := range in.Catalog.IDs() {
		if _, seen := in.Exclude[id]; seen {
			continue
		}
		item, _ := in.Catalog.Item(id)
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}
	categories := sortedKeys(byCategory)
	for _, cat := range categories {
		sortByRating(byCategory[cat])
	}

	var out []Recommendation
	for round := 0; len(out) < in.Count; round++ {
		added := false
		for _, cat := range categories {
			if len(out) == in.Count {
				break
			}
			if round >= len(byCategory[cat]) {
				continue
			}
			item := byCategory[cat][round]
			out = append(out, fallbackRecord(in.Catalog, item.ID, clamp(item.Rating, 0, MaxScore),
				diverseConfidence, fmt.Sprintf("diverse pick from %s", displayCategory(cat))))
			added = true
		}
		if !added {
			break
		}
	}
	return out
}

// EmergencyDefault returns count placeholder records. It consults no data
// and cannot fail.
func EmergencyDefault(count int) []Recommendation {
	if count < 1 {
		count = 1
	}
	out := make([]Recommendation, count)
	for i := range out {
		out[i] = Recommendation{
			ItemID:     fmt.Sprintf("recommended_item_%d", i+1),
			Score:      emergencyScore,
			Reason:     "popular choice",
			Confidence: emergencyConfidence,
			Source:     SourceFallback,
			Action:     ActionText(SourceFallback, "", emergencyScore, emergencyConfidence),
		}
	}
	return out
}

func fallbackRecord(catalog *CatalogSnapshot, id string, score, confidence float64, reason string) Recommendation {
	category := catalog.Category(id)
	return Recommendation{
		ItemID:     id,
		Score:      score,
		Reason:     reason,
		Confidence: clamp(confidence, 0, 1),
		Source:     SourceFallback,
		Category:   category,
		Action:     ActionText(SourceFallback, category, score, confidence),
	}
}

func sortByRating(items []Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Rating != items[j].Rating {
			return items[i].Rating > items[j].Rating
		}
		return items[i].ID < items[j].ID
	})
}

func displayCategory(cat string) string {
	if cat == "" {
		return "uncategorized"
	}
	return cat
}
