// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"fmt"
	"math/rand"
)

// SampleCategories are the categories of the synthetic dataset.
var SampleCategories = []string{"electronics", "books", "clothing", "home", "sports", "toys", "music", "food"}

var sampleTagGroups = [][]string{
	{"popular", "trending", "bestseller"},
	{"classic", "vintage", "premium"},
	{"new", "innovative", "modern"},
	{"budget-friendly", "value", "affordable"},
	{"luxury", "high-end", "exclusive"},
}

var sampleDescriptions = map[string]string{
	"electronics": "High-quality %s device with advanced features",
	"books":       "Engaging %s with compelling storyline",
	"clothing":    "Stylish %s item with premium materials",
	"home":        "Functional %s product for modern homes",
	"sports":      "Professional %s equipment for athletes",
	"toys":        "Fun %s item for creative play",
	"music":       "Amazing %s with great sound quality",
	"food":        "Delicious %s with natural ingredients",
}

// GenerateSampleData builds a deterministic synthetic dataset: items
// item_1..item_N spread round-robin over SampleCategories, and users
// user_1..user_M each rating 5-15 distinct random items.
func GenerateSampleData(seed int64, users, items int) ([]Item, []Interaction) {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic synthetic data

	catalog := make([]Item, items)
	for i := range catalog {
		category := SampleCategories[i%len(SampleCategories)]
		group := sampleTagGroups[rng.Intn(len(sampleTagGroups))]
		perm := rng.Perm(len(group))
		catalog[i] = Item{
			ID:          fmt.Sprintf("item_%d", i+1),
			Name:        fmt.Sprintf("%s item %d", category, i+1),
			Category:    category,
			Description: fmt.Sprintf(sampleDescriptions[category], category),
			Tags:        []string{group[perm[0]], group[perm[1]]},
			Price:       10 + rng.Float64()*490,
			Rating:      3 + rng.Float64()*2,
		}
	}

	var interactions []Interaction
	for u := 1; u <= users; u++ {
		n := min(5+rng.Intn(11), items)
		for _, idx := range rng.Perm(items)[:n] {
			interactions = append(interactions, Interaction{
				UserID: fmt.Sprintf("user_%d", u),
				ItemID: catalog[idx].ID,
				Rating: 1 + rng.Float64()*4,
			})
		}
	}

	return catalog, interactions
}
