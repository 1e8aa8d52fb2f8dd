// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import "sort"

// Rating and score bounds.
const (
	MinRating = 1.0
	MaxRating = 5.0
	MaxScore  = 5.0
)

// ClampRating bounds r to [MinRating, MaxRating].
func ClampRating(r float64) float64 {
	return clamp(r, MinRating, MaxRating)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Interaction is a single stored (user, item, rating) triple.
type Interaction struct {
	UserID string  `json:"user_id"`
	ItemID string  `json:"item_id"`
	Rating float64 `json:"rating"`
}

// ItemPopularity aggregates the ratings an item received.
type ItemPopularity struct {
	Count int
	Sum   float64
}

// Mean returns the average rating, or 0 without ratings.
func (p ItemPopularity) Mean() float64 {
	if p.Count == 0 {
		return 0
	}
	return p.Sum / float64(p.Count)
}

// InteractionStore owns per-user item ratings. It is the source of truth for
// collaborative filtering and profile building.
//
// InteractionStore is not safe for concurrent use; the Engine serializes access.
type InteractionStore struct {
	ratings map[string]map[string]float64
	total   int
	// version increases on every write and marks derived matrices stale.
	version uint64
}

// NewInteractionStore creates an empty store.
func NewInteractionStore() *InteractionStore {
	return &InteractionStore{
		ratings: make(map[string]map[string]float64),
	}
}

// Record stores or overwrites the rating of (userID, itemID), clamped to
// [MinRating, MaxRating], and returns the stored value.
func (s *InteractionStore) Record(userID, itemID string, rating float64) float64 {
	rating = ClampRating(rating)

	items, ok := s.ratings[userID]
	if !ok {
		items = make(map[string]float64)
		s.ratings[userID] = items
	}
	if _, exists := items[itemID]; !exists {
		s.total++
	}
	items[itemID] = rating
	s.version++

	return rating
}

// Rating returns the stored rating of (userID, itemID).
func (s *InteractionStore) Rating(userID, itemID string) (float64, bool) {
	r, ok := s.ratings[userID][itemID]
	return r, ok
}

// History returns a copy of the user's item -> rating map. Unknown users
// get an empty map.
func (s *InteractionStore) History(userID string) map[string]float64 {
	items := s.ratings[userID]
	out := make(map[string]float64, len(items))
	for id, r := range items {
		out[id] = r
	}
	return out
}

// HasHistory reports whether the user rated at least one item.
func (s *InteractionStore) HasHistory(userID string) bool {
	return len(s.ratings[userID]) > 0
}

// Users returns all user IDs in lexical order.
func (s *InteractionStore) Users() []string {
	return sortedKeys(s.ratings)
}

// UserCount returns the number of users with at least one rating.
func (s *InteractionStore) UserCount() int {
	return len(s.ratings)
}

// Len returns the number of stored interactions.
func (s *InteractionStore) Len() int {
	return s.total
}

// Version returns the write counter.
func (s *InteractionStore) Version() uint64 {
	return s.version
}

// Popularity aggregates rating counts and sums per item.
func (s *InteractionStore) Popularity() map[string]ItemPopularity {
	out := make(map[string]ItemPopularity)
	for _, items := range s.ratings {
		for id, r := range items {
			p := out[id]
			p.Count++
			p.Sum += r
			out[id] = p
		}
	}
	return out
}

// All returns every interaction ordered by user then item.
func (s *InteractionStore) All() []Interaction {
	out := make([]Interaction, 0, s.total)
	for _, user := range s.Users() {
		items := s.ratings[user]
		ids := make([]string, 0, len(items))
		for id := range items {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			out = append(out, Interaction{UserID: user, ItemID: id, Rating: items[id]})
		}
	}
	return out
}
