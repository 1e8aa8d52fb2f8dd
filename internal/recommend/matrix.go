// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"math"
	"time"
)

// MatrixSnapshot is an immutable sparse user-item rating matrix with its
// index maps. Row and column indices are only meaningful within the snapshot
// that produced them and must not be kept across a rebuild.
type MatrixSnapshot struct {
	version uint64
	builtAt time.Time

	users     []string
	items     []string
	userIndex map[string]int
	itemIndex map[string]int

	// rows[u][i] and cols[i][u] hold the same ratings.
	rows     []map[int]float64
	cols     []map[int]float64
	rowNorms []float64
	colNorms []float64
}

// buildMatrix materializes the store into a new snapshot.
func buildMatrix(store *InteractionStore, now time.Time) *MatrixSnapshot {
	m := &MatrixSnapshot{
		version:   store.Version(),
		builtAt:   now,
		userIndex: make(map[string]int),
		itemIndex: make(map[string]int),
	}

	m.users = store.Users()
	for u, id := range m.users {
		m.userIndex[id] = u
	}

	itemSet := make(map[string]struct{})
	for _, items := range store.ratings {
		for id := range items {
			itemSet[id] = struct{}{}
		}
	}
	m.items = sortedKeys(itemSet)
	for i, id := range m.items {
		m.itemIndex[id] = i
	}

	m.rows = make([]map[int]float64, len(m.users))
	m.cols = make([]map[int]float64, len(m.items))
	for i := range m.cols {
		m.cols[i] = make(map[int]float64)
	}
	for u, userID := range m.users {
		row := make(map[int]float64, len(store.ratings[userID]))
		for itemID, r := range store.ratings[userID] {
			i := m.itemIndex[itemID]
			row[i] = r
			m.cols[i][u] = r
		}
		m.rows[u] = row
	}

	m.rowNorms = make([]float64, len(m.rows))
	for u, row := range m.rows {
		m.rowNorms[u] = vectorNorm(row)
	}
	m.colNorms = make([]float64, len(m.cols))
	for i, col := range m.cols {
		m.colNorms[i] = vectorNorm(col)
	}

	return m
}

// NewMatrixSnapshot builds a standalone snapshot from raw interactions.
// Ratings are clamped and later duplicates overwrite earlier ones.
func NewMatrixSnapshot(interactions []Interaction) *MatrixSnapshot {
	store := NewInteractionStore()
	for _, in := range interactions {
		if in.UserID == "" || in.ItemID == "" {
			continue
		}
		store.Record(in.UserID, in.ItemID, in.Rating)
	}
	return buildMatrix(store, time.Now())
}

func vectorNorm(v map[int]float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Version returns the store version the snapshot was built from.
func (m *MatrixSnapshot) Version() uint64 {
	if m == nil {
		return 0
	}
	return m.version
}

// BuiltAt returns the build time.
func (m *MatrixSnapshot) BuiltAt() time.Time {
	if m == nil {
		return time.Time{}
	}
	return m.builtAt
}

// UserCount returns the number of rows.
func (m *MatrixSnapshot) UserCount() int {
	if m == nil {
		return 0
	}
	return len(m.users)
}

// ItemCount returns the number of columns.
func (m *MatrixSnapshot) ItemCount() int {
	if m == nil {
		return 0
	}
	return len(m.items)
}

// UserIndex returns the row of userID.
func (m *MatrixSnapshot) UserIndex(userID string) (int, bool) {
	if m == nil {
		return 0, false
	}
	u, ok := m.userIndex[userID]
	return u, ok
}

// ItemIndex returns the column of itemID.
func (m *MatrixSnapshot) ItemIndex(itemID string) (int, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.itemIndex[itemID]
	return i, ok
}

// UserID returns the user of row u.
func (m *MatrixSnapshot) UserID(u int) string {
	return m.users[u]
}

// ItemID returns the item of column i.
func (m *MatrixSnapshot) ItemID(i int) string {
	return m.items[i]
}

// Row returns the ratings of row u keyed by column. Read-only.
func (m *MatrixSnapshot) Row(u int) map[int]float64 {
	return m.rows[u]
}

// Col returns the ratings of column i keyed by row. Read-only.
func (m *MatrixSnapshot) Col(i int) map[int]float64 {
	return m.cols[i]
}

// RowNorm returns the L2 norm of row u.
func (m *MatrixSnapshot) RowNorm(u int) float64 {
	return m.rowNorms[u]
}

// ColNorm returns the L2 norm of column i.
func (m *MatrixSnapshot) ColNorm(i int) float64 {
	return m.colNorms[i]
}

// current reports whether the snapshot reflects every write in store.
func (m *MatrixSnapshot) current(store *InteractionStore) bool {
	return m != nil && m.version == store.Version()
}
