// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// stopWords are dropped from the text block before term weighting.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "in": {}, "is": {}, "it": {}, "its": {}, "of": {},
	"on": {}, "or": {}, "that": {}, "the": {}, "this": {}, "to": {}, "was": {}, "were": {},
	"with": {}, "your": {}, "you": {},
}

// EmbeddingLayout records the block boundaries of every item embedding.
// Blocks are laid out as text, then numeric, then category.
type EmbeddingLayout struct {
	TextStart     int `json:"text_start"`
	NumericStart  int `json:"numeric_start"`
	CategoryStart int `json:"category_start"`
	Dim           int `json:"dim"`
}

// numericFeatures is the number of scaled numeric attributes (price, rating).
const numericFeatures = 2

// CatalogSnapshot is an immutable view of the catalog and its embeddings.
// A rebuild produces a new snapshot; existing snapshots are never modified.
type CatalogSnapshot struct {
	items        map[string]Item
	ids          []string
	embeddings   map[string][]float64
	layout       EmbeddingLayout
	categories   []string
	categoryCode map[string]int
	vocabulary   []string
}

// Item returns the stored attributes of id.
func (c *CatalogSnapshot) Item(id string) (Item, bool) {
	if c == nil {
		return Item{}, false
	}
	item, ok := c.items[id]
	return item, ok
}

// Embedding returns the derived vector of id. The slice is shared and must
// be treated as read-only.
func (c *CatalogSnapshot) Embedding(id string) ([]float64, bool) {
	if c == nil {
		return nil, false
	}
	vec, ok := c.embeddings[id]
	return vec, ok
}

// IDs returns all item IDs in lexical order. The slice must not be modified.
func (c *CatalogSnapshot) IDs() []string {
	if c == nil {
		return nil
	}
	return c.ids
}

// Len returns the number of items.
func (c *CatalogSnapshot) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}

// Categories returns the categories present at build time, sorted.
func (c *CatalogSnapshot) Categories() []string {
	if c == nil {
		return nil
	}
	return c.categories
}

// CategoryCode returns the ordinal of category, or -1 if unknown.
func (c *CatalogSnapshot) CategoryCode(category string) int {
	if c == nil {
		return -1
	}
	code, ok := c.categoryCode[category]
	if !ok {
		return -1
	}
	return code
}

// Category returns the category of id, or "" if the item is unknown.
func (c *CatalogSnapshot) Category(id string) string {
	item, _ := c.Item(id)
	return item.Category
}

// Layout returns the embedding block boundaries.
func (c *CatalogSnapshot) Layout() EmbeddingLayout {
	if c == nil {
		return EmbeddingLayout{}
	}
	return c.layout
}

// Vocabulary returns the retained text terms in column order.
func (c *CatalogSnapshot) Vocabulary() []string {
	if c == nil {
		return nil
	}
	return c.vocabulary
}

// ItemCatalog owns item records and their derived embeddings.
//
// ItemCatalog is not safe for concurrent use; the Engine serializes access.
// Readers that leave the lock hold a *CatalogSnapshot instead.
type ItemCatalog struct {
	maxFeatures int
	snapshot    *CatalogSnapshot
}

// NewItemCatalog creates an empty catalog keeping at most maxFeatures text terms.
func NewItemCatalog(maxFeatures int) *ItemCatalog {
	if maxFeatures <= 0 {
		maxFeatures = 1000
	}
	return &ItemCatalog{
		maxFeatures: maxFeatures,
		snapshot:    buildCatalogSnapshot(nil, maxFeatures),
	}
}

// Load adds items to the catalog, replacing records with the same ID, and
// rebuilds every embedding. Items with an empty ID are skipped.
func (c *ItemCatalog) Load(items []Item) {
	merged := make(map[string]Item, len(c.snapshot.items)+len(items))
	for id, item := range c.snapshot.items {
		merged[id] = item
	}
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		item.Tags = append([]string(nil), item.Tags...)
		merged[item.ID] = item
	}
	c.snapshot = buildCatalogSnapshot(merged, c.maxFeatures)
}

// Features returns the stored attributes of id.
func (c *ItemCatalog) Features(id string) (Item, bool) {
	return c.snapshot.Item(id)
}

// Embedding returns the derived vector of id.
func (c *ItemCatalog) Embedding(id string) ([]float64, bool) {
	return c.snapshot.Embedding(id)
}

// Len returns the number of catalog items.
func (c *ItemCatalog) Len() int {
	return c.snapshot.Len()
}

// Snapshot returns the current immutable catalog view.
func (c *ItemCatalog) Snapshot() *CatalogSnapshot {
	return c.snapshot
}

// buildCatalogSnapshot derives every embedding from scratch.
func buildCatalogSnapshot(items map[string]Item, maxFeatures int) *CatalogSnapshot {
	snap := &CatalogSnapshot{
		items:        items,
		embeddings:   make(map[string][]float64, len(items)),
		categoryCode: make(map[string]int),
	}
	if snap.items == nil {
		snap.items = make(map[string]Item)
	}
	snap.ids = sortedKeys(snap.items)

	docs := make([][]string, len(snap.ids))
	for i, id := range snap.ids {
		item := snap.items[id]
		docs[i] = tokenize(item.Description + " " + strings.Join(item.Tags, " "))
	}
	snap.vocabulary = buildVocabulary(docs, maxFeatures)

	catSet := make(map[string]struct{})
	for _, item := range snap.items {
		catSet[item.Category] = struct{}{}
	}
	snap.categories = sortedKeys(catSet)
	for i, cat := range snap.categories {
		snap.categoryCode[cat] = i
	}

	snap.layout = EmbeddingLayout{
		TextStart:     0,
		NumericStart:  len(snap.vocabulary),
		CategoryStart: len(snap.vocabulary) + numericFeatures,
		Dim:           len(snap.vocabulary) + numericFeatures + len(snap.categories),
	}

	text := tfidf(docs, snap.vocabulary)
	priceMean, priceStd := meanStd(snap.ids, func(id string) float64 { return snap.items[id].Price })
	ratingMean, ratingStd := meanStd(snap.ids, func(id string) float64 { return snap.items[id].Rating })

	for i, id := range snap.ids {
		item := snap.items[id]
		vec := make([]float64, snap.layout.Dim)
		copy(vec[snap.layout.TextStart:snap.layout.NumericStart], text[i])
		vec[snap.layout.NumericStart] = (item.Price - priceMean) / priceStd
		vec[snap.layout.NumericStart+1] = (item.Rating - ratingMean) / ratingStd
		vec[snap.layout.CategoryStart+snap.categoryCode[item.Category]] = 1
		snap.embeddings[id] = vec
	}

	return snap
}

// tokenize lowercases text and splits it into terms of two or more
// letters or digits, dropping stop words.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// buildVocabulary keeps the maxFeatures most frequent terms across the
// corpus, ties broken lexically, and returns them in lexical order.
func buildVocabulary(docs [][]string, maxFeatures int) []string {
	freq := make(map[string]int)
	for _, doc := range docs {
		for _, term := range doc {
			freq[term]++
		}
	}

	terms := sortedKeys(freq)
	if len(terms) > maxFeatures {
		sort.SliceStable(terms, func(i, j int) bool {
			return freq[terms[i]] > freq[terms[j]]
		})
		terms = terms[:maxFeatures]
		sort.Strings(terms)
	}
	return terms
}

// tfidf returns one L2-normalized term-weight row per document using
// smoothed inverse document frequency. Out-of-vocabulary terms are dropped.
func tfidf(docs [][]string, vocabulary []string) [][]float64 {
	column := make(map[string]int, len(vocabulary))
	for i, term := range vocabulary {
		column[term] = i
	}

	df := make([]int, len(vocabulary))
	for _, doc := range docs {
		seen := make(map[int]struct{})
		for _, term := range doc {
			if col, ok := column[term]; ok {
				if _, dup := seen[col]; !dup {
					seen[col] = struct{}{}
					df[col]++
				}
			}
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocabulary))
	for i := range vocabulary {
		idf[i] = math.Log((1+n)/(1+float64(df[i]))) + 1
	}

	rows := make([][]float64, len(docs))
	for d, doc := range docs {
		row := make([]float64, len(vocabulary))
		for _, term := range doc {
			if col, ok := column[term]; ok {
				row[col]++
			}
		}
		var norm float64
		for i := range row {
			row[i] *= idf[i]
			norm += row[i] * row[i]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for i := range row {
				row[i] /= norm
			}
		}
		rows[d] = row
	}
	return rows
}

// meanStd returns the mean and population standard deviation of f over ids.
// A zero deviation is reported as 1 so scaling never divides by zero.
func meanStd(ids []string, f func(string) float64) (float64, float64) {
	if len(ids) == 0 {
		return 0, 1
	}
	var sum float64
	for _, id := range ids {
		sum += f(id)
	}
	mean := sum / float64(len(ids))

	var variance float64
	for _, id := range ids {
		d := f(id) - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(ids)))
	if std == 0 {
		std = 1
	}
	return mean, std
}
