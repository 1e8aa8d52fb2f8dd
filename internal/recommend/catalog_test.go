// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"math"
	"reflect"
	"testing"
)

func testItems() []Item {
	return []Item{
		{ID: "yoga_mat", Category: "sports", Description: "Premium yoga mat for home practice", Tags: []string{"yoga", "premium"}, Price: 40, Rating: 4.5},
		{ID: "dumbbells", Category: "sports", Description: "Adjustable dumbbells for strength training", Tags: []string{"strength"}, Price: 120, Rating: 4.0},
		{ID: "sleep_book", Category: "books", Description: "A practical guide to better sleep", Tags: []string{"sleep"}, Price: 15, Rating: 3.5},
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"lowercases and splits", "Yoga MAT, premium!", []string{"yoga", "mat", "premium"}},
		{"drops stop words", "the mat for the home", []string{"mat", "home"}},
		{"drops single characters", "a b cd 7 42", []string{"cd", "42"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tokenize(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildVocabularyCapsFeatures(t *testing.T) {
	t.Parallel()

	docs := [][]string{
		{"yoga", "yoga", "mat"},
		{"yoga", "sleep"},
		{"zen"},
	}
	got := buildVocabulary(docs, 2)
	// yoga (3) is kept; mat, sleep and zen tie at 1 and the lexical first wins.
	want := []string{"mat", "yoga"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildVocabulary() = %v, want %v", got, want)
	}
}

func TestCatalogEmbeddingLayout(t *testing.T) {
	t.Parallel()

	c := NewItemCatalog(1000)
	c.Load(testItems())
	snap := c.Snapshot()
	layout := snap.Layout()

	vocab := snap.Vocabulary()
	if layout.TextStart != 0 || layout.NumericStart != len(vocab) {
		t.Errorf("text block = [%d, %d), want [0, %d)", layout.TextStart, layout.NumericStart, len(vocab))
	}
	if layout.CategoryStart != layout.NumericStart+2 {
		t.Errorf("CategoryStart = %d, want %d", layout.CategoryStart, layout.NumericStart+2)
	}
	if layout.Dim != layout.CategoryStart+2 {
		t.Errorf("Dim = %d, want %d (two categories)", layout.Dim, layout.CategoryStart+2)
	}

	for _, id := range snap.IDs() {
		vec, ok := c.Embedding(id)
		if !ok {
			t.Fatalf("Embedding(%q) missing", id)
		}
		if len(vec) != layout.Dim {
			t.Errorf("len(Embedding(%q)) = %d, want %d", id, len(vec), layout.Dim)
		}

		var textNorm float64
		for _, x := range vec[layout.TextStart:layout.NumericStart] {
			textNorm += x * x
		}
		if math.Abs(math.Sqrt(textNorm)-1) > 1e-9 {
			t.Errorf("text block of %q has norm %f, want 1", id, math.Sqrt(textNorm))
		}

		ones := 0
		for _, x := range vec[layout.CategoryStart:] {
			if x == 1 {
				ones++
			}
		}
		if ones != 1 {
			t.Errorf("category block of %q has %d ones, want 1", id, ones)
		}
	}

	// books sorts before sports.
	if snap.CategoryCode("books") != 0 || snap.CategoryCode("sports") != 1 {
		t.Errorf("category codes = %d/%d, want 0/1", snap.CategoryCode("books"), snap.CategoryCode("sports"))
	}
	if snap.CategoryCode("toys") != -1 {
		t.Error("unknown category should have code -1")
	}
}

func TestCatalogNumericScaling(t *testing.T) {
	t.Parallel()

	c := NewItemCatalog(1000)
	c.Load(testItems())
	snap := c.Snapshot()
	layout := snap.Layout()

	var priceSum, priceSq float64
	for _, id := range snap.IDs() {
		vec, _ := snap.Embedding(id)
		p := vec[layout.NumericStart]
		priceSum += p
		priceSq += p * p
	}
	n := float64(snap.Len())
	if math.Abs(priceSum/n) > 1e-9 {
		t.Errorf("scaled price mean = %f, want 0", priceSum/n)
	}
	if math.Abs(priceSq/n-1) > 1e-9 {
		t.Errorf("scaled price variance = %f, want 1", priceSq/n)
	}
}

func TestCatalogConstantNumericColumn(t *testing.T) {
	t.Parallel()

	c := NewItemCatalog(1000)
	c.Load([]Item{
		{ID: "a", Category: "x", Description: "alpha", Price: 10, Rating: 4},
		{ID: "b", Category: "x", Description: "beta", Price: 10, Rating: 4},
	})
	vec, _ := c.Embedding("a")
	layout := c.Snapshot().Layout()
	if vec[layout.NumericStart] != 0 || vec[layout.NumericStart+1] != 0 {
		t.Errorf("constant columns should scale to 0, got %v", vec[layout.NumericStart:layout.CategoryStart])
	}
}

func TestCatalogLoadMergesAndRebuilds(t *testing.T) {
	t.Parallel()

	c := NewItemCatalog(1000)
	c.Load(testItems())
	before := c.Snapshot()
	oldDim := before.Layout().Dim

	c.Load([]Item{
		{ID: "", Category: "ignored"},
		{ID: "meditation_app", Category: "apps", Description: "Guided meditation sessions", Price: 5, Rating: 4.8},
	})

	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
	after := c.Snapshot()
	if after.Layout().Dim <= oldDim {
		t.Errorf("Dim = %d, want > %d after adding a category and terms", after.Layout().Dim, oldDim)
	}
	if vec, _ := after.Embedding("yoga_mat"); len(vec) != after.Layout().Dim {
		t.Error("existing items were not re-embedded")
	}
	if vec, _ := before.Embedding("yoga_mat"); len(vec) != oldDim {
		t.Error("old snapshot was mutated by Load")
	}
	if item, ok := c.Features("meditation_app"); !ok || item.Category != "apps" {
		t.Errorf("Features(meditation_app) = %+v, %v", item, ok)
	}
}

func TestNilCatalogSnapshot(t *testing.T) {
	t.Parallel()

	var snap *CatalogSnapshot
	if snap.Len() != 0 || snap.IDs() != nil || snap.Category("x") != "" {
		t.Error("nil snapshot should behave as empty")
	}
	if _, ok := snap.Embedding("x"); ok {
		t.Error("nil snapshot should not resolve embeddings")
	}
}
