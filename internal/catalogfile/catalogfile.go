// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

// Package catalogfile loads item catalogs, and optional seed ratings, from
// YAML files.
//
//	items:
//	  - id: yoga_basics
//	    name: Yoga Basics
//	    category: fitness
//	    description: Gentle morning yoga flow
//	    tags: [beginner, flexibility]
//	    price: 12
//	    rating: 4.6
//	interactions:
//	  - user_id: alice
//	    item_id: yoga_basics
//	    rating: 5
package catalogfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// ErrEmptyCatalog is returned when a file defines no items.
var ErrEmptyCatalog = errors.New("catalog defines no items")

// File is the decoded catalog document.
type File struct {
	Items        []recommend.Item  `yaml:"items"`
	Interactions []InteractionSeed `yaml:"interactions"`
}

// InteractionSeed is one seed rating.
type InteractionSeed struct {
	UserID string  `yaml:"user_id"`
	ItemID string  `yaml:"item_id"`
	Rating float64 `yaml:"rating"`
}

// Load reads and validates the catalog at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a catalog document. Unknown keys are rejected
// so that misspelled fields do not silently drop data.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	if len(f.Items) == 0 {
		return ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(f.Items))
	for i := range f.Items {
		item := &f.Items[i]
		item.ID = strings.TrimSpace(item.ID)
		if item.ID == "" {
			return fmt.Errorf("item %d: id is required", i)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("item %d: duplicate id %q", i, item.ID)
		}
		seen[item.ID] = struct{}{}
		if item.Price < 0 {
			return fmt.Errorf("item %q: price must be non-negative", item.ID)
		}
	}

	for i, in := range f.Interactions {
		if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.ItemID) == "" {
			return fmt.Errorf("interaction %d: user_id and item_id are required", i)
		}
		if _, ok := seen[strings.TrimSpace(in.ItemID)]; !ok {
			return fmt.Errorf("interaction %d: unknown item %q", i, in.ItemID)
		}
	}
	return nil
}

// EngineInteractions converts the seed ratings for Engine.RecordInteractions.
func (f *File) EngineInteractions() []recommend.Interaction {
	out := make([]recommend.Interaction, len(f.Interactions))
	for i, in := range f.Interactions {
		out[i] = recommend.Interaction{
			UserID: strings.TrimSpace(in.UserID),
			ItemID: strings.TrimSpace(in.ItemID),
			Rating: in.Rating,
		}
	}
	return out
}
