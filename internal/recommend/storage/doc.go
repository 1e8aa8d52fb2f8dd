// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

// Package storage persists recommendation engine state in BadgerDB.
//
// Only source-of-truth data is stored: ratings, wellness profiles, feedback
// sequences and the ensemble and objective settings. The matrix, embeddings,
// fitted models and the recommendation cache are derived and rebuilt after a
// restore.
//
// # Storage Format
//
// Each user's data lives under its own key, encoded as JSON:
//
//	ratings:{user_id}   map of item ID to rating
//	profiles:{user_id}  map of domain to wellness profile
//	feedback:{user_id}  feedback events, oldest first
//	snapshot:settings   ensemble weights and business objectives
//	snapshot:meta       SnapshotMetadata, written last
//
// The metadata record doubles as the commit marker. It carries a SHA-256
// checksum over every data key and value in key order, which Load verifies.
//
// # Usage Example
//
//	store, err := storage.Open(storage.Options{Path: "/data/snapshots"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	state := engine.ExportState()
//	meta, err := store.Save(ctx, &state)
//
//	restored, meta, err := store.Load(ctx)
//	if errors.Is(err, storage.ErrNoSnapshot) {
//	    // first start
//	}
//	err = engine.ImportState(restored)
//
// # Thread Safety
//
// Store serializes Save, Load and Metadata. A Save replaces the previous
// snapshot in full.
package storage
