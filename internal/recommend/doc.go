// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

// Package recommend implements a hybrid recommendation engine for wellness
// and general catalog items.
//
// # Architecture
//
// The engine combines independent scorers and merges their output:
//
//   - Collaborative: user-based and item-based neighbourhoods plus an
//     explicit-rating matrix factorization
//   - Content: cosine similarity over TF-IDF, numeric and category embeddings
//   - Learned: a pluggable regressor over user statistics and item features
//   - Heuristic: rule-scored wellness domains (activity, nutrition, sleep,
//     mindfulness, social, financial)
//
// The scorers live in the algorithms subpackage and are registered at
// startup. This package holds the data model, the ensemble ranker, the
// fallback chain and the cache.
//
// # Request Routing
//
// A request naming a wellness domain, or carrying wellness context, is
// served by the domain scorer. Users without history go to the fallback
// chain (popularity, trending, diverse category, emergency default).
// Everyone else goes through the parallel scorer fan-out and the adaptive
// ensemble ranker.
//
// Predict never fails. A fault anywhere in the pipeline is answered with
// the emergency default list, and every answer holds between 1 and the
// requested number of records.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	engine.RegisterScorer(algorithms.NewCollaborative(cfg.Collaborative, cfg.Seed, logger))
//	engine.LoadCatalog(items)
//	engine.RecordInteraction("user_1", "item_3", 4.5)
//
//	recs := engine.Predict(ctx, recommend.Request{UserID: "user_1", Count: 10})
//
// # Thread Safety
//
// The engine is safe for concurrent use. One mutex guards all mutable state.
// Scorers run outside it on immutable matrix and catalog snapshots, so a
// slow scorer never blocks writers.
package recommend
