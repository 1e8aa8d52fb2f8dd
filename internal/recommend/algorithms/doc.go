// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

// Package algorithms implements the scorers registered with the hybrid
// wellness recommendation engine.
//
// Each general-pipeline scorer implements recommend.Scorer and produces
// source-tagged candidates for the ensemble ranker. Scorers that derive
// state from the rating matrix or catalog also implement recommend.Fitter
// and are refitted after every matrix rebuild.
//
// # Scorers
//
// Collaborative (SourceCollaborative):
//   - User-based: cosine similarity between user rows, top-K neighbours
//   - Item-based: cosine similarity between item columns, top-K per rated item
//   - ALS: explicit-rating matrix factorization, only above a size minimum
//
// The three methods are merged with weights 0.40/0.35/0.25; a method that
// has nothing to say contributes nothing.
//
// ContentBased (SourceContent):
//   - Rating-weighted mean of the rated items' embeddings, compared with
//     every unrated catalog item by cosine similarity
//
// Learned (SourceLearned):
//   - A Regressor over user rating statistics and item attributes; the
//     default is a ridge model fitted on the interaction data
//   - Optional gobreaker circuit breaker around prediction
//
// Heuristic (recommend.DomainScorer):
//   - Fixed item tables for activity, nutrition, sleep, mindfulness,
//     social and financial wellness scored by additive context rules
//
// # Usage Example
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	engine.RegisterScorer(algorithms.NewCollaborative(cfg.Collaborative, cfg.Seed, logger))
//	engine.RegisterScorer(algorithms.NewContentBased(cfg.Content, logger))
//	engine.RegisterScorer(algorithms.NewLearned(cfg.Learned, logger))
//	engine.SetDomainScorer(algorithms.NewHeuristic(cfg.Heuristic))
//
// # Thread Safety
//
// All scorers are safe for concurrent use. Fit acquires an exclusive lock
// while Score uses a shared lock, and every Score call works on the
// immutable snapshots in its recommend.ScoreInput.
//
// # Performance Considerations
//
// Neighbour similarities are computed per request from the sparse matrix,
// touching only users and items that share ratings with the requester.
// ALS costs O(iterations × (users + items) × factors³) per fit and runs
// on the configured number of workers.
package algorithms
