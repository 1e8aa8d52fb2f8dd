// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wellnessrec/internal/catalogfile"
	"github.com/tomtom215/wellnessrec/internal/config"
	"github.com/tomtom215/wellnessrec/internal/metrics"
	"github.com/tomtom215/wellnessrec/internal/recommend"
	"github.com/tomtom215/wellnessrec/internal/recommend/algorithms"
	"github.com/tomtom215/wellnessrec/internal/recommend/storage"
)

// RecommendComponents holds the engine and the pieces main wires around it.
type RecommendComponents struct {
	Engine  *recommend.Engine
	Learned *algorithms.Learned
	Store   *storage.Store
}

// Close releases the snapshot store, if any.
func (c *RecommendComponents) Close() error {
	if c == nil || c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// initRecommend builds the engine, registers the scorers, restores the last
// snapshot and loads the bootstrap data.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initRecommend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*RecommendComponents, error) {
	engineCfg := buildEngineConfig(cfg)

	engine, err := recommend.NewEngine(engineCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	learned := registerScorers(engine, engineCfg, cfg, logger)
	engine.SetObserver(metrics.EngineObserver{})

	components := &RecommendComponents{Engine: engine, Learned: learned}

	if cfg.Storage.Enabled {
		store, err := storage.Open(storage.Options{
			Path:        cfg.Storage.Path,
			InMemory:    cfg.Storage.InMemory,
			SyncWrites:  cfg.Storage.SyncWrites,
			Compression: cfg.Storage.Compression,
		})
		if err != nil {
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		components.Store = store

		if err := restoreSnapshot(ctx, engine, store, logger); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	if err := loadBootstrapData(engine, cfg, logger); err != nil {
		_ = components.Close()
		return nil, err
	}

	status := engine.GetModelStatus()
	logger.Info().
		Int("scorers", len(status.Scorers)).
		Bool("heuristic", status.HeuristicEnabled).
		Int("users", status.Users).
		Int("items", status.Items).
		Int("interactions", status.Interactions).
		Msg("recommendation engine initialized")

	return components, nil
}

// buildEngineConfig maps the application config onto the engine config.
// Settings the application does not expose keep the engine defaults.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := cfg.Recommend
	out := recommend.DefaultConfig()

	out.Weights = recommend.EnsembleWeights{
		Collaborative: rc.Weights.Collaborative,
		Content:       rc.Weights.Content,
		Learned:       rc.Weights.Learned,
	}
	out.Objectives = recommend.BusinessObjectives{
		UserSatisfaction: rc.Objectives.UserSatisfaction,
		Diversity:        rc.Objectives.Diversity,
		Novelty:          rc.Objectives.Novelty,
		BusinessValue:    rc.Objectives.BusinessValue,
	}

	out.Collaborative.UserNeighbors = rc.Collaborative.UserNeighbors
	out.Collaborative.ItemNeighbors = rc.Collaborative.ItemNeighbors
	out.Collaborative.MinSimilarity = rc.Collaborative.MinSimilarity
	out.Collaborative.Factors = rc.Collaborative.Factors
	out.Collaborative.Iterations = rc.Collaborative.Iterations
	out.Collaborative.Regularization = rc.Collaborative.Regularization
	out.Collaborative.Workers = rc.Collaborative.Workers

	out.Content.MinSimilarity = rc.Content.MinSimilarity

	out.Learned = recommend.LearnedConfig{
		Enabled:         rc.Learned.Enabled,
		MinPrediction:   rc.Learned.MinPrediction,
		Ridge:           rc.Learned.Ridge,
		BreakerEnabled:  rc.Learned.BreakerEnabled,
		BreakerFailures: rc.Learned.BreakerFailures,
		BreakerTimeout:  rc.Learned.BreakerTimeout,
	}
	out.Heuristic = recommend.HeuristicConfig{
		Enabled:   rc.Heuristic.Enabled,
		Threshold: rc.Heuristic.Threshold,
	}

	out.Catalog.TFIDFMaxFeatures = rc.TFIDFMaxFeatures
	out.Limits.DefaultRecommendations = rc.DefaultCount
	out.Limits.MaxRecommendations = rc.MaxCount
	out.Limits.ScorerTimeout = rc.ScorerTimeout
	out.Limits.SlowRequestThreshold = rc.SlowRequestThreshold

	out.Cache = recommend.CacheConfig{
		Enabled: rc.CacheEnabled,
		Size:    rc.CacheSize,
		TTL:     rc.CacheTTL,
	}
	out.Feedback = recommend.FeedbackConfig{
		SequenceLimit: rc.FeedbackSequenceLimit,
		SignalLimit:   rc.FeedbackSignalLimit,
	}
	out.Seed = rc.Seed

	return out
}

// registerScorers installs the ensemble scorers and the domain scorer.
// The learned scorer is returned so its breaker can be observed; it is nil
// when disabled.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func registerScorers(engine *recommend.Engine, engineCfg *recommend.Config, cfg *config.Config, logger zerolog.Logger) *algorithms.Learned {
	engine.RegisterScorer(algorithms.NewCollaborative(engineCfg.Collaborative, engineCfg.Seed, logger))
	engine.RegisterScorer(algorithms.NewContentBased(engineCfg.Content, logger))

	var learned *algorithms.Learned
	if cfg.Recommend.Learned.Enabled {
		learned = algorithms.NewLearned(engineCfg.Learned, logger)
		learned.SetBreakerListener(metrics.SetCircuitBreakerState)
		engine.RegisterScorer(learned)
	} else {
		logger.Info().Msg("learned scorer disabled (RECOMMEND_LEARNED_ENABLED=false)")
	}

	if cfg.Recommend.Heuristic.Enabled {
		engine.SetDomainScorer(algorithms.NewHeuristic(engineCfg.Heuristic))
	}
	return learned
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func restoreSnapshot(ctx context.Context, engine *recommend.Engine, store *storage.Store, logger zerolog.Logger) error {
	st, meta, err := store.Load(ctx)
	if errors.Is(err, storage.ErrNoSnapshot) {
		logger.Info().Msg("no snapshot found, starting with empty state")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if err := engine.ImportState(st); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	logger.Info().
		Int64("version", meta.Version).
		Time("saved_at", meta.SavedAt).
		Int("interactions", meta.Interactions).
		Int("users", meta.Users).
		Msg("engine state restored from snapshot")
	return nil
}

// loadBootstrapData loads the YAML catalog or, when no file is configured
// and seeding is enabled, the synthetic dataset. Seed ratings overwrite any
// restored rating for the same pair.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func loadBootstrapData(engine *recommend.Engine, cfg *config.Config, logger zerolog.Logger) error {
	switch {
	case cfg.Catalog.Path != "":
		f, err := catalogfile.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		engine.LoadCatalog(f.Items)
		engine.RecordInteractions(f.EngineInteractions())
		logger.Info().
			Str("path", cfg.Catalog.Path).
			Int("items", len(f.Items)).
			Int("interactions", len(f.Interactions)).
			Msg("catalog loaded")

	case cfg.Catalog.SeedSample:
		items, interactions := recommend.GenerateSampleData(cfg.Recommend.Seed, cfg.Catalog.SampleUsers, cfg.Catalog.SampleItems)
		engine.LoadCatalog(items)
		engine.RecordInteractions(interactions)
		logger.Info().
			Int("items", len(items)).
			Int("interactions", len(interactions)).
			Msg("sample data seeded")

	default:
		logger.Warn().Msg("no catalog configured (set CATALOG_PATH or SEED_SAMPLE_DATA)")
	}
	return nil
}

// reloadEngineConfig re-reads the configuration and installs the settings
// that can change at runtime: weights, objectives, limits and cache TTL.
// Scorer parameters and cache size need a restart.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func reloadEngineConfig(engine *recommend.Engine, load func() (*config.Config, error), logger zerolog.Logger) error {
	cfg, err := load()
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}

	next := buildEngineConfig(cfg)
	current := engine.GetConfig()
	next.Collaborative = current.Collaborative
	next.Content = current.Content
	next.Learned = current.Learned
	next.Heuristic = current.Heuristic
	next.Cache.Size = current.Cache.Size

	if err := engine.UpdateConfig(next); err != nil {
		return err
	}
	logger.Info().Interface("weights", next.Weights.Normalize().ToMap()).Msg("engine configuration reloaded")
	return nil
}
