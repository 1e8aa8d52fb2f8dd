// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/wellnessrec/internal/config"
	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// testConfig mirrors the built-in defaults with an in-memory store and the
// synthetic dataset.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:              "127.0.0.1",
			Port:              0,
			ReadTimeout:       5 * time.Second,
			WriteTimeout:      5 * time.Second,
			ShutdownTimeout:   time.Second,
			Environment:       "development",
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
		Logging: config.LoggingConfig{Level: "info", Format: "json"},
		Recommend: config.RecommendConfig{
			Weights:               config.WeightsConfig{Collaborative: 0.30, Content: 0.25, Learned: 0.45},
			Objectives:            config.ObjectivesConfig{UserSatisfaction: 0.6, Diversity: 0.2, Novelty: 0.1, BusinessValue: 0.1},
			CacheEnabled:          true,
			CacheSize:             1000,
			CacheTTL:              time.Hour,
			DefaultCount:          10,
			MaxCount:              50,
			ScorerTimeout:         2 * time.Second,
			SlowRequestThreshold:  2 * time.Second,
			RefreshInterval:       5 * time.Minute,
			Seed:                  42,
			TFIDFMaxFeatures:      1000,
			FeedbackSequenceLimit: 100,
			FeedbackSignalLimit:   50,
			Collaborative: config.CollaborativeAlgorithmConfig{
				UserNeighbors:  20,
				ItemNeighbors:  10,
				MinSimilarity:  0.1,
				Factors:        16,
				Iterations:     10,
				Regularization: 0.1,
				Workers:        4,
			},
			Content: config.ContentAlgorithmConfig{MinSimilarity: 0.1},
			Learned: config.LearnedAlgorithmConfig{
				Enabled:         true,
				MinPrediction:   2.0,
				Ridge:           1.0,
				BreakerFailures: 5,
				BreakerTimeout:  time.Minute,
			},
			Heuristic: config.HeuristicAlgorithmConfig{Enabled: true, Threshold: 0.3},
		},
		Storage: config.StorageConfig{
			Enabled:          true,
			InMemory:         true,
			SnapshotInterval: 10 * time.Minute,
			GCDiscardRatio:   0.5,
		},
		Catalog: config.CatalogConfig{
			SeedSample:  true,
			SampleUsers: 40,
			SampleItems: 30,
		},
	}
}

func TestBuildEngineConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Recommend.Weights = config.WeightsConfig{Collaborative: 2, Content: 1, Learned: 1}
	cfg.Recommend.MaxCount = 25
	cfg.Recommend.CacheTTL = 5 * time.Minute
	cfg.Recommend.Collaborative.Factors = 8
	cfg.Recommend.Learned.BreakerEnabled = true
	cfg.Recommend.Heuristic.Threshold = 0.4
	cfg.Recommend.Seed = 7

	got := buildEngineConfig(cfg)

	require.NoError(t, got.Validate())
	require.InDelta(t, 2.0, got.Weights.Collaborative, 1e-9)
	require.InDelta(t, 0.6, got.Objectives.UserSatisfaction, 1e-9)
	require.Equal(t, 25, got.Limits.MaxRecommendations)
	require.Equal(t, 10, got.Limits.DefaultRecommendations)
	require.Equal(t, 1, got.Limits.MinRecommendations)
	require.Equal(t, 5*time.Minute, got.Cache.TTL)
	require.Equal(t, 8, got.Collaborative.Factors)
	require.True(t, got.Learned.BreakerEnabled)
	require.Equal(t, uint32(5), got.Learned.BreakerFailures)
	require.InDelta(t, 0.4, got.Heuristic.Threshold, 1e-9)
	require.Equal(t, int64(7), got.Seed)
	require.Equal(t, 1000, got.Catalog.TFIDFMaxFeatures)
	require.Equal(t, 100, got.Feedback.SequenceLimit)
}

func TestInitRecommendWithSampleData(t *testing.T) {
	t.Parallel()

	components, err := initRecommend(context.Background(), testConfig(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, components.Close()) })

	require.NotNil(t, components.Store)
	require.NotNil(t, components.Learned)

	status := components.Engine.GetModelStatus()
	require.Len(t, status.Scorers, 3)
	require.True(t, status.HeuristicEnabled)
	require.Equal(t, 30, status.Items)
	require.Positive(t, status.Interactions)

	recs := components.Engine.Predict(context.Background(), recommend.Request{UserID: "user_1", Count: 5})
	require.Len(t, recs, 5)
}

func TestInitRecommendScorersDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Storage.Enabled = false
	cfg.Recommend.Learned.Enabled = false
	cfg.Recommend.Heuristic.Enabled = false

	components, err := initRecommend(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	require.Nil(t, components.Store)
	require.Nil(t, components.Learned)
	require.NoError(t, components.Close())

	status := components.Engine.GetModelStatus()
	require.Len(t, status.Scorers, 2)
	require.False(t, status.HeuristicEnabled)
}

func TestInitRecommendCatalogFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "items.yaml")
	doc := `
items:
  - id: yoga_basics
    category: fitness
    description: Gentle morning yoga flow
    rating: 4.6
  - id: sleep_journal
    category: sleep
    description: Nightly sleep journal
    rating: 4.2
interactions:
  - user_id: alice
    item_id: yoga_basics
    rating: 5
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg := testConfig()
	cfg.Storage.Enabled = false
	cfg.Catalog.Path = path

	components, err := initRecommend(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	status := components.Engine.GetModelStatus()
	require.Equal(t, 2, status.Items)
	require.Equal(t, 1, status.Interactions)
	require.InDelta(t, 5.0, components.Engine.History("alice")["yoga_basics"], 1e-9)
}

func TestInitRecommendBadCatalogFile(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := initRecommend(context.Background(), cfg, zerolog.Nop())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestInitRecommendRestoresSnapshot(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Storage.InMemory = false
	cfg.Storage.Path = filepath.Join(t.TempDir(), "badger")
	cfg.Catalog.SeedSample = false

	first, err := initRecommend(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	first.Engine.RecordInteraction("alice", "item_3", 4)
	state := first.Engine.ExportState()
	_, err = first.Store.Save(context.Background(), &state)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := initRecommend(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, second.Close()) })

	require.InDelta(t, 4.0, second.Engine.History("alice")["item_3"], 1e-9)
}

func TestReloadEngineConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Storage.Enabled = false
	components, err := initRecommend(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	reloaded := testConfig()
	reloaded.Recommend.Weights = config.WeightsConfig{Collaborative: 1, Content: 1, Learned: 2}
	reloaded.Recommend.MaxCount = 20
	reloaded.Recommend.CacheSize = 5
	reloaded.Recommend.Collaborative.Factors = 4

	err = reloadEngineConfig(components.Engine, func() (*config.Config, error) { return reloaded, nil }, zerolog.Nop())
	require.NoError(t, err)

	got := components.Engine.GetConfig()
	require.InDelta(t, 0.5, got.Weights.Learned, 1e-9)
	require.InDelta(t, 0.25, got.Weights.Collaborative, 1e-9)
	require.Equal(t, 20, got.Limits.MaxRecommendations)
	require.Equal(t, 1000, got.Cache.Size)
	require.Equal(t, 16, got.Collaborative.Factors)
}

func TestReloadEngineConfigErrors(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Storage.Enabled = false
	components, err := initRecommend(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	loadErr := errors.New("bad yaml")
	err = reloadEngineConfig(components.Engine, func() (*config.Config, error) { return nil, loadErr }, zerolog.Nop())
	require.ErrorIs(t, err, loadErr)

	invalid := testConfig()
	invalid.Recommend.Weights = config.WeightsConfig{}
	err = reloadEngineConfig(components.Engine, func() (*config.Config, error) { return invalid, nil }, zerolog.Nop())
	require.ErrorIs(t, err, recommend.ErrInvalidConfig)

	require.InDelta(t, 0.45, components.Engine.GetConfig().Weights.Learned, 1e-9)
}

func TestNewHTTPServer(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Storage.Enabled = false
	components, err := initRecommend(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	server := newHTTPServer(cfg, components)
	require.Equal(t, "127.0.0.1:0", server.Addr)
	require.Equal(t, cfg.Server.WriteTimeout, server.WriteTimeout)

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/user_1?count=3", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"success":true`)
}
