// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wellnessrec/internal/metrics"
	"github.com/tomtom215/wellnessrec/internal/recommend"
	"github.com/tomtom215/wellnessrec/internal/recommend/storage"
)

// StateExporter is satisfied by *recommend.Engine.
type StateExporter interface {
	ExportState() recommend.State
}

// SnapshotStore is satisfied by *storage.Store.
type SnapshotStore interface {
	Save(ctx context.Context, st *recommend.State) (*storage.SnapshotMetadata, error)
	RunGC(discardRatio float64) error
}

// finalSnapshotTimeout bounds the save performed on shutdown.
const finalSnapshotTimeout = 30 * time.Second

// SnapshotService persists engine state to the snapshot store on an
// interval and once more on shutdown. A zero interval saves on shutdown only.
type SnapshotService struct {
	engine   StateExporter
	store    SnapshotStore
	interval time.Duration
	gcRatio  float64
	logger   zerolog.Logger
	name     string
}

// NewSnapshotService creates the service. gcRatio is passed to the value
// log garbage collector after every periodic save; zero disables GC.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSnapshotService(engine StateExporter, store SnapshotStore, interval time.Duration, gcRatio float64, logger zerolog.Logger) *SnapshotService {
	return &SnapshotService{
		engine:   engine,
		store:    store,
		interval: interval,
		gcRatio:  gcRatio,
		logger:   logger.With().Str("service", "snapshot").Logger(),
		name:     "snapshot-service",
	}
}

// Serve implements suture.Service.
func (s *SnapshotService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("snapshot service starting")

	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			// The serve context is canceled; the final save gets its own deadline.
			saveCtx, cancel := context.WithTimeout(context.Background(), finalSnapshotTimeout)
			s.snapshot(saveCtx)
			cancel()
			s.logger.Info().Msg("snapshot service shutting down")
			return ctx.Err()

		case <-tick:
			if s.snapshot(ctx) {
				s.collectGarbage()
			}
		}
	}
}

// snapshot saves the current state and reports whether it succeeded.
func (s *SnapshotService) snapshot(ctx context.Context) bool {
	start := time.Now()
	st := s.engine.ExportState()
	meta, err := s.store.Save(ctx, &st)

	var size int64
	if meta != nil {
		size = meta.SizeBytes
	}
	metrics.RecordSnapshot(time.Since(start), size, err)

	if err != nil {
		s.logger.Error().Err(err).Msg("snapshot save failed")
		return false
	}
	s.logger.Debug().
		Int64("version", meta.Version).
		Int("interactions", meta.Interactions).
		Int64("size_bytes", meta.SizeBytes).
		Dur("duration", time.Since(start)).
		Msg("snapshot saved")
	return true
}

func (s *SnapshotService) collectGarbage() {
	if s.gcRatio <= 0 {
		return
	}
	if err := s.store.RunGC(s.gcRatio); err != nil {
		s.logger.Warn().Err(err).Msg("snapshot value log GC failed")
	}
}

// String returns the service name for logging.
func (s *SnapshotService) String() string {
	return s.name
}
