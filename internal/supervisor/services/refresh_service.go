// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher rebuilds derived model state ahead of requests.
// Satisfied by *recommend.Engine.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// defaultRefreshInterval applies when the configured interval is not positive.
const defaultRefreshInterval = 5 * time.Minute

// RefreshService periodically rebuilds the interaction matrix, the
// factorization and the learned model so that Predict rarely pays for a
// rebuild. A refresh with nothing dirty is a no-op inside the engine.
type RefreshService struct {
	engine   Refresher
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
	name     string
}

// NewRefreshService creates the service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRefreshService(engine Refresher, interval time.Duration, logger zerolog.Logger) *RefreshService {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &RefreshService{
		engine:   engine,
		interval: interval,
		timeout:  interval,
		logger:   logger.With().Str("service", "refresh").Logger(),
		name:     "refresh-service",
	}
}

// Serve implements suture.Service. It refreshes once on start and then on
// every tick. Refresh errors are logged and retried on the next tick rather
// than returned, so a bad rebuild never restarts the loop.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("refresh service starting")

	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *RefreshService) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.engine.Refresh(refreshCtx); err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("model refresh failed")
		}
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("model refresh complete")
}

// String returns the service name for logging.
func (s *RefreshService) String() string {
	return s.name
}
