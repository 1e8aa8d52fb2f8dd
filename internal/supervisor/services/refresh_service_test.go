// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*RefreshService)(nil)

type fakeRefresher struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("refresh called without deadline")
	}
	return f.err
}

func TestNewRefreshServiceDefaults(t *testing.T) {
	t.Parallel()

	svc := NewRefreshService(&fakeRefresher{}, 0, zerolog.Nop())
	if svc.interval != defaultRefreshInterval {
		t.Errorf("interval = %v, want %v", svc.interval, defaultRefreshInterval)
	}
	if svc.String() != "refresh-service" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestRefreshServiceRefreshesOnStartAndTick(t *testing.T) {
	t.Parallel()

	engine := &fakeRefresher{}
	svc := NewRefreshService(engine, 20*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want deadline exceeded", err)
	}
	if got := engine.calls.Load(); got < 3 {
		t.Errorf("refresh calls = %d, want at least 3", got)
	}
}

func TestRefreshServiceSurvivesErrors(t *testing.T) {
	t.Parallel()

	engine := &fakeRefresher{err: errors.New("rebuild failed")}
	svc := NewRefreshService(engine, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want deadline exceeded", err)
	}
	if got := engine.calls.Load(); got < 2 {
		t.Errorf("refresh calls = %d, want the loop to keep going after errors", got)
	}
}
