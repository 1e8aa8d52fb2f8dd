// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wellnessrec/internal/middleware"
	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// Engine is the subset of *recommend.Engine the handlers call.
type Engine interface {
	Predict(ctx context.Context, req recommend.Request) []recommend.Recommendation
	RecordInteraction(userID, itemID string, rating float64)
	RecordFeedback(userID, itemID string, kind recommend.FeedbackKind, fctx map[string]string) error
	ConfigureEnsembleWeights(weights map[string]float64) error
	ConfigureBusinessObjectives(objectives map[string]float64) error
	GetModelStatus() recommend.ModelStatus
	History(userID string) map[string]float64
	WellnessProfile(userID string) map[string]recommend.WellnessProfile
	UpdateWellnessProfile(userID, domain string, update recommend.WellnessUpdate) recommend.WellnessProfile
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor and body decoding
//   - handlers_recommend.go: prediction, interaction, feedback and tuning
//   - handlers_users.go: history and wellness profiles
//   - handlers_health.go: health and status
type Handler struct {
	engine    Engine
	perfMon   *middleware.PerformanceMonitor
	version   string
	startTime time.Time
}

// NewHandler creates a handler over engine. perfMon may be nil, in which
// case the status endpoint omits endpoint statistics.
func NewHandler(engine Engine, perfMon *middleware.PerformanceMonitor, version string) *Handler {
	return &Handler{
		engine:    engine,
		perfMon:   perfMon,
		version:   version,
		startTime: time.Now(),
	}
}

// decodeJSON decodes a size-limited JSON body into dst. Unknown fields and
// trailing data are rejected.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
