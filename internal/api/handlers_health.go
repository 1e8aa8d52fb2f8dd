// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/wellnessrec/internal/middleware"
	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// HealthStatus is the payload of GET /health.
type HealthStatus struct {
	Status    string  `json:"status"`
	Version   string  `json:"version,omitempty"`
	Users     int     `json:"users"`
	Items     int     `json:"items"`
	Uptime    float64 `json:"uptime_seconds"`
	CatalogOK bool    `json:"catalog_loaded"`
}

// StatusResponse is the payload of GET /api/v1/status.
type StatusResponse struct {
	Model     recommend.ModelStatus      `json:"model"`
	Endpoints []middleware.EndpointStats `json:"endpoints,omitempty"`
	Uptime    float64                    `json:"uptime_seconds"`
}

// Health handles GET /health. The service is "healthy" once a catalog is
// loaded and "degraded" before; both answer 200 because Predict still serves
// emergency defaults without data.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.engine.GetModelStatus()

	health := HealthStatus{
		Status:    "healthy",
		Version:   h.version,
		Users:     status.Users,
		Items:     status.Items,
		Uptime:    time.Since(h.startTime).Seconds(),
		CatalogOK: status.Items > 0,
	}
	if status.Items == 0 {
		health.Status = "degraded"
	}

	respondJSON(w, r, http.StatusOK, health)
}

// Status handles GET /api/v1/status: model status, engine performance and
// per-endpoint latency statistics.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Model:  h.engine.GetModelStatus(),
		Uptime: time.Since(h.startTime).Seconds(),
	}
	if h.perfMon != nil {
		resp.Endpoints = h.perfMon.Stats()
	}
	respondJSON(w, r, http.StatusOK, resp)
}
