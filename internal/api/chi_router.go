// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/wellnessrec/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	perfMon       *middleware.PerformanceMonitor
}

// NewRouter creates a router. perfMon may be nil.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, perfMon *middleware.PerformanceMonitor) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		perfMon:       perfMon,
	}
}

// SetupChi builds the HTTP handler.
//
// /health and /metrics sit outside rate limiting so probes and scrapes are
// never rejected.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, ErrCodeNotFound, "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		if router.perfMon != nil {
			r.Use(router.perfMon.Middleware)
		}
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Get("/recommendations/{userID}", router.handler.GetRecommendations)
		r.Post("/interactions", router.handler.RecordInteraction)
		r.Post("/feedback", router.handler.RecordFeedback)
		r.Put("/ensemble/weights", router.handler.ConfigureEnsembleWeights)
		r.Put("/objectives", router.handler.ConfigureBusinessObjectives)
		r.Get("/status", router.handler.Status)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/history", router.handler.GetHistory)
			r.Get("/wellness", router.handler.GetWellnessProfile)
			r.Put("/wellness/{domain}", router.handler.UpdateWellnessProfile)
		})
	})

	return r
}
