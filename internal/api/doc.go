// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

/*
Package api provides the HTTP REST API layer for WellnessRec.

Key Components:

  - Router: chi route configuration and middleware stack
  - Handler: request handlers over the recommendation engine
  - Response formatting: the APIResponse envelope with success, data,
    error and metadata
  - ChiMiddleware: go-chi/cors and go-chi/httprate factories

Endpoints:

	GET  /health
	GET  /metrics
	GET  /api/v1/recommendations/{userID}?count=&domain=&time_of_day=...
	POST /api/v1/interactions
	POST /api/v1/feedback
	PUT  /api/v1/ensemble/weights
	PUT  /api/v1/objectives
	GET  /api/v1/status
	GET  /api/v1/users/{userID}/history
	GET  /api/v1/users/{userID}/wellness
	PUT  /api/v1/users/{userID}/wellness/{domain}

Request parameters and bodies are validated with go-playground/validator
through the validation package; failures answer 400 with code
VALIDATION_ERROR and per-field details.

Usage Example:

	handler := api.NewHandler(engine, perfMon, version)
	router := api.NewRouter(handler, api.NewChiMiddleware(&api.ChiMiddlewareConfig{
	    CORSAllowedOrigins: cfg.Server.CORSOrigins,
	    RateLimitRequests:  cfg.Server.RateLimitReqs,
	    RateLimitWindow:    cfg.Server.RateLimitWindow,
	}), perfMon)
	srv := &http.Server{Addr: ":8080", Handler: router.SetupChi()}
*/
package api
