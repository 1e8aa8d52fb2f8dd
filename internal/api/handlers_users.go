// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/wellnessrec/internal/recommend"
	"github.com/tomtom215/wellnessrec/internal/validation"
)

// userPath validates the {userID} path parameter.
type userPath struct {
	UserID string `json:"user_id" validate:"required,max=128,printascii"`
}

// GetHistory handles GET /api/v1/users/{userID}/history.
// Unknown users get an empty map.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	p := userPath{UserID: chi.URLParam(r, "userID")}
	if verr := validation.ValidateStruct(&p); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	history := h.engine.History(p.UserID)
	respondList(w, r, history, len(history))
}

// GetWellnessProfile handles GET /api/v1/users/{userID}/wellness.
func (h *Handler) GetWellnessProfile(w http.ResponseWriter, r *http.Request) {
	p := userPath{UserID: chi.URLParam(r, "userID")}
	if verr := validation.ValidateStruct(&p); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	profiles := h.engine.WellnessProfile(p.UserID)
	if profiles == nil {
		profiles = map[string]recommend.WellnessProfile{}
	}
	respondJSON(w, r, http.StatusOK, profiles)
}

// UpdateWellnessProfile handles PUT /api/v1/users/{userID}/wellness/{domain}.
// The body is merged into the stored profile for that domain.
func (h *Handler) UpdateWellnessProfile(w http.ResponseWriter, r *http.Request) {
	var req WellnessRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid request body", err)
		return
	}
	req.UserID = chi.URLParam(r, "userID")
	req.Domain = strings.ToLower(strings.TrimSpace(chi.URLParam(r, "domain")))
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	profile := h.engine.UpdateWellnessProfile(req.UserID, req.Domain, recommend.WellnessUpdate{
		Goals:        req.Goals,
		Preferences:  req.Preferences,
		Constraints:  req.Constraints,
		Progress:     req.Progress,
		CurrentState: req.CurrentState,
	})
	respondJSON(w, r, http.StatusOK, profile)
}
