// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/wellnessrec/internal/logging"
	"github.com/tomtom215/wellnessrec/internal/recommend"
	"github.com/tomtom215/wellnessrec/internal/validation"
)

// GetRecommendations handles GET /api/v1/recommendations/{userID}.
// Predict never fails, so a valid request always gets a 200 with a list.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	req := parseRecommendationsRequest(r)
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	recs := h.engine.Predict(r.Context(), req.toEngineRequest())
	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	respondList(w, r, recs, len(recs))
}

// RecordInteraction handles POST /api/v1/interactions.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	var req InteractionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid request body", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	h.engine.RecordInteraction(req.UserID, req.ItemID, req.Rating)
	respondJSON(w, r, http.StatusCreated, map[string]string{
		"user_id": req.UserID,
		"item_id": req.ItemID,
	})
}

// RecordFeedback handles POST /api/v1/feedback.
func (h *Handler) RecordFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid request body", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	kind, _ := recommend.ParseFeedbackKind(req.Kind)
	if err := h.engine.RecordFeedback(req.UserID, req.ItemID, kind, req.Context); err != nil {
		status, code := engineErrorStatus(err)
		respondError(w, r, status, code, "Failed to record feedback", err)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]string{
		"user_id": req.UserID,
		"item_id": req.ItemID,
		"kind":    string(kind),
	})
}

// ConfigureEnsembleWeights handles PUT /api/v1/ensemble/weights.
// The response carries the normalized weights now in effect.
func (h *Handler) ConfigureEnsembleWeights(w http.ResponseWriter, r *http.Request) {
	var req WeightsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid request body", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	if err := h.engine.ConfigureEnsembleWeights(req.Weights); err != nil {
		status, code := engineErrorStatus(err)
		respondError(w, r, status, code, err.Error(), nil)
		return
	}

	weights := h.engine.GetModelStatus().Weights
	logging.Ctx(r.Context()).Info().Interface("weights", weights).Msg("Ensemble weights changed via API")
	respondJSON(w, r, http.StatusOK, map[string]interface{}{"weights": weights})
}

// ConfigureBusinessObjectives handles PUT /api/v1/objectives.
func (h *Handler) ConfigureBusinessObjectives(w http.ResponseWriter, r *http.Request) {
	var req ObjectivesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid request body", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	if err := h.engine.ConfigureBusinessObjectives(req.Objectives); err != nil {
		if errors.Is(err, recommend.ErrUnknownObjective) || errors.Is(err, recommend.ErrInvalidWeights) {
			respondError(w, r, http.StatusBadRequest, ErrCodeInvalidObjective, err.Error(), nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to update objectives", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"objectives": h.engine.GetModelStatus().Objectives,
	})
}
