// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator caches struct info across requests and
// reports field errors under their JSON names. Two custom tags cover the
// engine's vocabularies:
//
//   - feedback_kind: view, click, like, share, purchase, skip, dislike, block
//   - source_weights: a map keyed by collaborative, content or learned
//
// Example usage:
//
//	type feedbackRequest struct {
//	    UserID string `json:"user_id" validate:"required,max=256"`
//	    Kind   string `json:"feedback_type" validate:"required,feedback_kind"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr)
//	    return
//	}
package validation
