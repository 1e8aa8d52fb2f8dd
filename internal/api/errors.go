// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// Error codes for API responses
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidWeights   = "INVALID_WEIGHTS"
	ErrCodeInvalidFeedback  = "INVALID_FEEDBACK"
	ErrCodeInvalidObjective = "INVALID_OBJECTIVE"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// engineErrorStatus maps engine errors to a status and error code.
func engineErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrUnknownSource), errors.Is(err, recommend.ErrInvalidWeights):
		return http.StatusBadRequest, ErrCodeInvalidWeights
	case errors.Is(err, recommend.ErrUnknownFeedback), errors.Is(err, recommend.ErrMissingItem):
		return http.StatusBadRequest, ErrCodeInvalidFeedback
	case errors.Is(err, recommend.ErrUnknownObjective):
		return http.StatusBadRequest, ErrCodeInvalidObjective
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}
