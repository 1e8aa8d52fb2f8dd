// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import "errors"

var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid recommend config")

	// ErrUnknownSource is returned when a weight key names no ensemble source.
	ErrUnknownSource = errors.New("unknown recommendation source")

	// ErrInvalidWeights is returned when weights are negative or sum to zero.
	ErrInvalidWeights = errors.New("invalid ensemble weights")

	// ErrUnknownFeedback is returned for feedback kinds outside the weight table.
	ErrUnknownFeedback = errors.New("unknown feedback kind")

	// ErrMissingItem is returned when feedback names no item.
	ErrMissingItem = errors.New("feedback requires an item id")

	// ErrUntaggedCandidate is raised when a candidate reaches the ranker without a source.
	ErrUntaggedCandidate = errors.New("candidate has no source tag")

	// ErrModelUnavailable is returned by learned scorers whose regressor cannot predict.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrUnknownObjective is returned when a business objective key is not recognized.
	ErrUnknownObjective = errors.New("unknown business objective")
)
