// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// RecommendationsRequest holds the path and query parameters of
// GET /api/v1/recommendations/{userID}. Counts outside the engine limits are
// clamped by the engine, not rejected here.
type RecommendationsRequest struct {
	UserID          string   `json:"user_id" validate:"required,max=128,printascii"`
	Count           int      `json:"count" validate:"gte=0,lte=1000"`
	Domain          string   `json:"domain" validate:"max=64"`
	TimeOfDay       string   `json:"time_of_day" validate:"max=32"`
	DeviceType      string   `json:"device_type" validate:"max=32"`
	SessionType     string   `json:"session_type" validate:"max=32"`
	AvailableTime   int      `json:"available_time" validate:"gte=0,lte=1440"`
	StressLevel     string   `json:"stress_level" validate:"omitempty,oneof=low medium high"`
	EnergyLevel     string   `json:"energy_level" validate:"omitempty,oneof=low medium high"`
	MealType        string   `json:"meal_type" validate:"max=32"`
	LifeStage       string   `json:"life_stage" validate:"max=32"`
	FinancialStress string   `json:"financial_stress" validate:"omitempty,oneof=low medium high"`
	Goals           []string `json:"goals" validate:"max=20,dive,max=64"`
	DisableLearned  bool     `json:"disable_learned"`
}

// parseRecommendationsRequest reads a RecommendationsRequest from r.
// Malformed integers are reported as -1 so that validation rejects them.
func parseRecommendationsRequest(r *http.Request) RecommendationsRequest {
	q := r.URL.Query()
	return RecommendationsRequest{
		UserID:          chi.URLParam(r, "userID"),
		Count:           getIntParam(r, "count", 0),
		Domain:          strings.TrimSpace(q.Get("domain")),
		TimeOfDay:       q.Get("time_of_day"),
		DeviceType:      q.Get("device_type"),
		SessionType:     q.Get("session_type"),
		AvailableTime:   getIntParam(r, "available_time", 0),
		StressLevel:     strings.ToLower(q.Get("stress_level")),
		EnergyLevel:     strings.ToLower(q.Get("energy_level")),
		MealType:        q.Get("meal_type"),
		LifeStage:       q.Get("life_stage"),
		FinancialStress: strings.ToLower(q.Get("financial_stress")),
		Goals:           parseCommaSeparated(q.Get("goals")),
		DisableLearned:  q.Get("disable_learned") == "true",
	}
}

// toEngineRequest converts the validated parameters to a Predict request.
// The context is omitted when every situational field is empty.
func (req RecommendationsRequest) toEngineRequest() recommend.Request {
	rctx := &recommend.RequestContext{
		TimeOfDay:       req.TimeOfDay,
		DeviceType:      req.DeviceType,
		SessionType:     req.SessionType,
		AvailableTime:   req.AvailableTime,
		StressLevel:     req.StressLevel,
		EnergyLevel:     req.EnergyLevel,
		MealType:        req.MealType,
		LifeStage:       req.LifeStage,
		FinancialStress: req.FinancialStress,
		Goals:           req.Goals,
	}
	if rctx.IsZero() && rctx.DeviceType == "" && rctx.SessionType == "" {
		rctx = nil
	}
	return recommend.Request{
		UserID:         req.UserID,
		Count:          req.Count,
		Context:        rctx,
		Domain:         req.Domain,
		DisableLearned: req.DisableLearned,
	}
}

// InteractionRequest is the body of POST /api/v1/interactions.
type InteractionRequest struct {
	UserID string  `json:"user_id" validate:"required,max=128,printascii"`
	ItemID string  `json:"item_id" validate:"required,max=128,printascii"`
	Rating float64 `json:"rating" validate:"gte=0,lte=10"`
}

// FeedbackRequest is the body of POST /api/v1/feedback.
type FeedbackRequest struct {
	UserID  string            `json:"user_id" validate:"required,max=128,printascii"`
	ItemID  string            `json:"item_id" validate:"required,max=128,printascii"`
	Kind    string            `json:"kind" validate:"required,feedback_kind"`
	Context map[string]string `json:"context" validate:"max=32"`
}

// WeightsRequest is the body of PUT /api/v1/ensemble/weights.
type WeightsRequest struct {
	Weights map[string]float64 `json:"weights" validate:"required,min=1,source_weights"`
}

// ObjectivesRequest is the body of PUT /api/v1/objectives.
type ObjectivesRequest struct {
	Objectives map[string]float64 `json:"objectives" validate:"required,min=1,max=4"`
}

// WellnessRequest is the body of PUT /api/v1/users/{userID}/wellness/{domain}.
type WellnessRequest struct {
	UserID       string             `json:"user_id" validate:"required,max=128,printascii"`
	Domain       string             `json:"domain" validate:"required,max=64,printascii"`
	Goals        []string           `json:"goals" validate:"max=20,dive,max=64"`
	Preferences  map[string]string  `json:"preferences" validate:"max=64"`
	Constraints  map[string]string  `json:"constraints" validate:"max=64"`
	Progress     map[string]float64 `json:"progress" validate:"max=64"`
	CurrentState map[string]string  `json:"current_state" validate:"max=64"`
}

// getIntParam extracts an integer query parameter with a default value.
// Unparseable values yield -1.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return -1
	}
	return intValue
}

// parseCommaSeparated parses a comma-separated string into a slice
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
