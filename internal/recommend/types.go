// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"context"
	"strings"
	"time"
)

// SourceKind identifies which scorer produced a candidate.
// Every candidate carries one; the zero value is deliberately invalid.
type SourceKind int

const (
	// SourceUnknown marks an untagged candidate and is rejected by the ranker.
	SourceUnknown SourceKind = iota
	// SourceCollaborative is the user/item/factorization collaborative scorer.
	SourceCollaborative
	// SourceContent is the embedding-similarity content scorer.
	SourceContent
	// SourceLearned is the regressor-backed learned scorer.
	SourceLearned
	// SourceHeuristic is the rule-based wellness domain scorer.
	SourceHeuristic
	// SourceFallback is any strategy of the fallback chain.
	SourceFallback
)

// String returns the configuration key for the source.
func (s SourceKind) String() string {
	switch s {
	case SourceCollaborative:
		return "collaborative"
	case SourceContent:
		return "content"
	case SourceLearned:
		return "learned"
	case SourceHeuristic:
		return "heuristic"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Valid reports whether s is a tagged source.
func (s SourceKind) Valid() bool {
	return s >= SourceCollaborative && s <= SourceFallback
}

// MarshalText implements encoding.TextMarshaler so breakdown maps encode with readable keys.
func (s SourceKind) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSourceKind maps a configuration key to a SourceKind.
func ParseSourceKind(name string) (SourceKind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "collaborative":
		return SourceCollaborative, true
	case "content":
		return SourceContent, true
	case "learned":
		return SourceLearned, true
	case "heuristic":
		return SourceHeuristic, true
	case "fallback":
		return SourceFallback, true
	default:
		return SourceUnknown, false
	}
}

// EnsembleSources lists the sources that take part in weighted ensemble ranking.
var EnsembleSources = []SourceKind{SourceCollaborative, SourceContent, SourceLearned}

// Item is a catalog entry. Items are immutable once loaded.
type Item struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name,omitempty" yaml:"name"`
	Category    string   `json:"category" yaml:"category"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
	Price       float64  `json:"price" yaml:"price"`
	Rating      float64  `json:"rating" yaml:"rating"`
}

// Candidate is a scorer's proposal for one item before ensemble merging.
type Candidate struct {
	ItemID     string
	Score      float64
	Reason     string
	Confidence float64
	Source     SourceKind
}

// Recommendation is a single ranked record returned by Predict.
type Recommendation struct {
	ItemID        string                 `json:"item_id"`
	Score         float64                `json:"score"`
	Reason        string                 `json:"reason"`
	Confidence    float64                `json:"confidence"`
	Source        SourceKind             `json:"source"`
	Category      string                 `json:"category,omitempty"`
	Action        string                 `json:"action,omitempty"`
	Domain        string                 `json:"domain,omitempty"`
	WellnessScore *float64               `json:"wellness_score,omitempty"`
	Breakdown     map[SourceKind]float64 `json:"breakdown,omitempty"`
}

// clone returns a deep copy of r.
func (r Recommendation) clone() Recommendation {
	out := r
	if r.WellnessScore != nil {
		ws := *r.WellnessScore
		out.WellnessScore = &ws
	}
	if r.Breakdown != nil {
		out.Breakdown = make(map[SourceKind]float64, len(r.Breakdown))
		for k, v := range r.Breakdown {
			out.Breakdown[k] = v
		}
	}
	return out
}

// cloneRecommendations deep-copies a result list.
func cloneRecommendations(recs []Recommendation) []Recommendation {
	if recs == nil {
		return nil
	}
	out := make([]Recommendation, len(recs))
	for i := range recs {
		out[i] = recs[i].clone()
	}
	return out
}

// RequestContext carries the optional situational fields of a request.
// The first three take part in the cache fingerprint.
type RequestContext struct {
	TimeOfDay       string   `json:"time_of_day,omitempty"`
	DeviceType      string   `json:"device_type,omitempty"`
	SessionType     string   `json:"session_type,omitempty"`
	AvailableTime   int      `json:"available_time,omitempty"`
	StressLevel     string   `json:"stress_level,omitempty"`
	EnergyLevel     string   `json:"energy_level,omitempty"`
	MealType        string   `json:"meal_type,omitempty"`
	LifeStage       string   `json:"life_stage,omitempty"`
	FinancialStress string   `json:"financial_stress,omitempty"`
	Goals           []string `json:"goals,omitempty"`
}

// IsZero reports whether no wellness-relevant context was supplied.
func (c RequestContext) IsZero() bool {
	return c.TimeOfDay == "" && c.AvailableTime == 0 && c.StressLevel == "" &&
		c.EnergyLevel == "" && c.MealType == "" && c.LifeStage == "" &&
		c.FinancialStress == "" && len(c.Goals) == 0
}

// Request describes a single Predict call.
type Request struct {
	UserID  string
	Count   int
	Context *RequestContext
	Domain  string
	// DisableLearned turns the learned scorer off for this request only.
	DisableLearned bool
}

// ScoreInput is the immutable view a scorer works on. It is assembled under
// the engine lock and never mutated afterwards.
type ScoreInput struct {
	UserID  string
	Count   int
	History map[string]float64
	Matrix  *MatrixSnapshot
	Catalog *CatalogSnapshot
}

// Rated reports whether the requesting user already rated itemID.
func (in *ScoreInput) Rated(itemID string) bool {
	_, ok := in.History[itemID]
	return ok
}

// ScoreResult is a scorer's output. An empty Candidates slice is the normal
// answer for insufficient data; Disabled marks an unavailable source.
type ScoreResult struct {
	Candidates []Candidate
	Disabled   bool
}

// Scorer produces candidates for the general pipeline.
type Scorer interface {
	// Name returns the scorer identifier used in logs and status.
	Name() string

	// Source returns the tag attached to every candidate.
	Source() SourceKind

	// Score returns candidates for the user. Errors are reserved for
	// unexpected faults; missing data yields an empty result.
	Score(ctx context.Context, in *ScoreInput) (ScoreResult, error)
}

// Fitter is implemented by scorers holding state derived from the matrix
// or catalog. Fit runs after every matrix rebuild.
type Fitter interface {
	Fit(ctx context.Context, matrix *MatrixSnapshot, catalog *CatalogSnapshot) error
}

// StatusReporter is implemented by scorers that can report availability.
type StatusReporter interface {
	Available() bool
}

// DomainRequest is the input of the rule-based wellness scorer.
type DomainRequest struct {
	Domain  string
	Context RequestContext
	Goals   []string
	Count   int
}

// DomainScorer produces rule-scored recommendations for wellness domains.
type DomainScorer interface {
	// Domains lists the supported domain names.
	Domains() []string

	// ScoreDomain scores one domain's item table and returns at most
	// req.Count records. Unknown domains yield nil.
	ScoreDomain(req DomainRequest) []Recommendation
}

// ScorerStatus reports the state of one scorer.
type ScorerStatus struct {
	Name      string     `json:"name"`
	Source    SourceKind `json:"source"`
	Enabled   bool       `json:"enabled"`
	Available bool       `json:"available"`
}

// CacheStats summarizes the recommendation cache.
type CacheStats struct {
	Size     int     `json:"size"`
	Capacity int     `json:"capacity"`
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRate  float64 `json:"hit_rate"`
}

// PerformanceStats summarizes request handling since start.
type PerformanceStats struct {
	TotalRequests    int64   `json:"total_requests"`
	AverageLatencyMS float64 `json:"average_latency_ms"`
	CacheHitRate     float64 `json:"cache_hit_rate"`
	ErrorRate        float64 `json:"error_rate"`
	CacheSize        int     `json:"cache_size"`
}

// ModelStatus is the operator view returned by GetModelStatus.
type ModelStatus struct {
	Scorers          []ScorerStatus     `json:"scorers"`
	HeuristicEnabled bool               `json:"heuristic_enabled"`
	Weights          map[string]float64 `json:"weights"`
	Objectives       map[string]float64 `json:"objectives"`
	Users            int                `json:"users"`
	Items            int                `json:"items"`
	Interactions     int                `json:"interactions"`
	MatrixVersion    int64              `json:"matrix_version"`
	MatrixDirty      bool               `json:"matrix_dirty"`
	LastRebuildAt    time.Time          `json:"last_rebuild_at"`
	Cache            CacheStats         `json:"cache"`
	Performance      PerformanceStats   `json:"performance"`
}
