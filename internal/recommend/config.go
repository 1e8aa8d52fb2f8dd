// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines the base trust given to each ensemble source.
	// Weights are normalized when applied, so they don't need to sum to 1.0.
	Weights EnsembleWeights `json:"weights"`

	// Objectives holds the business objective mix reported to operators.
	// The diversity share also widens or narrows the per-category cap.
	Objectives BusinessObjectives `json:"objectives"`

	// Collaborative contains neighbourhood and factorization parameters.
	Collaborative CollaborativeConfig `json:"collaborative"`

	// Content contains content-similarity parameters.
	Content ContentConfig `json:"content"`

	// Learned contains learned-scorer parameters.
	Learned LearnedConfig `json:"learned"`

	// Heuristic contains wellness domain scoring parameters.
	Heuristic HeuristicConfig `json:"heuristic"`

	// Catalog contains embedding build parameters.
	Catalog CatalogConfig `json:"catalog"`

	// Limits contains request bounds and deadlines.
	Limits LimitsConfig `json:"limits"`

	// Cache contains recommendation cache parameters.
	Cache CacheConfig `json:"cache"`

	// Feedback contains history retention limits.
	Feedback FeedbackConfig `json:"feedback"`

	// Seed is the random seed used by factorization initialization.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// EnsembleWeights defines the base weight of each ensemble source.
type EnsembleWeights struct {
	Collaborative float64 `json:"collaborative"`
	Content       float64 `json:"content"`
	Learned       float64 `json:"learned"`
}

// Sum returns the total of all weights.
func (w EnsembleWeights) Sum() float64 {
	return w.Collaborative + w.Content + w.Learned
}

// Normalize returns a copy with weights normalized to sum to 1.0.
// All-zero weights normalize to equal shares.
func (w EnsembleWeights) Normalize() EnsembleWeights {
	sum := w.Sum()
	if sum <= 0 {
		const equal = 1.0 / 3.0
		return EnsembleWeights{Collaborative: equal, Content: equal, Learned: equal}
	}
	return EnsembleWeights{
		Collaborative: w.Collaborative / sum,
		Content:       w.Content / sum,
		Learned:       w.Learned / sum,
	}
}

// For returns the weight of a source. Sources outside the ensemble get 0.
func (w EnsembleWeights) For(s SourceKind) float64 {
	switch s {
	case SourceCollaborative:
		return w.Collaborative
	case SourceContent:
		return w.Content
	case SourceLearned:
		return w.Learned
	default:
		return 0
	}
}

// ToMap returns the weights keyed by source name.
func (w EnsembleWeights) ToMap() map[string]float64 {
	return map[string]float64{
		SourceCollaborative.String(): w.Collaborative,
		SourceContent.String():       w.Content,
		SourceLearned.String():       w.Learned,
	}
}

// ParseEnsembleWeights validates a source-keyed weight map and returns the
// normalized weights. Missing keys are treated as zero.
func ParseEnsembleWeights(weights map[string]float64) (EnsembleWeights, error) {
	var w EnsembleWeights
	for key, value := range weights {
		source, ok := ParseSourceKind(key)
		if !ok || !isEnsembleSource(source) {
			return EnsembleWeights{}, fmt.Errorf("%w: %q", ErrUnknownSource, key)
		}
		if value < 0 {
			return EnsembleWeights{}, fmt.Errorf("%w: %s is negative (%f)", ErrInvalidWeights, key, value)
		}
		switch source {
		case SourceCollaborative:
			w.Collaborative = value
		case SourceContent:
			w.Content = value
		case SourceLearned:
			w.Learned = value
		}
	}
	if w.Sum() <= 0 {
		return EnsembleWeights{}, fmt.Errorf("%w: total weight must be positive", ErrInvalidWeights)
	}
	return w.Normalize(), nil
}

func isEnsembleSource(s SourceKind) bool {
	for _, es := range EnsembleSources {
		if es == s {
			return true
		}
	}
	return false
}

// BusinessObjectives weights the goals an operator optimizes for.
type BusinessObjectives struct {
	UserSatisfaction float64 `json:"user_satisfaction"`
	Diversity        float64 `json:"diversity"`
	Novelty          float64 `json:"novelty"`
	BusinessValue    float64 `json:"business_value"`
}

// ToMap returns the objectives keyed by name.
func (o BusinessObjectives) ToMap() map[string]float64 {
	return map[string]float64{
		"user_satisfaction": o.UserSatisfaction,
		"diversity":         o.Diversity,
		"novelty":           o.Novelty,
		"business_value":    o.BusinessValue,
	}
}

// ParseBusinessObjectives validates and normalizes an objective map. Keys not
// supplied keep the value from base.
func ParseBusinessObjectives(base BusinessObjectives, objectives map[string]float64) (BusinessObjectives, error) {
	o := base
	for key, value := range objectives {
		if value < 0 {
			return BusinessObjectives{}, fmt.Errorf("%w: %s is negative (%f)", ErrInvalidWeights, key, value)
		}
		switch strings.ToLower(key) {
		case "user_satisfaction":
			o.UserSatisfaction = value
		case "diversity":
			o.Diversity = value
		case "novelty":
			o.Novelty = value
		case "business_value":
			o.BusinessValue = value
		default:
			return BusinessObjectives{}, fmt.Errorf("%w: %q", ErrUnknownObjective, key)
		}
	}
	sum := o.UserSatisfaction + o.Diversity + o.Novelty + o.BusinessValue
	if sum <= 0 {
		return BusinessObjectives{}, fmt.Errorf("%w: total objective weight must be positive", ErrInvalidWeights)
	}
	o.UserSatisfaction /= sum
	o.Diversity /= sum
	o.Novelty /= sum
	o.BusinessValue /= sum
	return o, nil
}

// CollaborativeConfig contains parameters for the collaborative scorer.
type CollaborativeConfig struct {
	// UserNeighbors is the number of similar users considered.
	// Default: 20.
	UserNeighbors int `json:"user_neighbors"`

	// ItemNeighbors is the number of similar items considered per rated item.
	// Default: 10.
	ItemNeighbors int `json:"item_neighbors"`

	// MinSimilarity drops neighbours below this cosine similarity.
	// Default: 0.1.
	MinSimilarity float64 `json:"min_similarity"`

	// FactorizationMinUsers and FactorizationMinItems gate the factorization:
	// it only runs when both counts are strictly greater.
	// Default: 10 and 10.
	FactorizationMinUsers int `json:"factorization_min_users"`
	FactorizationMinItems int `json:"factorization_min_items"`

	// Factors is the latent dimension of the factorization.
	// Default: 16.
	Factors int `json:"factors"`

	// Iterations is the number of alternating least squares sweeps.
	// Default: 10.
	Iterations int `json:"iterations"`

	// Regularization is the L2 penalty of the factorization.
	// Default: 0.1.
	Regularization float64 `json:"regularization"`

	// Workers is the parallelism of neighbour and factor computation.
	// Default: 4.
	Workers int `json:"workers"`
}

// ContentConfig contains parameters for the content scorer.
type ContentConfig struct {
	// MinSimilarity keeps only items strictly above this cosine similarity.
	// Default: 0.1.
	MinSimilarity float64 `json:"min_similarity"`
}

// LearnedConfig contains parameters for the learned scorer.
type LearnedConfig struct {
	// Enabled registers the learned scorer with the ensemble.
	// Default: true.
	Enabled bool `json:"enabled"`

	// MinPrediction drops predictions at or below this value.
	// Default: 2.0.
	MinPrediction float64 `json:"min_prediction"`

	// Ridge is the L2 penalty of the default linear regressor.
	// Default: 1.0.
	Ridge float64 `json:"ridge"`

	// BreakerEnabled wraps the regressor in a circuit breaker that skips
	// the learned source after repeated failures.
	// Default: false.
	BreakerEnabled bool `json:"breaker_enabled"`

	// BreakerFailures is the consecutive failure count that opens the breaker.
	// Default: 5.
	BreakerFailures uint32 `json:"breaker_failures"`

	// BreakerTimeout is how long the breaker stays open.
	// Default: 1m.
	BreakerTimeout time.Duration `json:"breaker_timeout"`
}

// HeuristicConfig contains parameters for wellness domain scoring.
type HeuristicConfig struct {
	// Enabled routes domain and context requests to the domain scorer.
	// Default: true.
	Enabled bool `json:"enabled"`

	// Threshold keeps only items scoring strictly above it.
	// Default: 0.3.
	Threshold float64 `json:"threshold"`
}

// CatalogConfig contains embedding build parameters.
type CatalogConfig struct {
	// TFIDFMaxFeatures caps the text vocabulary.
	// Default: 1000.
	TFIDFMaxFeatures int `json:"tfidf_max_features"`
}

// LimitsConfig contains request bounds and deadlines.
type LimitsConfig struct {
	// MinRecommendations is the smallest count a request is clamped to.
	// Default: 1.
	MinRecommendations int `json:"min_recommendations"`

	// DefaultRecommendations is used when a request gives no count.
	// Default: 10.
	DefaultRecommendations int `json:"default_recommendations"`

	// MaxRecommendations is the largest count a request is clamped to.
	// Default: 50.
	MaxRecommendations int `json:"max_recommendations"`

	// ScorerTimeout is the soft deadline for the scorer fan-out.
	// Scorers still running past it are skipped. Zero disables the deadline.
	// Default: 2s.
	ScorerTimeout time.Duration `json:"scorer_timeout"`

	// SlowRequestThreshold logs a warning for slower predictions.
	// Default: 2s.
	SlowRequestThreshold time.Duration `json:"slow_request_threshold"`
}

// CacheConfig contains recommendation cache parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled"`

	// Size is the maximum number of cached responses.
	// Default: 1000.
	Size int `json:"size"`

	// TTL is the entry time-to-live. Zero keeps entries until evicted.
	// Default: 1h.
	TTL time.Duration `json:"ttl"`
}

// FeedbackConfig contains history retention limits.
type FeedbackConfig struct {
	// SequenceLimit caps the per-user feedback sequence.
	// Default: 100.
	SequenceLimit int `json:"sequence_limit"`

	// SignalLimit caps the per-user, per-kind implicit signal history.
	// Default: 50.
	SignalLimit int `json:"signal_limit"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: EnsembleWeights{
			Collaborative: 0.30,
			Content:       0.25,
			Learned:       0.45,
		},
		Objectives: BusinessObjectives{
			UserSatisfaction: 0.6,
			Diversity:        0.2,
			Novelty:          0.1,
			BusinessValue:    0.1,
		},
		Collaborative: CollaborativeConfig{
			UserNeighbors:         20,
			ItemNeighbors:         10,
			MinSimilarity:         0.1,
			FactorizationMinUsers: 10,
			FactorizationMinItems: 10,
			Factors:               16,
			Iterations:            10,
			Regularization:        0.1,
			Workers:               4,
		},
		Content: ContentConfig{
			MinSimilarity: 0.1,
		},
		Learned: LearnedConfig{
			Enabled:         true,
			MinPrediction:   2.0,
			Ridge:           1.0,
			BreakerEnabled:  false,
			BreakerFailures: 5,
			BreakerTimeout:  time.Minute,
		},
		Heuristic: HeuristicConfig{
			Enabled:   true,
			Threshold: 0.3,
		},
		Catalog: CatalogConfig{
			TFIDFMaxFeatures: 1000,
		},
		Limits: LimitsConfig{
			MinRecommendations:     1,
			DefaultRecommendations: 10,
			MaxRecommendations:     50,
			ScorerTimeout:          2 * time.Second,
			SlowRequestThreshold:   2 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    1000,
			TTL:     time.Hour,
		},
		Feedback: FeedbackConfig{
			SequenceLimit: 100,
			SignalLimit:   50,
		},
		Seed: 42,
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Weights.Collaborative < 0 || c.Weights.Content < 0 || c.Weights.Learned < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", c.Weights)
	}
	if c.Weights.Sum() <= 0 {
		return fmt.Errorf("weights must sum to a positive value")
	}

	if c.Collaborative.UserNeighbors < 1 {
		return fmt.Errorf("collaborative.user_neighbors must be positive, got %d", c.Collaborative.UserNeighbors)
	}
	if c.Collaborative.ItemNeighbors < 1 {
		return fmt.Errorf("collaborative.item_neighbors must be positive, got %d", c.Collaborative.ItemNeighbors)
	}
	if c.Collaborative.MinSimilarity < 0 || c.Collaborative.MinSimilarity > 1 {
		return fmt.Errorf("collaborative.min_similarity must be in [0, 1], got %f", c.Collaborative.MinSimilarity)
	}
	if c.Collaborative.Factors < 1 {
		return fmt.Errorf("collaborative.factors must be positive, got %d", c.Collaborative.Factors)
	}
	if c.Collaborative.Iterations < 1 {
		return fmt.Errorf("collaborative.iterations must be positive, got %d", c.Collaborative.Iterations)
	}
	if c.Collaborative.Regularization < 0 {
		return fmt.Errorf("collaborative.regularization must be non-negative, got %f", c.Collaborative.Regularization)
	}

	if c.Content.MinSimilarity < 0 || c.Content.MinSimilarity > 1 {
		return fmt.Errorf("content.min_similarity must be in [0, 1], got %f", c.Content.MinSimilarity)
	}

	if c.Learned.MinPrediction < 0 || c.Learned.MinPrediction > MaxScore {
		return fmt.Errorf("learned.min_prediction must be in [0, %g], got %f", MaxScore, c.Learned.MinPrediction)
	}
	if c.Learned.Ridge < 0 {
		return fmt.Errorf("learned.ridge must be non-negative, got %f", c.Learned.Ridge)
	}
	if c.Learned.BreakerEnabled && c.Learned.BreakerFailures == 0 {
		return fmt.Errorf("learned.breaker_failures must be positive when the breaker is enabled")
	}

	if c.Heuristic.Threshold < 0 || c.Heuristic.Threshold >= 1 {
		return fmt.Errorf("heuristic.threshold must be in [0, 1), got %f", c.Heuristic.Threshold)
	}

	if c.Catalog.TFIDFMaxFeatures < 1 {
		return fmt.Errorf("catalog.tfidf_max_features must be positive, got %d", c.Catalog.TFIDFMaxFeatures)
	}

	if c.Limits.MinRecommendations < 1 {
		return fmt.Errorf("limits.min_recommendations must be positive, got %d", c.Limits.MinRecommendations)
	}
	if c.Limits.MaxRecommendations < c.Limits.MinRecommendations {
		return fmt.Errorf("limits.max_recommendations must be >= limits.min_recommendations, got %d < %d",
			c.Limits.MaxRecommendations, c.Limits.MinRecommendations)
	}
	if c.Limits.DefaultRecommendations < c.Limits.MinRecommendations ||
		c.Limits.DefaultRecommendations > c.Limits.MaxRecommendations {
		return fmt.Errorf("limits.default_recommendations must be within [%d, %d], got %d",
			c.Limits.MinRecommendations, c.Limits.MaxRecommendations, c.Limits.DefaultRecommendations)
	}
	if c.Limits.ScorerTimeout < 0 {
		return fmt.Errorf("limits.scorer_timeout must be non-negative, got %v", c.Limits.ScorerTimeout)
	}

	if c.Cache.Enabled && c.Cache.Size < 1 {
		return fmt.Errorf("cache.size must be positive when caching is enabled, got %d", c.Cache.Size)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be non-negative, got %v", c.Cache.TTL)
	}

	if c.Feedback.SequenceLimit < 1 {
		return fmt.Errorf("feedback.sequence_limit must be positive, got %d", c.Feedback.SequenceLimit)
	}
	if c.Feedback.SignalLimit < 1 {
		return fmt.Errorf("feedback.signal_limit must be positive, got %d", c.Feedback.SignalLimit)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Every nested struct holds value types only.
	clone := *c
	return &clone
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
