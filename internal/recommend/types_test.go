// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"testing"
)

func TestSourceKind(t *testing.T) {
	tests := []struct {
		source SourceKind
		name   string
		valid  bool
	}{
		{SourceUnknown, "unknown", false},
		{SourceCollaborative, "collaborative", true},
		{SourceContent, "content", true},
		{SourceLearned, "learned", true},
		{SourceHeuristic, "heuristic", true},
		{SourceFallback, "fallback", true},
		{SourceKind(42), "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.source.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.source.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			if !tt.valid {
				return
			}
			parsed, ok := ParseSourceKind(tt.name)
			if !ok || parsed != tt.source {
				t.Errorf("ParseSourceKind(%q) = %v, %v; want %v, true", tt.name, parsed, ok, tt.source)
			}
		})
	}
}

func TestParseSourceKindRejectsUnknown(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "unknown", "xgboost", "neural"} {
		if got, ok := ParseSourceKind(name); ok {
			t.Errorf("ParseSourceKind(%q) = %v, true; want false", name, got)
		}
	}
}

func TestRequestContextIsZero(t *testing.T) {
	tests := []struct {
		name string
		ctx  RequestContext
		want bool
	}{
		{"empty", RequestContext{}, true},
		{"device only", RequestContext{DeviceType: "mobile", SessionType: "browse"}, true},
		{"time of day", RequestContext{TimeOfDay: "morning"}, false},
		{"available time", RequestContext{AvailableTime: 15}, false},
		{"stress", RequestContext{StressLevel: "high"}, false},
		{"goals", RequestContext{Goals: []string{"stress_relief"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.ctx.IsZero(); got != tt.want {
				t.Errorf("IsZero() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecommendationClone(t *testing.T) {
	t.Parallel()

	ws := 0.8
	orig := []Recommendation{{
		ItemID:        "item_1",
		Score:         4.2,
		WellnessScore: &ws,
		Breakdown:     map[SourceKind]float64{SourceContent: 3.1},
	}}

	clone := cloneRecommendations(orig)
	*clone[0].WellnessScore = 0.1
	clone[0].Breakdown[SourceContent] = 0
	clone[0].Score = 1

	if *orig[0].WellnessScore != 0.8 {
		t.Error("clone shares WellnessScore with original")
	}
	if orig[0].Breakdown[SourceContent] != 3.1 {
		t.Error("clone shares Breakdown with original")
	}
	if orig[0].Score != 4.2 {
		t.Error("clone shares Score with original")
	}

	if cloneRecommendations(nil) != nil {
		t.Error("cloneRecommendations(nil) should be nil")
	}
}

func TestScoreInputRated(t *testing.T) {
	t.Parallel()

	in := &ScoreInput{History: map[string]float64{"item_1": 4}}
	if !in.Rated("item_1") {
		t.Error("Rated(item_1) = false, want true")
	}
	if in.Rated("item_2") {
		t.Error("Rated(item_2) = true, want false")
	}
}
