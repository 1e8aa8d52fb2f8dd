// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"testing"
	"time"
)

func TestFingerprint(t *testing.T) {
	base := Request{UserID: "u1", Count: 10}

	tests := []struct {
		name  string
		other Request
		same  bool
	}{
		{"identical", Request{UserID: "u1", Count: 10}, true},
		{"different user", Request{UserID: "u2", Count: 10}, false},
		{"different count", Request{UserID: "u1", Count: 5}, false},
		{"different domain", Request{UserID: "u1", Count: 10, Domain: "sleep"}, false},
		{"learned disabled", Request{UserID: "u1", Count: 10, DisableLearned: true}, false},
		{"with context", Request{UserID: "u1", Count: 10, Context: &RequestContext{TimeOfDay: "morning"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Fingerprint(base) == Fingerprint(tt.other); got != tt.same {
				t.Errorf("fingerprints equal = %v, want %v", got, tt.same)
			}
		})
	}
}

func TestFingerprintNormalizesContext(t *testing.T) {
	t.Parallel()

	a := Request{UserID: "u1", Count: 3, Context: &RequestContext{
		TimeOfDay: "Morning ",
		Goals:     []string{"sleep", "Stress_Relief"},
	}}
	b := Request{UserID: "u1", Count: 3, Context: &RequestContext{
		TimeOfDay: "morning",
		Goals:     []string{"stress_relief", "sleep"},
	}}
	if Fingerprint(a) != Fingerprint(b) {
		t.Errorf("fingerprints differ:\n%s\n%s", Fingerprint(a), Fingerprint(b))
	}

	stressed := Request{UserID: "u1", Count: 3, Context: &RequestContext{TimeOfDay: "morning", StressLevel: "high"}}
	if Fingerprint(stressed) == Fingerprint(Request{UserID: "u1", Count: 3, Context: &RequestContext{TimeOfDay: "morning"}}) {
		t.Error("stress level should change the fingerprint")
	}
}

func TestFingerprintUserPrefixIsUnambiguous(t *testing.T) {
	t.Parallel()

	c := NewRecommendationCache(CacheConfig{Enabled: true, Size: 10})
	c.Put(Fingerprint(Request{UserID: "u1", Count: 1}), []Recommendation{{ItemID: "a"}})
	c.Put(Fingerprint(Request{UserID: "u1|n=1", Count: 1}), []Recommendation{{ItemID: "b"}})
	c.Put(Fingerprint(Request{UserID: "u10", Count: 1}), []Recommendation{{ItemID: "c"}})

	if removed := c.InvalidateUser("u1"); removed != 1 {
		t.Errorf("InvalidateUser(u1) removed %d entries, want 1", removed)
	}
	if _, ok := c.Get(Fingerprint(Request{UserID: "u10", Count: 1})); !ok {
		t.Error("u10 entry was invalidated with u1")
	}
}

func TestRecommendationCacheCopies(t *testing.T) {
	t.Parallel()

	c := NewRecommendationCache(CacheConfig{Enabled: true, Size: 10, TTL: time.Hour})
	recs := []Recommendation{{ItemID: "a", Score: 4}}
	c.Put("k", recs)
	recs[0].Score = 1

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("Get() missed a stored key")
	}
	if got[0].Score != 4 {
		t.Errorf("cached score = %f, want 4 (put must copy)", got[0].Score)
	}

	got[0].Score = 0
	again, _ := c.Get("k")
	if again[0].Score != 4 {
		t.Errorf("cached score = %f, want 4 (get must copy)", again[0].Score)
	}

	stats := c.Stats()
	if stats.Hits != 2 || stats.Size != 1 || stats.Capacity != 10 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.HitRate != 1 {
		t.Errorf("HitRate = %f, want 1", stats.HitRate)
	}
}

func TestRecommendationCacheDisabled(t *testing.T) {
	t.Parallel()

	c := NewRecommendationCache(CacheConfig{Enabled: false, Size: 10})
	c.Put("k", []Recommendation{{ItemID: "a"}})
	if _, ok := c.Get("k"); ok {
		t.Error("disabled cache returned an entry")
	}
	if c.Enabled() {
		t.Error("Enabled() = true, want false")
	}
}

func TestRecommendationCacheClear(t *testing.T) {
	t.Parallel()

	c := NewRecommendationCache(CacheConfig{Enabled: true, Size: 10})
	c.Put("a", []Recommendation{{ItemID: "a"}})
	c.Put("b", []Recommendation{{ItemID: "b"}})
	c.Clear()
	if c.Stats().Size != 0 {
		t.Errorf("size after Clear() = %d, want 0", c.Stats().Size)
	}
}
