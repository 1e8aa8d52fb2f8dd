// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"fmt"
	"testing"
	"time"
)

func TestParseFeedbackKind(t *testing.T) {
	tests := []struct {
		in     string
		want   FeedbackKind
		weight float64
		ok     bool
	}{
		{"view", FeedbackView, 0.1, true},
		{"click", FeedbackClick, 0.2, true},
		{"Like", FeedbackLike, 0.5, true},
		{"share", FeedbackShare, 0.7, true},
		{" purchase ", FeedbackPurchase, 1.0, true},
		{"skip", FeedbackSkip, -0.1, true},
		{"dislike", FeedbackDislike, -0.3, true},
		{"block", FeedbackBlock, -1.0, true},
		{"bookmark", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			kind, ok := ParseFeedbackKind(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseFeedbackKind(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if !ok {
				return
			}
			if kind != tt.want {
				t.Errorf("kind = %q, want %q", kind, tt.want)
			}
			if w, _ := kind.Weight(); w != tt.weight {
				t.Errorf("Weight() = %f, want %f", w, tt.weight)
			}
		})
	}
}

func TestFeedbackLogSequenceLimit(t *testing.T) {
	t.Parallel()

	log := NewFeedbackLog(100, 50)
	now := time.Unix(0, 0)
	for i := 0; i < 130; i++ {
		log.Append(newFeedbackEvent("u1", fmt.Sprintf("item_%d", i), FeedbackView, 0.1, nil, now))
	}

	seq := log.Sequence("u1")
	if len(seq) != 100 {
		t.Fatalf("len(Sequence) = %d, want 100", len(seq))
	}
	if seq[0].ItemID != "item_30" || seq[99].ItemID != "item_129" {
		t.Errorf("sequence spans %s..%s, want item_30..item_129", seq[0].ItemID, seq[99].ItemID)
	}
	if seq[0].ID == "" || seq[0].ID == seq[1].ID {
		t.Error("events should carry unique IDs")
	}
}

func TestFeedbackEventCopiesContext(t *testing.T) {
	t.Parallel()

	ctx := map[string]string{"page": "home"}
	ev := newFeedbackEvent("u1", "a", FeedbackClick, 0.2, ctx, time.Now())
	ctx["page"] = "search"
	if ev.Context["page"] != "home" {
		t.Error("event context aliases the caller's map")
	}
}

func TestFeedbackLogSignals(t *testing.T) {
	t.Parallel()

	log := NewFeedbackLog(100, 50)
	for i := 0; i < 60; i++ {
		log.AddSignal("u1", ImplicitSignal{Kind: "dwell_time", Value: float64(i)})
	}
	log.AddSignal("u1", ImplicitSignal{Kind: "scroll_depth", Value: 0.5})

	dwell := log.Signals("u1", "dwell_time")
	if len(dwell) != 50 {
		t.Fatalf("len(dwell) = %d, want 50", len(dwell))
	}
	if dwell[0].Value != 10 || dwell[49].Value != 59 {
		t.Errorf("dwell spans %v..%v, want 10..59", dwell[0].Value, dwell[49].Value)
	}
	if len(log.Signals("u1", "scroll_depth")) != 1 {
		t.Error("signal kinds should be kept separately")
	}
	if len(log.Signals("nobody", "dwell_time")) != 0 {
		t.Error("unknown user should have no signals")
	}
}

func TestProfileStoreMerge(t *testing.T) {
	t.Parallel()

	s := NewProfileStore()
	now := time.Unix(100, 0)

	s.Merge("u1", "Sleep", WellnessUpdate{
		Goals:       []string{"better_sleep"},
		Preferences: map[string]string{"bedtime": "22:00"},
	}, now)
	p := s.Merge("u1", "sleep", WellnessUpdate{
		Preferences: map[string]string{"wake": "06:30"},
		Progress:    map[string]float64{"streak": 3},
	}, now.Add(time.Hour))

	if len(p.Goals) != 1 || p.Goals[0] != "better_sleep" {
		t.Errorf("goals = %v, want unchanged [better_sleep]", p.Goals)
	}
	if p.Preferences["bedtime"] != "22:00" || p.Preferences["wake"] != "06:30" {
		t.Errorf("preferences = %v, want both keys", p.Preferences)
	}
	if p.Progress["streak"] != 3 {
		t.Errorf("progress = %v", p.Progress)
	}
	if !p.UpdatedAt.Equal(now.Add(time.Hour)) {
		t.Errorf("UpdatedAt = %v", p.UpdatedAt)
	}

	s.Merge("u1", "activity", WellnessUpdate{Goals: []string{"weight_loss"}}, now)
	all := s.Get("u1")
	if len(all) != 2 {
		t.Fatalf("domains = %d, want 2", len(all))
	}
	if got := s.Goals("u1", "ACTIVITY"); len(got) != 1 || got[0] != "weight_loss" {
		t.Errorf("Goals(activity) = %v", got)
	}

	all["sleep"].Preferences["bedtime"] = "mutated"
	if s.Get("u1")["sleep"].Preferences["bedtime"] != "22:00" {
		t.Error("Get() returned shared state")
	}
}

func TestProfileStoreEmptyUser(t *testing.T) {
	t.Parallel()

	s := NewProfileStore()
	if got := s.Get("nobody"); len(got) != 0 {
		t.Errorf("Get(nobody) = %v, want empty", got)
	}
	if got := s.Goals("nobody", "sleep"); got != nil {
		t.Errorf("Goals(nobody) = %v, want nil", got)
	}
}

func TestGenerateSampleData(t *testing.T) {
	t.Parallel()

	items, interactions := GenerateSampleData(42, 100, 50)
	if len(items) != 50 {
		t.Fatalf("len(items) = %d, want 50", len(items))
	}

	perUser := make(map[string]map[string]bool)
	for _, in := range interactions {
		if in.Rating < MinRating || in.Rating > MaxRating {
			t.Errorf("rating %f outside [1, 5]", in.Rating)
		}
		if perUser[in.UserID] == nil {
			perUser[in.UserID] = make(map[string]bool)
		}
		if perUser[in.UserID][in.ItemID] {
			t.Errorf("%s rated %s twice", in.UserID, in.ItemID)
		}
		perUser[in.UserID][in.ItemID] = true
	}
	if len(perUser) != 100 {
		t.Errorf("users = %d, want 100", len(perUser))
	}
	for user, rated := range perUser {
		if len(rated) < 5 || len(rated) > 15 {
			t.Errorf("%s rated %d items, want 5..15", user, len(rated))
		}
	}

	again, _ := GenerateSampleData(42, 100, 50)
	for i := range items {
		if items[i].ID != again[i].ID || items[i].Price != again[i].Price {
			t.Fatal("same seed produced different items")
		}
	}
}
