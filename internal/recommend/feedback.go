// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FeedbackKind is a real-time user reaction to a recommended item.
type FeedbackKind string

// Supported feedback kinds.
const (
	FeedbackView     FeedbackKind = "view"
	FeedbackClick    FeedbackKind = "click"
	FeedbackLike     FeedbackKind = "like"
	FeedbackShare    FeedbackKind = "share"
	FeedbackPurchase FeedbackKind = "purchase"
	FeedbackSkip     FeedbackKind = "skip"
	FeedbackDislike  FeedbackKind = "dislike"
	FeedbackBlock    FeedbackKind = "block"
)

var feedbackWeights = map[FeedbackKind]float64{
	FeedbackView:     0.1,
	FeedbackClick:    0.2,
	FeedbackLike:     0.5,
	FeedbackShare:    0.7,
	FeedbackPurchase: 1.0,
	FeedbackSkip:     -0.1,
	FeedbackDislike:  -0.3,
	FeedbackBlock:    -1.0,
}

// ParseFeedbackKind normalizes s and reports whether it is a known kind.
func ParseFeedbackKind(s string) (FeedbackKind, bool) {
	kind := FeedbackKind(strings.ToLower(strings.TrimSpace(s)))
	_, ok := feedbackWeights[kind]
	return kind, ok
}

// Weight returns the signed rating delta of the kind.
func (k FeedbackKind) Weight() (float64, bool) {
	w, ok := feedbackWeights[k]
	return w, ok
}

// FeedbackEvent is one recorded feedback occurrence.
type FeedbackEvent struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	ItemID    string            `json:"item_id"`
	Kind      FeedbackKind      `json:"kind"`
	Weight    float64           `json:"weight"`
	Context   map[string]string `json:"context,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// ImplicitSignal is a passive observation such as dwell time or scroll depth.
type ImplicitSignal struct {
	Kind      string    `json:"kind"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// FeedbackLog keeps bounded per-user feedback sequences and implicit signals.
//
// FeedbackLog is not safe for concurrent use; the Engine serializes access.
type FeedbackLog struct {
	sequenceLimit int
	signalLimit   int
	sequences     map[string][]FeedbackEvent
	signals       map[string]map[string][]ImplicitSignal
}

// NewFeedbackLog creates a log with the given retention limits.
func NewFeedbackLog(sequenceLimit, signalLimit int) *FeedbackLog {
	return &FeedbackLog{
		sequenceLimit: sequenceLimit,
		signalLimit:   signalLimit,
		sequences:     make(map[string][]FeedbackEvent),
		signals:       make(map[string]map[string][]ImplicitSignal),
	}
}

// newFeedbackEvent stamps an event with a fresh ID.
func newFeedbackEvent(userID, itemID string, kind FeedbackKind, weight float64, ctx map[string]string, now time.Time) FeedbackEvent {
	var ctxCopy map[string]string
	if len(ctx) > 0 {
		ctxCopy = copyMap(ctx)
	}
	return FeedbackEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		ItemID:    itemID,
		Kind:      kind,
		Weight:    weight,
		Context:   ctxCopy,
		Timestamp: now,
	}
}

// Append adds an event, dropping the oldest beyond the sequence limit.
func (l *FeedbackLog) Append(ev FeedbackEvent) {
	seq := append(l.sequences[ev.UserID], ev)
	if len(seq) > l.sequenceLimit {
		seq = append([]FeedbackEvent(nil), seq[len(seq)-l.sequenceLimit:]...)
	}
	l.sequences[ev.UserID] = seq
}

// Sequence returns a copy of the user's events, oldest first.
func (l *FeedbackLog) Sequence(userID string) []FeedbackEvent {
	seq := l.sequences[userID]
	out := make([]FeedbackEvent, len(seq))
	copy(out, seq)
	return out
}

// AddSignal records an implicit signal, keeping the newest per kind.
func (l *FeedbackLog) AddSignal(userID string, sig ImplicitSignal) {
	kinds, ok := l.signals[userID]
	if !ok {
		kinds = make(map[string][]ImplicitSignal)
		l.signals[userID] = kinds
	}
	list := append(kinds[sig.Kind], sig)
	if len(list) > l.signalLimit {
		list = append([]ImplicitSignal(nil), list[len(list)-l.signalLimit:]...)
	}
	kinds[sig.Kind] = list
}

// Signals returns a copy of the user's signals of one kind.
func (l *FeedbackLog) Signals(userID, kind string) []ImplicitSignal {
	list := l.signals[userID][kind]
	out := make([]ImplicitSignal, len(list))
	copy(out, list)
	return out
}

// Users returns every user with a recorded sequence.
func (l *FeedbackLog) Users() []string {
	return sortedKeys(l.sequences)
}
