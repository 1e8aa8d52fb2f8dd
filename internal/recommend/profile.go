// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"strings"
	"time"
)

// WellnessProfile holds one user's state for one wellness domain.
type WellnessProfile struct {
	Goals        []string           `json:"goals"`
	Preferences  map[string]string  `json:"preferences"`
	Constraints  map[string]string  `json:"constraints"`
	Progress     map[string]float64 `json:"progress"`
	CurrentState map[string]string  `json:"current_state"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// WellnessUpdate is a partial profile. A nil Goals slice leaves goals
// unchanged; map fields are merged key by key.
type WellnessUpdate struct {
	Goals        []string           `json:"goals,omitempty"`
	Preferences  map[string]string  `json:"preferences,omitempty"`
	Constraints  map[string]string  `json:"constraints,omitempty"`
	Progress     map[string]float64 `json:"progress,omitempty"`
	CurrentState map[string]string  `json:"current_state,omitempty"`
}

func newWellnessProfile() *WellnessProfile {
	return &WellnessProfile{
		Goals:        []string{},
		Preferences:  make(map[string]string),
		Constraints:  make(map[string]string),
		Progress:     make(map[string]float64),
		CurrentState: make(map[string]string),
	}
}

func (p *WellnessProfile) clone() WellnessProfile {
	return WellnessProfile{
		Goals:        append([]string{}, p.Goals...),
		Preferences:  copyMap(p.Preferences),
		Constraints:  copyMap(p.Constraints),
		Progress:     copyMap(p.Progress),
		CurrentState: copyMap(p.CurrentState),
		UpdatedAt:    p.UpdatedAt,
	}
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func mergeInto[V any](dst, src map[string]V) {
	for k, v := range src {
		dst[k] = v
	}
}

// ProfileStore keeps wellness profiles per user and per domain.
// Profiles are created lazily on first write.
//
// ProfileStore is not safe for concurrent use; the Engine serializes access.
type ProfileStore struct {
	profiles map[string]map[string]*WellnessProfile
}

// NewProfileStore creates an empty store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]map[string]*WellnessProfile)}
}

// Merge applies update to the (userID, domain) profile and returns the result.
func (s *ProfileStore) Merge(userID, domain string, update WellnessUpdate, now time.Time) WellnessProfile {
	domain = strings.ToLower(strings.TrimSpace(domain))

	domains, ok := s.profiles[userID]
	if !ok {
		domains = make(map[string]*WellnessProfile)
		s.profiles[userID] = domains
	}
	p, ok := domains[domain]
	if !ok {
		p = newWellnessProfile()
		domains[domain] = p
	}

	if update.Goals != nil {
		p.Goals = append([]string{}, update.Goals...)
	}
	mergeInto(p.Preferences, update.Preferences)
	mergeInto(p.Constraints, update.Constraints)
	mergeInto(p.Progress, update.Progress)
	mergeInto(p.CurrentState, update.CurrentState)
	p.UpdatedAt = now

	return p.clone()
}

// Get returns a copy of every domain profile of userID.
func (s *ProfileStore) Get(userID string) map[string]WellnessProfile {
	out := make(map[string]WellnessProfile, len(s.profiles[userID]))
	for domain, p := range s.profiles[userID] {
		out[domain] = p.clone()
	}
	return out
}

// Goals returns the stored goals of (userID, domain).
func (s *ProfileStore) Goals(userID, domain string) []string {
	p, ok := s.profiles[userID][strings.ToLower(domain)]
	if !ok {
		return nil
	}
	return append([]string{}, p.Goals...)
}

// Restore replaces the profiles of userID.
func (s *ProfileStore) Restore(userID string, profiles map[string]WellnessProfile) {
	domains := make(map[string]*WellnessProfile, len(profiles))
	for domain, p := range profiles {
		cp := p.clone()
		if cp.Goals == nil {
			cp.Goals = []string{}
		}
		domains[domain] = &cp
	}
	s.profiles[userID] = domains
}

// Users returns the users holding at least one profile.
func (s *ProfileStore) Users() []string {
	return sortedKeys(s.profiles)
}
