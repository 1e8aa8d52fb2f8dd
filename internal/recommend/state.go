// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

// State is the persistable part of the engine. Derived data (the matrix,
// embeddings, fitted models and the cache) is rebuilt after a restore.
type State struct {
	Interactions []Interaction                         `json:"interactions"`
	Profiles     map[string]map[string]WellnessProfile `json:"profiles"`
	Feedback     map[string][]FeedbackEvent            `json:"feedback"`
	Weights      EnsembleWeights                       `json:"weights"`
	Objectives   BusinessObjectives                    `json:"objectives"`
}

// ExportState returns a deep copy of the persistable state.
func (e *Engine) ExportState() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := State{
		Interactions: e.store.All(),
		Profiles:     make(map[string]map[string]WellnessProfile),
		Feedback:     make(map[string][]FeedbackEvent),
		Weights:      e.config.Weights,
		Objectives:   e.config.Objectives,
	}
	for _, user := range e.profiles.Users() {
		st.Profiles[user] = e.profiles.Get(user)
	}
	for _, user := range e.feedback.Users() {
		st.Feedback[user] = e.feedback.Sequence(user)
	}
	return st
}

// ImportState merges a previously exported state into the engine.
// Stored interactions overwrite existing ones for the same pair.
func (e *Engine) ImportState(st *State) error {
	var weights *EnsembleWeights
	if st.Weights.Sum() > 0 {
		w, err := ParseEnsembleWeights(st.Weights.ToMap())
		if err != nil {
			return err
		}
		weights = &w
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, in := range st.Interactions {
		if in.UserID == "" || in.ItemID == "" {
			continue
		}
		e.store.Record(in.UserID, in.ItemID, in.Rating)
	}
	for user, profiles := range st.Profiles {
		e.profiles.Restore(user, profiles)
	}
	for _, events := range st.Feedback {
		for _, ev := range events {
			e.feedback.Append(ev)
		}
	}

	cfg := e.config.Clone()
	if weights != nil {
		cfg.Weights = *weights
	}
	if objectives, err := ParseBusinessObjectives(cfg.Objectives, st.Objectives.ToMap()); err == nil {
		cfg.Objectives = objectives
	}
	e.config = cfg
	e.invalidateAllLocked()

	e.logger.Info().
		Int("interactions", len(st.Interactions)).
		Int("profiles", len(st.Profiles)).
		Msg("engine state restored")
	return nil
}
