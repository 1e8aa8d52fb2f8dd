// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package recommend

import (
	"fmt"
	"math"
)

// ActionText builds the explanatory call to action of a ranked record from
// its dominant source and its score band.
func ActionText(source SourceKind, category string, score, confidence float64) string {
	if category == "" {
		category = "item"
	}

	switch {
	case source == SourceCollaborative && score > 4.0:
		return fmt.Sprintf("Highly recommended %s - loved by your recommendation community", category)
	case source == SourceContent:
		return fmt.Sprintf("Based on %s features you love - same style, great quality", category)
	case source == SourceLearned:
		return fmt.Sprintf("AI deep learning suggests this %s - %d%% confidence match",
			category, int(math.Round(confidence*100)))
	case score > 4.5:
		return fmt.Sprintf("Exceptional %s choice - perfect match for you", category)
	case score > 4.0:
		return fmt.Sprintf("Great %s pick - highly rated by similar users", category)
	case score > 3.5:
		return fmt.Sprintf("Good %s option - worth exploring", category)
	case confidence > 0.8:
		return fmt.Sprintf("High-confidence %s recommendation", category)
	default:
		return fmt.Sprintf("Consider this %s - might interest you", category)
	}
}
