// Package engine implements the availability aggregation and time-slot
// ranking pipeline: normalize raw availability into free intervals, merge
// them into an availability matrix, enumerate candidate slots, score them,
// and select a small ranked set. Every stage is a pure function of its input;
// identical inputs produce byte-identical output.
package engine

import (
	"meetsync/modules/scheduling/entity"
)

// GenerateSuggestions runs the full pipeline for one meeting snapshot. The
// outcome distinguishes empty results: no participants, structurally
// infeasible constraints, and no slot with any availability.
func GenerateSuggestions(
	mc entity.MeetingContext,
	avails []entity.ParticipantAvailability,
) ([]entity.RankedSuggestion, entity.Outcome) {
	if mc.TotalParticipants == 0 {
		return nil, entity.OutcomeNoParticipants
	}
	if mc.DurationMinutes <= 0 || !mc.Window().IsValid() {
		return nil, entity.OutcomeInfeasible
	}

	matrix := BuildMatrix(mc.Window(), avails)

	candidates := GenerateCandidates(mc, matrix)
	if len(candidates) == 0 {
		return nil, entity.OutcomeInfeasible
	}

	viable := candidates[:0:0]
	for _, c := range candidates {
		if c.AvailableCount > 0 {
			viable = append(viable, c)
		}
	}
	if len(viable) == 0 {
		return nil, entity.OutcomeNoSlots
	}

	suggestions := SelectTop(viable, mc)
	return suggestions, entity.OutcomeOK
}
