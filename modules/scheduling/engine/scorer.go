package engine

import (
	"math"

	"meetsync/core/constants"
	"meetsync/modules/scheduling/entity"
)

const (
	baseScoreWeight = 70.0
	dayMatchBonus   = 15
	bandMatchBonus  = 15
	mealWithinBonus = 10
	mealTouchBonus  = 5
	maxScore        = 100
)

// Canonical meal bands used for the meal-meeting bonus
var mealBands = []entity.TimeBand{
	{Label: "lunch", StartMinute: 11*60 + 30, EndMinute: 13*60 + 30},
	{Label: "dinner", StartMinute: 18 * 60, EndMinute: 20*60 + 30},
}

// Score computes the deterministic 0-100 score of a candidate slot: coverage
// base plus preference bonuses, rounded half-up and clamped. With zero total
// participants the base is defined as 0 rather than dividing by zero.
func Score(c entity.CandidateSlot, mc entity.MeetingContext) int {
	base := 0.0
	if mc.TotalParticipants > 0 {
		base = float64(c.AvailableCount) / float64(mc.TotalParticipants) * baseScoreWeight
	}
	if base > baseScoreWeight {
		base = baseScoreWeight
	}

	score := base
	if c.DayMatch {
		score += dayMatchBonus
	}
	if c.BandMatch {
		score += bandMatchBonus
	}
	score += float64(mealBonus(c, mc))

	rounded := int(math.Floor(score + 0.5))
	if rounded > maxScore {
		return maxScore
	}
	if rounded < 0 {
		return 0
	}
	return rounded
}

func mealBonus(c entity.CandidateSlot, mc entity.MeetingContext) int {
	if mc.MeetingType != constants.MeetingTypeMeal {
		return 0
	}
	for _, b := range mealBands {
		if b.CoversClock(c.Span) {
			return mealWithinBonus
		}
	}
	for _, b := range mealBands {
		if b.OverlapsClock(c.Span) {
			return mealTouchBonus
		}
	}
	return 0
}
