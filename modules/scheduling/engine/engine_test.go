package engine

import (
	"reflect"
	"testing"
	"time"

	"meetsync/core/constants"
	"meetsync/modules/scheduling/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

var afternoon = entity.TimeBand{Label: "afternoon", StartMinute: 13 * 60, EndMinute: 16 * 60}

// singleTuesdayContext is the worked scenario: 3 participants, 90 minutes,
// window is one Tuesday, preferred weekdays, preferred afternoon band.
func singleTuesdayContext() entity.MeetingContext {
	return entity.MeetingContext{
		MeetingID:          uuid.New(),
		MeetingType:        constants.MeetingTypeGeneral,
		DurationMinutes:    90,
		WindowStart:        day,
		WindowEnd:          day.AddDate(0, 0, 1),
		PreferredDays:      weekdays,
		PreferredBands:     []entity.TimeBand{afternoon},
		WorkingBounds:      workingBounds,
		GranularityMinutes: 30,
		SuggestionCount:    3,
		TotalParticipants:  3,
	}
}

func threeParticipants() []entity.ParticipantAvailability {
	return []entity.ParticipantAvailability{
		{ParticipantID: uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001"), Free: []entity.Interval{iv(12, 0, 15, 0)}},
		{ParticipantID: uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002"), Free: []entity.Interval{iv(13, 30, 17, 0)}},
		{ParticipantID: uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000003"), Free: []entity.Interval{iv(9, 0, 14, 0)}},
	}
}

func TestGenerateSuggestions_WorkedScenario(t *testing.T) {
	mc := singleTuesdayContext()

	suggestions, outcome := GenerateSuggestions(mc, threeParticipants())
	require.Equal(t, entity.OutcomeOK, outcome)
	require.Len(t, suggestions, 3)

	// no 90-minute span holds all three, so the winner is the largest
	// 2-of-3 overlap inside the preferred band: 13:30-15:00
	top := suggestions[0]
	assert.Equal(t, iv(13, 30, 15, 0), top.Slot.Span)
	assert.Equal(t, 2, top.Slot.AvailableCount)
	assert.Equal(t, 77, top.Score) // (2/3)*70 + 15 + 15, rounded half-up
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, "2 of 3 participants available; matches preferred day; matches preferred afternoon slot", top.Rationale)

	// second best grazes the band without belonging to it
	second := suggestions[1]
	assert.Equal(t, iv(12, 0, 13, 30), second.Slot.Span)
	assert.Equal(t, 2, second.Slot.AvailableCount)
	assert.Equal(t, 62, second.Score)
	assert.Equal(t, 2, second.Rank)

	// 12:30-14:00 ties the second at 62 within one granularity step and is
	// collapsed, so rank 3 falls to a single-participant band slot
	third := suggestions[2]
	assert.Equal(t, iv(13, 0, 14, 30), third.Slot.Span)
	assert.Equal(t, 1, third.Slot.AvailableCount)
	assert.Equal(t, 53, third.Score)
	assert.Equal(t, 3, third.Rank)
}

func TestGenerateSuggestions_NoParticipants(t *testing.T) {
	mc := singleTuesdayContext()
	mc.TotalParticipants = 0

	suggestions, outcome := GenerateSuggestions(mc, nil)
	assert.Empty(t, suggestions)
	assert.Equal(t, entity.OutcomeNoParticipants, outcome)
}

func TestGenerateSuggestions_InfeasibleConstraints(t *testing.T) {
	t.Run("duration exceeds working bounds", func(t *testing.T) {
		mc := singleTuesdayContext()
		mc.DurationMinutes = 120
		mc.WorkingBounds = entity.WorkingBounds{StartMinute: 9 * 60, EndMinute: 10 * 60}

		suggestions, outcome := GenerateSuggestions(mc, threeParticipants())
		assert.Empty(t, suggestions)
		assert.Equal(t, entity.OutcomeInfeasible, outcome)
	})

	t.Run("non-positive duration", func(t *testing.T) {
		mc := singleTuesdayContext()
		mc.DurationMinutes = 0

		suggestions, outcome := GenerateSuggestions(mc, threeParticipants())
		assert.Empty(t, suggestions)
		assert.Equal(t, entity.OutcomeInfeasible, outcome)
	})

	t.Run("inverted window", func(t *testing.T) {
		mc := singleTuesdayContext()
		mc.WindowStart, mc.WindowEnd = mc.WindowEnd, mc.WindowStart

		suggestions, outcome := GenerateSuggestions(mc, threeParticipants())
		assert.Empty(t, suggestions)
		assert.Equal(t, entity.OutcomeInfeasible, outcome)
	})
}

func TestGenerateSuggestions_NoSlotsWhenNobodyIsFree(t *testing.T) {
	mc := singleTuesdayContext()

	avails := []entity.ParticipantAvailability{
		{ParticipantID: uuid.New()},
		{ParticipantID: uuid.New()},
		{ParticipantID: uuid.New()},
	}

	suggestions, outcome := GenerateSuggestions(mc, avails)
	assert.Empty(t, suggestions)
	assert.Equal(t, entity.OutcomeNoSlots, outcome)
}

func TestGenerateSuggestions_Deterministic(t *testing.T) {
	mc := singleTuesdayContext()

	first, outcome1 := GenerateSuggestions(mc, threeParticipants())
	second, outcome2 := GenerateSuggestions(mc, threeParticipants())

	assert.Equal(t, outcome1, outcome2)
	assert.True(t, reflect.DeepEqual(first, second))
}

func TestGenerateSuggestions_Properties(t *testing.T) {
	mc := singleTuesdayContext()
	mc.SuggestionCount = 10

	suggestions, outcome := GenerateSuggestions(mc, threeParticipants())
	require.Equal(t, entity.OutcomeOK, outcome)
	require.NotEmpty(t, suggestions)

	wantDuration := time.Duration(mc.DurationMinutes) * time.Minute
	for i, s := range suggestions {
		assert.Equal(t, wantDuration, s.Slot.Span.Duration(), "duration fidelity")
		assert.GreaterOrEqual(t, s.Score, 0, "score lower bound")
		assert.LessOrEqual(t, s.Score, 100, "score upper bound")
		assert.Equal(t, i+1, s.Rank, "ranks are 1-based and dense")
		if i > 0 {
			assert.GreaterOrEqual(t, suggestions[i-1].Score, s.Score, "monotonic ranking")
		}
	}
}

func TestGenerateSuggestions_FallbackWhenPreferencesFilterEverything(t *testing.T) {
	mc := singleTuesdayContext()
	// the window holds only a Tuesday, so preferring Saturday kills the
	// preferred pass entirely
	mc.PreferredDays = []time.Weekday{time.Saturday}

	suggestions, outcome := GenerateSuggestions(mc, threeParticipants())
	require.Equal(t, entity.OutcomeOK, outcome)
	require.NotEmpty(t, suggestions)

	for _, s := range suggestions {
		assert.False(t, s.Slot.Preferred)
		assert.Contains(t, s.Rationale, "outside preferred times")
	}
}

func TestGenerateSuggestions_MealBonus(t *testing.T) {
	mc := singleTuesdayContext()
	mc.MeetingType = constants.MeetingTypeMeal
	mc.DurationMinutes = 60
	mc.PreferredBands = nil

	avails := []entity.ParticipantAvailability{
		{ParticipantID: uuid.New(), Free: []entity.Interval{iv(8, 0, 22, 0)}},
		{ParticipantID: uuid.New(), Free: []entity.Interval{iv(8, 0, 22, 0)}},
		{ParticipantID: uuid.New(), Free: []entity.Interval{iv(8, 0, 22, 0)}},
	}

	suggestions, outcome := GenerateSuggestions(mc, avails)
	require.Equal(t, entity.OutcomeOK, outcome)
	require.NotEmpty(t, suggestions)

	// everyone is free everywhere, so a canonical meal-time slot must win
	top := suggestions[0].Slot.Span
	inLunch := top.MinutesOfDayStart() >= 11*60+30 && top.MinutesOfDayEnd() <= 13*60+30
	inDinner := top.MinutesOfDayStart() >= 18*60 && top.MinutesOfDayEnd() <= 20*60+30
	assert.True(t, inLunch || inDinner, "top slot %v is not a meal slot", top)
	assert.Equal(t, 95, suggestions[0].Score) // 70 + 15 day + 10 meal
}

func TestScore_ZeroParticipantsDegeneratesToZeroBase(t *testing.T) {
	mc := singleTuesdayContext()
	mc.TotalParticipants = 0

	score := Score(entity.CandidateSlot{
		Span:           iv(13, 30, 15, 0),
		AvailableCount: 0,
		DayMatch:       true,
		BandMatch:      true,
	}, mc)
	assert.Equal(t, 30, score)
}

func TestScore_CappedAtHundred(t *testing.T) {
	mc := singleTuesdayContext()
	mc.MeetingType = constants.MeetingTypeMeal
	mc.TotalParticipants = 3

	// full coverage + both preference bonuses + meal bonus would be 110
	score := Score(entity.CandidateSlot{
		Span:           iv(12, 0, 13, 0),
		AvailableCount: 3,
		DayMatch:       true,
		BandMatch:      true,
	}, mc)
	assert.Equal(t, 100, score)
}
