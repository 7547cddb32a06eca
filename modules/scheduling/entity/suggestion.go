package entity

import (
	"time"

	"github.com/google/uuid"
)

// CandidateSlot is a concrete window of exactly the meeting duration together
// with its availability coverage and the raw preference flags that apply.
type CandidateSlot struct {
	Span           Interval
	AvailableCount int
	DayMatch       bool
	BandMatch      bool
	MatchedBand    string // label of the first overlapped preferred band
	Preferred      bool   // false when produced by the no-preference fallback
}

// RankedSuggestion is the terminal output of a suggestion run
type RankedSuggestion struct {
	Slot      CandidateSlot
	Score     int // 0-100
	Rank      int // 1-based
	Rationale string
}

// Outcome classifies the result of a suggestion run so callers can message
// the user differently for empty results.
type Outcome string

const (
	OutcomeOK             Outcome = "ok"
	OutcomeNoParticipants Outcome = "no_participants"
	OutcomeInfeasible     Outcome = "infeasible_constraints"
	OutcomeNoSlots        Outcome = "no_slots_found"
)

// MeetingSuggestion is the persisted form of a RankedSuggestion. Each
// regeneration replaces the whole set for a meeting atomically.
type MeetingSuggestion struct {
	ID                uuid.UUID `db:"id" json:"id"`
	MeetingID         uuid.UUID `db:"meeting_id" json:"meeting_id"`
	Rank              int       `db:"rank" json:"rank"`
	StartTime         time.Time `db:"start_time" json:"start_time"`
	EndTime           time.Time `db:"end_time" json:"end_time"`
	Score             int       `db:"score" json:"score"`
	AvailableCount    int       `db:"available_count" json:"available_count"`
	TotalParticipants int       `db:"total_participants" json:"total_participants"`
	Rationale         string    `db:"rationale" json:"rationale"`
	Outcome           string    `db:"outcome" json:"outcome"`
	GeneratedAt       time.Time `db:"generated_at" json:"generated_at"`
}
