package entity

import (
	"github.com/google/uuid"
)

// SourceKind distinguishes how a participant's raw availability was expressed
type SourceKind string

const (
	// SourceManualFree carries explicitly entered free windows
	SourceManualFree SourceKind = "manual_free"
	// SourceCalendarBusy carries busy blocks imported from an external calendar;
	// free time is derived by inversion within working bounds
	SourceCalendarBusy SourceKind = "calendar_busy"
)

// AvailabilitySource is one raw input stream for a participant
type AvailabilitySource struct {
	Kind      SourceKind
	Intervals []Interval
}

// ParticipantAvailability is a participant's normalized free time: an ordered,
// non-overlapping list of intervals confined to the meeting's date window.
// It is rebuilt wholesale on resubmission, never mutated.
type ParticipantAvailability struct {
	ParticipantID uuid.UUID
	Free          []Interval
}

// ContainsSpan reports whether the participant is free for the whole span
func (pa ParticipantAvailability) ContainsSpan(span Interval) bool {
	for _, iv := range pa.Free {
		if iv.Covers(span) {
			return true
		}
	}
	return false
}
