package entity

import (
	"time"

	"github.com/google/uuid"
)

// TimeBand is a labeled clock range within a day, half-open, expressed in
// minutes from midnight (e.g. afternoon = 13:00-16:00 = 780-960).
type TimeBand struct {
	Label       string `json:"label"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
}

// OverlapsClock reports whether a same-day slot overlaps the band
func (b TimeBand) OverlapsClock(slot Interval) bool {
	return slot.MinutesOfDayStart() < b.EndMinute && b.StartMinute < slot.MinutesOfDayEnd()
}

// CoversClock reports whether a same-day slot lies entirely inside the band
func (b TimeBand) CoversClock(slot Interval) bool {
	return slot.MinutesOfDayStart() >= b.StartMinute && slot.MinutesOfDayEnd() <= b.EndMinute
}

// WorkingBounds are the per-day clock bounds inside which candidate slots are
// generated and busy blocks are inverted. The zero value means "no configured
// bounds": a calendar source with no bounds yields no free time.
type WorkingBounds struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

func (w WorkingBounds) IsZero() bool {
	return w.StartMinute == 0 && w.EndMinute == 0
}

// SpanOn materializes the bounds on a concrete day (midnight in the day's location)
func (w WorkingBounds) SpanOn(day time.Time) Interval {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return Interval{
		Start: midnight.Add(time.Duration(w.StartMinute) * time.Minute),
		End:   midnight.Add(time.Duration(w.EndMinute) * time.Minute),
	}
}

// MeetingContext is the immutable set of constraints a suggestion run is
// computed against. The caller owns it; every pipeline stage takes it by value.
type MeetingContext struct {
	MeetingID          uuid.UUID
	MeetingType        string
	DurationMinutes    int
	WindowStart        time.Time // first day, midnight local
	WindowEnd          time.Time // day after the last day, midnight local (half-open)
	PreferredDays      []time.Weekday // empty means all days
	PreferredBands     []TimeBand     // empty means all times
	WorkingBounds      WorkingBounds
	GranularityMinutes int
	SuggestionCount    int
	TotalParticipants  int
}

// Window returns the date window as a half-open interval
func (mc MeetingContext) Window() Interval {
	return Interval{Start: mc.WindowStart, End: mc.WindowEnd}
}

// DayPreferred reports whether the weekday passes the preferred-day filter
func (mc MeetingContext) DayPreferred(d time.Weekday) bool {
	if len(mc.PreferredDays) == 0 {
		return true
	}
	for _, pd := range mc.PreferredDays {
		if pd == d {
			return true
		}
	}
	return false
}

// BandFor returns the preferred band the slot belongs to: the first band
// containing the slot's start. Merely grazing a band does not count as a
// band match for scoring.
func (mc MeetingContext) BandFor(slot Interval) (TimeBand, bool) {
	start := slot.MinutesOfDayStart()
	for _, b := range mc.PreferredBands {
		if start >= b.StartMinute && start < b.EndMinute {
			return b, true
		}
	}
	return TimeBand{}, false
}

// OverlapsPreferredBand reports whether the slot overlaps any preferred band.
// This is the looser test candidate generation filters on.
func (mc MeetingContext) OverlapsPreferredBand(slot Interval) bool {
	for _, b := range mc.PreferredBands {
		if b.OverlapsClock(slot) {
			return true
		}
	}
	return false
}

// WindowMidpoint returns the midpoint of the date window, used by the rank
// tie-break favoring central slots.
func (mc MeetingContext) WindowMidpoint() time.Time {
	return mc.WindowStart.Add(mc.WindowEnd.Sub(mc.WindowStart) / 2)
}
