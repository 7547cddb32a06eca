package entity

import "time"

// Interval is a half-open time range [Start, End). It is the atomic unit of
// availability; a zero-length or inverted interval is malformed.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsValid reports whether the interval has positive length
func (i Interval) IsValid() bool {
	return i.Start.Before(i.End)
}

// Duration returns the interval length
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether two half-open intervals share any instant
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether t lies inside the interval
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Covers reports whether other lies entirely inside the interval
func (i Interval) Covers(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Clip returns the intersection with bounds. The zero Interval is returned
// when nothing remains.
func (i Interval) Clip(bounds Interval) Interval {
	start := i.Start
	if start.Before(bounds.Start) {
		start = bounds.Start
	}
	end := i.End
	if end.After(bounds.End) {
		end = bounds.End
	}
	if !start.Before(end) {
		return Interval{}
	}
	return Interval{Start: start, End: end}
}

// MinutesOfDayStart returns the start instant as minutes from its day's midnight
func (i Interval) MinutesOfDayStart() int {
	return i.Start.Hour()*60 + i.Start.Minute()
}

// MinutesOfDayEnd returns the end instant as minutes from its day's midnight.
// An end exactly at midnight counts as minute 1440 of the previous day.
func (i Interval) MinutesOfDayEnd() int {
	m := i.End.Hour()*60 + i.End.Minute()
	if m == 0 && i.End.After(i.Start) {
		return 24 * 60
	}
	return m
}
