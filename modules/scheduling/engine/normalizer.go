package engine

import (
	"sort"
	"time"

	"meetsync/core/logger"
	"meetsync/modules/scheduling/entity"

	"github.com/google/uuid"
)

// ComputeFreeIntervals derives free time on one day by inverting the given
// busy intervals within the day's working bounds. Busy intervals outside the
// bounds are ignored; zero bounds yield no free time.
func ComputeFreeIntervals(busy []entity.Interval, day time.Time, bounds entity.WorkingBounds) []entity.Interval {
	if bounds.IsZero() {
		return nil
	}

	span := bounds.SpanOn(day)
	if !span.IsValid() {
		return nil
	}

	var clipped []entity.Interval
	for _, b := range busy {
		if !b.IsValid() {
			continue
		}
		if c := b.Clip(span); c.IsValid() {
			clipped = append(clipped, c)
		}
	}
	merged := MergeIntervals(clipped)

	var free []entity.Interval
	cursor := span.Start
	for _, b := range merged {
		if cursor.Before(b.Start) {
			free = append(free, entity.Interval{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(span.End) {
		free = append(free, entity.Interval{Start: cursor, End: span.End})
	}

	return free
}

// MergeIntervals sorts intervals and coalesces any that overlap or touch.
// Invalid intervals are dropped.
func MergeIntervals(intervals []entity.Interval) []entity.Interval {
	var valid []entity.Interval
	for _, iv := range intervals {
		if iv.IsValid() {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Start.Before(valid[j].Start)
	})

	merged := []entity.Interval{valid[0]}
	for _, cur := range valid[1:] {
		last := &merged[len(merged)-1]
		if !cur.Start.After(last.End) {
			if cur.End.After(last.End) {
				last.End = cur.End
			}
		} else {
			merged = append(merged, cur)
		}
	}

	return merged
}

// IntersectIntervals returns the instants present in both sorted, merged lists
func IntersectIntervals(a, b []entity.Interval) []entity.Interval {
	var out []entity.Interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := a[i].Start
		if b[j].Start.After(start) {
			start = b[j].Start
		}
		end := a[i].End
		if b[j].End.Before(end) {
			end = b[j].End
		}
		if start.Before(end) {
			out = append(out, entity.Interval{Start: start, End: end})
		}
		if a[i].End.Before(b[j].End) {
			i++
		} else {
			j++
		}
	}
	return out
}

// NormalizeParticipant converts a participant's raw availability sources into
// normalized free intervals confined to the date window. Sources are
// intersected: the participant is free only where every source agrees, so a
// source with no data contributes no availability.
func NormalizeParticipant(
	participantID uuid.UUID,
	sources []entity.AvailabilitySource,
	window entity.Interval,
	bounds entity.WorkingBounds,
) entity.ParticipantAvailability {
	pa := entity.ParticipantAvailability{ParticipantID: participantID}

	if len(sources) == 0 {
		return pa
	}

	var combined []entity.Interval
	for idx, src := range sources {
		free := normalizeSource(participantID, src, window, bounds)
		if idx == 0 {
			combined = free
		} else {
			combined = IntersectIntervals(combined, free)
		}
		if len(combined) == 0 {
			return pa
		}
	}

	pa.Free = combined
	return pa
}

func normalizeSource(
	participantID uuid.UUID,
	src entity.AvailabilitySource,
	window entity.Interval,
	bounds entity.WorkingBounds,
) []entity.Interval {
	switch src.Kind {
	case entity.SourceManualFree:
		var free []entity.Interval
		for _, iv := range src.Intervals {
			if !iv.IsValid() {
				logger.Warn("Normalizer:MalformedInterval",
					"participant_id", participantID,
					"start", iv.Start,
					"end", iv.End,
				)
				continue
			}
			if c := iv.Clip(window); c.IsValid() {
				free = append(free, c)
			}
		}
		return MergeIntervals(free)

	case entity.SourceCalendarBusy:
		var busy []entity.Interval
		for _, iv := range src.Intervals {
			if !iv.IsValid() {
				logger.Warn("Normalizer:MalformedBusyInterval",
					"participant_id", participantID,
					"start", iv.Start,
					"end", iv.End,
				)
				continue
			}
			busy = append(busy, iv)
		}

		var free []entity.Interval
		for day := window.Start; day.Before(window.End); day = day.AddDate(0, 0, 1) {
			for _, iv := range ComputeFreeIntervals(busy, day, bounds) {
				if c := iv.Clip(window); c.IsValid() {
					free = append(free, c)
				}
			}
		}
		return MergeIntervals(free)
	}

	logger.Warn("Normalizer:UnknownSourceKind", "participant_id", participantID, "kind", src.Kind)
	return nil
}
