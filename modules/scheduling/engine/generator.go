package engine

import (
	"time"

	"meetsync/modules/scheduling/entity"
)

// GenerateCandidates enumerates duration-length windows aligned to the
// context's granularity, one per possible start time, within working bounds
// and the date window. A slot never spans midnight. When preference filters
// eliminate every slot, the full set is regenerated without them and flagged
// non-preferred, so a result is always produced when any slot exists.
func GenerateCandidates(mc entity.MeetingContext, m entity.AvailabilityMatrix) []entity.CandidateSlot {
	preferred := enumerate(mc, m, true)
	if len(preferred) > 0 {
		return preferred
	}
	return enumerate(mc, m, false)
}

func enumerate(mc entity.MeetingContext, m entity.AvailabilityMatrix, applyFilters bool) []entity.CandidateSlot {
	if mc.DurationMinutes <= 0 || mc.GranularityMinutes <= 0 {
		return nil
	}

	bounds := mc.WorkingBounds
	if bounds.IsZero() || bounds.StartMinute >= bounds.EndMinute {
		return nil
	}

	duration := time.Duration(mc.DurationMinutes) * time.Minute
	step := time.Duration(mc.GranularityMinutes) * time.Minute
	window := mc.Window()

	var out []entity.CandidateSlot
	for day := mc.WindowStart; day.Before(mc.WindowEnd); day = day.AddDate(0, 0, 1) {
		dayMatch := mc.DayPreferred(day.Weekday())
		if applyFilters && !dayMatch {
			continue
		}

		span := bounds.SpanOn(day)
		for start := span.Start; !start.Add(duration).After(span.End); start = start.Add(step) {
			slot := entity.Interval{Start: start, End: start.Add(duration)}
			if !window.Covers(slot) {
				continue
			}

			if applyFilters && len(mc.PreferredBands) > 0 && !mc.OverlapsPreferredBand(slot) {
				continue
			}

			band, bandMatch := mc.BandFor(slot)

			cand := entity.CandidateSlot{
				Span:           slot,
				AvailableCount: len(m.FreeThroughout(slot)),
				DayMatch:       dayMatch,
				BandMatch:      bandMatch,
				Preferred:      applyFilters,
			}
			if bandMatch {
				cand.MatchedBand = band.Label
			}
			out = append(out, cand)
		}
	}

	return out
}
