package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"meetsync/modules/scheduling/entity"
)

type scoredCandidate struct {
	slot  entity.CandidateSlot
	score int
}

// SelectTop orders candidates by the deterministic total order, collapses
// near-duplicate windows, and returns the top N as ranked suggestions.
func SelectTop(candidates []entity.CandidateSlot, mc entity.MeetingContext) []entity.RankedSuggestion {
	if len(candidates) == 0 {
		return nil
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, scoredCandidate{slot: c, score: Score(c, mc)})
	}

	midpoint := mc.WindowMidpoint()
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.slot.AvailableCount != b.slot.AvailableCount {
			return a.slot.AvailableCount > b.slot.AvailableCount
		}
		if !a.slot.Span.Start.Equal(b.slot.Span.Start) {
			return a.slot.Span.Start.Before(b.slot.Span.Start)
		}
		return distance(a.slot.Span.Start, midpoint) < distance(b.slot.Span.Start, midpoint)
	})

	step := time.Duration(mc.GranularityMinutes) * time.Minute
	topN := mc.SuggestionCount
	if topN <= 0 {
		topN = 3
	}

	var kept []scoredCandidate
	for _, sc := range scored {
		if idx := nearDuplicateIndex(sc, kept, step); idx >= 0 {
			if sc.slot.Span.Start.Before(kept[idx].slot.Span.Start) {
				kept[idx] = sc
			}
			continue
		}
		kept = append(kept, sc)
	}
	if len(kept) > topN {
		kept = kept[:topN]
	}

	out := make([]entity.RankedSuggestion, 0, len(kept))
	for i, sc := range kept {
		out = append(out, entity.RankedSuggestion{
			Slot:      sc.slot,
			Score:     sc.score,
			Rank:      i + 1,
			Rationale: rationale(sc.slot, mc),
		})
	}

	return out
}

// nearDuplicateIndex locates a kept candidate that is essentially the same
// window: identical score with starts within one granularity step. The
// earliest-starting member of such a cluster is the one kept.
func nearDuplicateIndex(sc scoredCandidate, kept []scoredCandidate, step time.Duration) int {
	for i, k := range kept {
		if k.score != sc.score {
			continue
		}
		if distance(k.slot.Span.Start, sc.slot.Span.Start) <= step {
			return i
		}
	}
	return -1
}

func distance(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}

func rationale(c entity.CandidateSlot, mc entity.MeetingContext) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d of %d participants available", c.AvailableCount, mc.TotalParticipants)

	if !c.Preferred {
		sb.WriteString("; outside preferred times")
		return sb.String()
	}
	if c.DayMatch && len(mc.PreferredDays) > 0 {
		sb.WriteString("; matches preferred day")
	}
	if c.BandMatch {
		fmt.Fprintf(&sb, "; matches preferred %s slot", c.MatchedBand)
	}
	return sb.String()
}
