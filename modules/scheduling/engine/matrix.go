package engine

import (
	"sort"
	"time"

	"meetsync/modules/scheduling/entity"

	"github.com/google/uuid"
)

// BuildMatrix merges all participants' free intervals into the time-partitioned
// availability matrix by a boundary sweep: every interval endpoint becomes a
// breakpoint, consecutive breakpoints bound a cell, and each cell records the
// set of participants free throughout it. The breakpoint set must include
// every endpoint, otherwise a cell could straddle an availability change.
func BuildMatrix(window entity.Interval, avails []entity.ParticipantAvailability) entity.AvailabilityMatrix {
	roster := make([]uuid.UUID, 0, len(avails))
	for _, pa := range avails {
		roster = append(roster, pa.ParticipantID)
	}
	sort.Slice(roster, func(i, j int) bool {
		return roster[i].String() < roster[j].String()
	})

	m := entity.AvailabilityMatrix{Window: window, Roster: roster}
	if !window.IsValid() {
		return m
	}

	points := []time.Time{window.Start, window.End}
	for _, pa := range avails {
		for _, iv := range pa.Free {
			if window.Contains(iv.Start) {
				points = append(points, iv.Start)
			}
			if iv.End.After(window.Start) && !iv.End.After(window.End) {
				points = append(points, iv.End)
			}
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Before(points[j]) })
	breakpoints := points[:1]
	for _, p := range points[1:] {
		if !p.Equal(breakpoints[len(breakpoints)-1]) {
			breakpoints = append(breakpoints, p)
		}
	}

	for i := 0; i+1 < len(breakpoints); i++ {
		cell := entity.MatrixCell{
			Span: entity.Interval{Start: breakpoints[i], End: breakpoints[i+1]},
			Free: make(map[uuid.UUID]bool),
		}
		for _, pa := range avails {
			// endpoints are all breakpoints, so covering the cell start
			// implies covering the whole cell
			for _, iv := range pa.Free {
				if iv.Contains(cell.Span.Start) {
					cell.Free[pa.ParticipantID] = true
					break
				}
			}
		}
		m.Cells = append(m.Cells, cell)
	}

	return m
}
