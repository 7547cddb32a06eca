package entity

import (
	"github.com/google/uuid"
)

// MatrixCell is one maximal sub-interval of the date window with a constant
// set of free participants.
type MatrixCell struct {
	Span Interval
	Free map[uuid.UUID]bool
}

// AvailabilityMatrix is the merged, time-partitioned view of who is free when.
// Cells are non-overlapping, ordered, and their union covers exactly the
// date window.
type AvailabilityMatrix struct {
	Window Interval
	Roster []uuid.UUID // sorted for deterministic iteration
	Cells  []MatrixCell
}

// CellAt returns the cell containing instant t, if t lies in the window
func (m AvailabilityMatrix) CellAt(t Interval) (MatrixCell, bool) {
	for _, c := range m.Cells {
		if c.Span.Contains(t.Start) {
			return c, true
		}
	}
	return MatrixCell{}, false
}

// FreeThroughout returns the participants free for the entire span, in roster
// order. A participant free for only part of the span does not count.
func (m AvailabilityMatrix) FreeThroughout(span Interval) []uuid.UUID {
	if !m.Window.Covers(span) {
		return nil
	}

	var out []uuid.UUID
	for _, id := range m.Roster {
		free := true
		for _, c := range m.Cells {
			if !c.Span.Overlaps(span) {
				continue
			}
			if !c.Free[id] {
				free = false
				break
			}
		}
		if free {
			out = append(out, id)
		}
	}
	return out
}
