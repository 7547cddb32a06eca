package engine

import (
	"testing"
	"time"

	"meetsync/modules/scheduling/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMatrix_CoverageInvariant(t *testing.T) {
	window := entity.Interval{Start: day, End: day.AddDate(0, 0, 1)}

	a := entity.ParticipantAvailability{ParticipantID: uuid.New(), Free: []entity.Interval{iv(12, 0, 15, 0)}}
	b := entity.ParticipantAvailability{ParticipantID: uuid.New(), Free: []entity.Interval{iv(13, 30, 17, 0)}}
	c := entity.ParticipantAvailability{ParticipantID: uuid.New(), Free: []entity.Interval{iv(9, 0, 14, 0)}}
	avails := []entity.ParticipantAvailability{a, b, c}

	m := BuildMatrix(window, avails)

	// cells tile the window exactly: each starts where the previous ended
	require.NotEmpty(t, m.Cells)
	assert.True(t, m.Cells[0].Span.Start.Equal(window.Start))
	assert.True(t, m.Cells[len(m.Cells)-1].Span.End.Equal(window.End))
	for i := 1; i < len(m.Cells); i++ {
		assert.True(t, m.Cells[i].Span.Start.Equal(m.Cells[i-1].Span.End),
			"cell %d does not start where cell %d ends", i, i-1)
	}

	// every breakpoint from every participant must be a cell boundary
	starts := map[time.Time]bool{}
	for _, cell := range m.Cells {
		starts[cell.Span.Start] = true
	}
	for _, pa := range avails {
		for _, f := range pa.Free {
			assert.True(t, starts[f.Start], "missing breakpoint at %v", f.Start)
			assert.True(t, starts[f.End], "missing breakpoint at %v", f.End)
		}
	}

	// the recorded set at any instant equals the participants whose
	// availability contains that instant
	for _, cell := range m.Cells {
		for _, pa := range avails {
			var contains bool
			for _, f := range pa.Free {
				if f.Contains(cell.Span.Start) {
					contains = true
					break
				}
			}
			assert.Equal(t, contains, cell.Free[pa.ParticipantID],
				"cell %v participant %v", cell.Span, pa.ParticipantID)
		}
	}

	// the full three-way overlap is exactly 13:30-14:00
	cell, ok := m.CellAt(entity.Interval{Start: at(13, 30), End: at(14, 0)})
	require.True(t, ok)
	assert.Equal(t, iv(13, 30, 14, 0), cell.Span)
	assert.Len(t, cell.Free, 3)
}

func TestBuildMatrix_EmptyAvailabilityParticipates(t *testing.T) {
	window := entity.Interval{Start: day, End: day.AddDate(0, 0, 1)}
	id := uuid.New()

	m := BuildMatrix(window, []entity.ParticipantAvailability{{ParticipantID: id}})

	require.Len(t, m.Roster, 1)
	require.Len(t, m.Cells, 1)
	assert.Equal(t, window, m.Cells[0].Span)
	assert.False(t, m.Cells[0].Free[id])
}

func TestFreeThroughout_PartialCoverageDoesNotCount(t *testing.T) {
	window := entity.Interval{Start: day, End: day.AddDate(0, 0, 1)}
	id := uuid.New()

	m := BuildMatrix(window, []entity.ParticipantAvailability{
		{ParticipantID: id, Free: []entity.Interval{iv(10, 0, 11, 0)}},
	})

	assert.Len(t, m.FreeThroughout(iv(10, 0, 11, 0)), 1)
	assert.Empty(t, m.FreeThroughout(iv(10, 30, 11, 30)), "half-covered span must not count")
	assert.Empty(t, m.FreeThroughout(iv(9, 0, 10, 30)))
}

func TestBuildMatrix_RosterIsSorted(t *testing.T) {
	window := entity.Interval{Start: day, End: day.AddDate(0, 0, 1)}

	var avails []entity.ParticipantAvailability
	for i := 0; i < 5; i++ {
		avails = append(avails, entity.ParticipantAvailability{ParticipantID: uuid.New()})
	}

	m := BuildMatrix(window, avails)
	for i := 1; i < len(m.Roster); i++ {
		assert.Less(t, m.Roster[i-1].String(), m.Roster[i].String())
	}
}
