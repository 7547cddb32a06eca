package entity

import (
	"encoding/json"
	"time"

	"meetsync/core/constants"
	"meetsync/core/logger"
	schedEntity "meetsync/modules/scheduling/entity"

	"github.com/google/uuid"
)

// MeetingStatus represents the lifecycle state of a meeting proposal
type MeetingStatus string

const (
	MeetingStatusCollecting MeetingStatus = "collecting"
	MeetingStatusSuggested  MeetingStatus = "suggested"
	MeetingStatusScheduled  MeetingStatus = "scheduled"
	MeetingStatusCancelled  MeetingStatus = "cancelled"
)

// Meeting is a proposed group meeting and its scheduling constraints
type Meeting struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	HostID          uuid.UUID     `db:"host_id" json:"host_id"`
	Title           string        `db:"title" json:"title"`
	Description     *string       `db:"description" json:"description,omitempty"`
	MeetingType     string        `db:"meeting_type" json:"meeting_type"`
	DurationMinutes int           `db:"duration_minutes" json:"duration_minutes"`
	WindowStart     time.Time     `db:"window_start" json:"window_start"` // first day of the date window
	WindowEnd       time.Time     `db:"window_end" json:"window_end"`     // last day, inclusive
	Timezone        string        `db:"timezone" json:"timezone"`
	Preferences     *string       `db:"preferences" json:"-"` // JSONB
	Status          MeetingStatus `db:"status" json:"status"`
	ShareSlug       string        `db:"share_slug" json:"share_slug"`
	SelectedStart   *time.Time    `db:"selected_start" json:"selected_start,omitempty"`
	SelectedEnd     *time.Time    `db:"selected_end" json:"selected_end,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// Preferences are the day and time-of-day constraints for suggestion runs
type Preferences struct {
	PreferredDays  []string               `json:"preferred_days,omitempty"` // weekday names, empty means all
	PreferredBands []schedEntity.TimeBand `json:"preferred_bands,omitempty"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday resolves a lowercase weekday name
func ParseWeekday(name string) (time.Weekday, bool) {
	d, ok := weekdayNames[name]
	return d, ok
}

// ParsedPreferences decodes the stored preferences JSON; a missing or broken
// blob degrades to no preferences rather than failing the run.
func (m *Meeting) ParsedPreferences() Preferences {
	var p Preferences
	if m.Preferences == nil {
		return p
	}
	if err := json.Unmarshal([]byte(*m.Preferences), &p); err != nil {
		logger.Warn("Meeting:ParsedPreferences:InvalidJSON", "meeting_id", m.ID, "error", err)
		return Preferences{}
	}
	return p
}

// Participant is a member of a meeting's roster
type Participant struct {
	UserID               uuid.UUID `db:"user_id" json:"user_id"`
	MeetingID            uuid.UUID `db:"meeting_id" json:"meeting_id"`
	DisplayName          string    `db:"display_name" json:"display_name"`
	HasCalendarConnected bool      `db:"has_calendar_connected" json:"has_calendar_connected"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// ToContext assembles the immutable MeetingContext a suggestion run computes
// against. The stored inclusive window end becomes the half-open bound the
// engine expects. Malformed weekday names are skipped, not fatal.
func (m *Meeting) ToContext(
	totalParticipants int,
	granularityMinutes int,
	suggestionCount int,
	bounds schedEntity.WorkingBounds,
	loc *time.Location,
) schedEntity.MeetingContext {
	prefs := m.ParsedPreferences()

	var days []time.Weekday
	for _, name := range prefs.PreferredDays {
		if d, ok := ParseWeekday(name); ok {
			days = append(days, d)
		} else {
			logger.Warn("Meeting:ToContext:UnknownWeekday", "meeting_id", m.ID, "day", name)
		}
	}

	start := m.WindowStart.In(loc)
	end := m.WindowEnd.In(loc)
	windowStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	windowEnd := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	meetingType := m.MeetingType
	if meetingType == "" {
		meetingType = constants.MeetingTypeGeneral
	}

	return schedEntity.MeetingContext{
		MeetingID:          m.ID,
		MeetingType:        meetingType,
		DurationMinutes:    m.DurationMinutes,
		WindowStart:        windowStart,
		WindowEnd:          windowEnd,
		PreferredDays:      days,
		PreferredBands:     prefs.PreferredBands,
		WorkingBounds:      bounds,
		GranularityMinutes: granularityMinutes,
		SuggestionCount:    suggestionCount,
		TotalParticipants:  totalParticipants,
	}
}
