package dto

import (
	"time"

	schedEntity "meetsync/modules/scheduling/entity"

	"github.com/google/uuid"
)

type CreateMeetingRequest struct {
	Title           string         `json:"title" validate:"required"`
	Description     *string        `json:"description,omitempty"`
	MeetingType     string         `json:"meeting_type,omitempty"` // general or meal
	DurationMinutes int            `json:"duration_minutes" validate:"required"`
	WindowStart     string         `json:"window_start" validate:"required"` // YYYY-MM-DD
	WindowEnd       string         `json:"window_end" validate:"required"`   // YYYY-MM-DD, inclusive
	Timezone        string         `json:"timezone,omitempty"`
	PreferredDays   []string       `json:"preferred_days,omitempty"`
	PreferredBands  []TimeBandInput `json:"preferred_bands,omitempty"`
}

type TimeBandInput struct {
	Label string `json:"label" validate:"required"`
	Start string `json:"start" validate:"required"` // HH:MM
	End   string `json:"end" validate:"required"`   // HH:MM
}

type UpdateMeetingRequest struct {
	Title           *string         `json:"title,omitempty"`
	Description     *string         `json:"description,omitempty"`
	DurationMinutes *int            `json:"duration_minutes,omitempty"`
	WindowStart     *string         `json:"window_start,omitempty"`
	WindowEnd       *string         `json:"window_end,omitempty"`
	PreferredDays   []string        `json:"preferred_days,omitempty"`
	PreferredBands  []TimeBandInput `json:"preferred_bands,omitempty"`
}

type SelectSlotRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

type JoinMeetingRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
}

type ParticipantResponse struct {
	UserID               uuid.UUID `json:"user_id"`
	DisplayName          string    `json:"display_name"`
	HasCalendarConnected bool      `json:"has_calendar_connected"`
}

type MeetingResponse struct {
	ID              uuid.UUID              `json:"id"`
	HostID          uuid.UUID              `json:"host_id"`
	Title           string                 `json:"title"`
	Description     *string                `json:"description,omitempty"`
	MeetingType     string                 `json:"meeting_type"`
	DurationMinutes int                    `json:"duration_minutes"`
	WindowStart     string                 `json:"window_start"`
	WindowEnd       string                 `json:"window_end"`
	Timezone        string                 `json:"timezone"`
	Status          string                 `json:"status"`
	ShareSlug       string                 `json:"share_slug"`
	PreferredDays   []string               `json:"preferred_days,omitempty"`
	PreferredBands  []schedEntity.TimeBand `json:"preferred_bands,omitempty"`
	SelectedStart   *time.Time             `json:"selected_start,omitempty"`
	SelectedEnd     *time.Time             `json:"selected_end,omitempty"`
	Participants    []ParticipantResponse  `json:"participants,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

type MeetingListResponse struct {
	Meetings   []MeetingResponse `json:"meetings"`
	TotalCount int               `json:"total_count"`
	PageNumber int               `json:"page_number"`
	PageSize   int               `json:"page_size"`
}
