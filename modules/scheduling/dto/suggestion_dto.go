package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegenerationQueuedResponse acknowledges a queued suggestion run
type RegenerationQueuedResponse struct {
	MeetingID uuid.UUID `json:"meeting_id"`
	TaskID    string    `json:"task_id"`
	Queue     string    `json:"queue"`
}

type SuggestionResponse struct {
	Rank              int       `json:"rank"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	Score             int       `json:"score"`
	AvailableCount    int       `json:"available_count"`
	TotalParticipants int       `json:"total_participants"`
	Rationale         string    `json:"rationale"`
}

// SuggestionSetResponse is the latest generation for a meeting. Outcome is
// empty until the first run completes.
type SuggestionSetResponse struct {
	MeetingID   uuid.UUID            `json:"meeting_id"`
	Outcome     string               `json:"outcome,omitempty"`
	GeneratedAt *time.Time           `json:"generated_at,omitempty"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}
