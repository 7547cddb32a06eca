package dto

import (
	"time"

	"github.com/google/uuid"
)

type WindowInput struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

// SubmitAvailabilityRequest replaces the caller's windows for a meeting
type SubmitAvailabilityRequest struct {
	Windows []WindowInput `json:"windows"`
}

type WindowResponse struct {
	ID        uuid.UUID `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type AvailabilityResponse struct {
	MeetingID uuid.UUID        `json:"meeting_id"`
	UserID    uuid.UUID        `json:"user_id"`
	Windows   []WindowResponse `json:"windows"`
}

type ParticipantAvailabilityResponse struct {
	UserID  uuid.UUID        `json:"user_id"`
	Windows []WindowResponse `json:"windows"`
}

type MeetingAvailabilityResponse struct {
	MeetingID    uuid.UUID                         `json:"meeting_id"`
	Participants []ParticipantAvailabilityResponse `json:"participants"`
}
