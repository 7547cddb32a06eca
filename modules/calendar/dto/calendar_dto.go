package dto

import "time"

// ConnectCalendarRequest stores tokens obtained by the client-side OAuth flow
type ConnectCalendarRequest struct {
	AccessToken   string    `json:"access_token" validate:"required"`
	RefreshToken  string    `json:"refresh_token" validate:"required"`
	ExpiresAt     time.Time `json:"expires_at" validate:"required"`
	CalendarEmail string    `json:"calendar_email" validate:"required"`
}

type CalendarConnectionResponse struct {
	ID            string `json:"id"`
	Provider      string `json:"provider"`
	CalendarEmail string `json:"calendar_email"`
	IsActive      bool   `json:"is_active"`
	ConnectedAt   string `json:"connected_at"`
}
