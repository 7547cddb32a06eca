package dto

import (
	"meetsync/modules/meeting/entity"
)

// ToMeetingResponse maps a meeting and its roster to the API shape
func ToMeetingResponse(m *entity.Meeting, participants []entity.Participant) *MeetingResponse {
	prefs := m.ParsedPreferences()

	resp := &MeetingResponse{
		ID:              m.ID,
		HostID:          m.HostID,
		Title:           m.Title,
		Description:     m.Description,
		MeetingType:     m.MeetingType,
		DurationMinutes: m.DurationMinutes,
		WindowStart:     m.WindowStart.Format("2006-01-02"),
		WindowEnd:       m.WindowEnd.Format("2006-01-02"),
		Timezone:        m.Timezone,
		Status:          string(m.Status),
		ShareSlug:       m.ShareSlug,
		PreferredDays:   prefs.PreferredDays,
		PreferredBands:  prefs.PreferredBands,
		SelectedStart:   m.SelectedStart,
		SelectedEnd:     m.SelectedEnd,
		CreatedAt:       m.CreatedAt,
	}

	for _, p := range participants {
		resp.Participants = append(resp.Participants, ParticipantResponse{
			UserID:               p.UserID,
			DisplayName:          p.DisplayName,
			HasCalendarConnected: p.HasCalendarConnected,
		})
	}

	return resp
}
