package repository

import (
	"context"
	"database/sql"
	"time"

	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/core/params"
	"meetsync/modules/meeting/entity"

	"github.com/google/uuid"
)

// MeetingRepository handles meeting and participant database operations
type MeetingRepository struct {
	DB database.IDatabase
}

// NewMeetingRepository creates a new repository instance
func NewMeetingRepository(db database.IDatabase) *MeetingRepository {
	return &MeetingRepository{DB: db}
}

// MeetingRepositoryInterface defines the repository contract
type MeetingRepositoryInterface interface {
	Create(ctx context.Context, meeting *entity.Meeting) (*entity.Meeting, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error)
	GetByShareSlug(ctx context.Context, slug string) (*entity.Meeting, error)
	ListByHostID(ctx context.Context, hostID uuid.UUID, qp *params.QueryParams) ([]entity.Meeting, int, error)
	Update(ctx context.Context, meeting *entity.Meeting) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MeetingStatus) error
	SetSelectedSlot(ctx context.Context, id uuid.UUID, start, end time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddParticipant(ctx context.Context, p *entity.Participant) error
	GetParticipants(ctx context.Context, meetingID uuid.UUID) ([]entity.Participant, error)
	UpdateParticipantCalendarStatus(ctx context.Context, userID, meetingID uuid.UUID, connected bool) error
	RemoveParticipant(ctx context.Context, userID, meetingID uuid.UUID) error
}

const meetingColumns = `id, host_id, title, description, meeting_type, duration_minutes,
	       window_start, window_end, timezone, preferences, status, share_slug,
	       selected_start, selected_end, created_at, updated_at`

func (r *MeetingRepository) Create(ctx context.Context, meeting *entity.Meeting) (*entity.Meeting, error) {
	query := `
		INSERT INTO meetings (host_id, title, description, meeting_type, duration_minutes,
		                      window_start, window_end, timezone, preferences, status, share_slug)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + meetingColumns

	var created entity.Meeting
	err := r.DB.GetContext(ctx, &created, query,
		meeting.HostID, meeting.Title, meeting.Description, meeting.MeetingType,
		meeting.DurationMinutes, meeting.WindowStart, meeting.WindowEnd,
		meeting.Timezone, meeting.Preferences, meeting.Status, meeting.ShareSlug)

	if err != nil {
		logger.Error("MeetingRepository:Create", "error", err)
		return nil, err
	}

	return &created, nil
}

func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1`

	var meeting entity.Meeting
	err := r.DB.GetContext(ctx, &meeting, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetByID", "error", err)
		return nil, err
	}

	return &meeting, nil
}

func (r *MeetingRepository) GetByShareSlug(ctx context.Context, slug string) (*entity.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE share_slug = $1`

	var meeting entity.Meeting
	err := r.DB.GetContext(ctx, &meeting, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetByShareSlug", "error", err)
		return nil, err
	}

	return &meeting, nil
}

func (r *MeetingRepository) ListByHostID(ctx context.Context, hostID uuid.UUID, qp *params.QueryParams) ([]entity.Meeting, int, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE host_id = $1 AND ($2 = '' OR title ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	var meetings []entity.Meeting
	err := r.DB.SelectContext(ctx, &meetings, query, hostID, qp.Search, qp.PageSize, qp.Offset())
	if err != nil {
		logger.Error("MeetingRepository:ListByHostID", "error", err)
		return nil, 0, err
	}

	countQuery := `
		SELECT COUNT(*) FROM meetings
		WHERE host_id = $1 AND ($2 = '' OR title ILIKE '%' || $2 || '%')
	`

	var total int
	if err := r.DB.GetContext(ctx, &total, countQuery, hostID, qp.Search); err != nil {
		logger.Error("MeetingRepository:ListByHostID:Count", "error", err)
		return nil, 0, err
	}

	return meetings, total, nil
}

func (r *MeetingRepository) Update(ctx context.Context, meeting *entity.Meeting) error {
	query := `
		UPDATE meetings
		SET title = $2, description = $3, duration_minutes = $4, window_start = $5,
		    window_end = $6, preferences = $7, status = $8, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		meeting.ID, meeting.Title, meeting.Description, meeting.DurationMinutes,
		meeting.WindowStart, meeting.WindowEnd, meeting.Preferences, meeting.Status)

	if err != nil {
		logger.Error("MeetingRepository:Update", "error", err)
		return err
	}

	return nil
}

func (r *MeetingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MeetingStatus) error {
	query := `UPDATE meetings SET status = $2, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		logger.Error("MeetingRepository:UpdateStatus", "error", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) SetSelectedSlot(ctx context.Context, id uuid.UUID, start, end time.Time) error {
	query := `
		UPDATE meetings
		SET selected_start = $2, selected_end = $3, status = $4, updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query, id, start, end, entity.MeetingStatusScheduled)
	if err != nil {
		logger.Error("MeetingRepository:SetSelectedSlot", "error", err)
		return err
	}

	return nil
}

func (r *MeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM meetings WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("MeetingRepository:Delete", "error", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) AddParticipant(ctx context.Context, p *entity.Participant) error {
	query := `
		INSERT INTO meeting_participants (user_id, meeting_id, display_name, has_calendar_connected)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, meeting_id) DO UPDATE SET display_name = $3, has_calendar_connected = $4
	`

	err := r.DB.ExecContext(ctx, query, p.UserID, p.MeetingID, p.DisplayName, p.HasCalendarConnected)
	if err != nil {
		logger.Error("MeetingRepository:AddParticipant", "error", err)
		return err
	}

	return nil
}

func (r *MeetingRepository) GetParticipants(ctx context.Context, meetingID uuid.UUID) ([]entity.Participant, error) {
	query := `
		SELECT user_id, meeting_id, display_name,
		       COALESCE(has_calendar_connected, false) AS has_calendar_connected, created_at
		FROM meeting_participants
		WHERE meeting_id = $1
		ORDER BY created_at
	`

	var participants []entity.Participant
	err := r.DB.SelectContext(ctx, &participants, query, meetingID)
	if err != nil {
		logger.Error("MeetingRepository:GetParticipants", "error", err)
		return nil, err
	}

	return participants, nil
}

func (r *MeetingRepository) UpdateParticipantCalendarStatus(ctx context.Context, userID, meetingID uuid.UUID, connected bool) error {
	query := `UPDATE meeting_participants SET has_calendar_connected = $3 WHERE user_id = $1 AND meeting_id = $2`
	err := r.DB.ExecContext(ctx, query, userID, meetingID, connected)
	if err != nil {
		logger.Error("MeetingRepository:UpdateParticipantCalendarStatus", "error", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) RemoveParticipant(ctx context.Context, userID, meetingID uuid.UUID) error {
	query := `DELETE FROM meeting_participants WHERE user_id = $1 AND meeting_id = $2`
	err := r.DB.ExecContext(ctx, query, userID, meetingID)
	if err != nil {
		logger.Error("MeetingRepository:RemoveParticipant", "error", err)
		return err
	}
	return nil
}
