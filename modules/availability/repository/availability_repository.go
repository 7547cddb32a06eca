package repository

import (
	"context"

	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/modules/availability/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AvailabilityRepository handles free-window database operations
type AvailabilityRepository struct {
	DB database.IDatabase
}

// NewAvailabilityRepository creates a new repository instance
func NewAvailabilityRepository(db database.IDatabase) *AvailabilityRepository {
	return &AvailabilityRepository{DB: db}
}

// AvailabilityRepositoryInterface defines the repository contract
type AvailabilityRepositoryInterface interface {
	ReplaceForParticipant(ctx context.Context, meetingID, userID uuid.UUID, windows []entity.FreeWindow) error
	GetForParticipant(ctx context.Context, meetingID, userID uuid.UUID) ([]entity.FreeWindow, error)
	GetByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entity.FreeWindow, error)
	DeleteForParticipant(ctx context.Context, meetingID, userID uuid.UUID) error
}

// ReplaceForParticipant swaps a participant's windows in a single transaction
// so readers never observe a half-submitted set.
func (r *AvailabilityRepository) ReplaceForParticipant(ctx context.Context, meetingID, userID uuid.UUID, windows []entity.FreeWindow) error {
	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM availability_windows WHERE meeting_id = $1 AND user_id = $2`,
			meetingID, userID); err != nil {
			return err
		}

		for _, w := range windows {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO availability_windows (meeting_id, user_id, start_time, end_time)
				 VALUES ($1, $2, $3, $4)`,
				meetingID, userID, w.StartTime, w.EndTime); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		logger.Error("AvailabilityRepository:ReplaceForParticipant", "error", err)
		return err
	}

	return nil
}

func (r *AvailabilityRepository) GetForParticipant(ctx context.Context, meetingID, userID uuid.UUID) ([]entity.FreeWindow, error) {
	query := `
		SELECT id, meeting_id, user_id, start_time, end_time, created_at
		FROM availability_windows
		WHERE meeting_id = $1 AND user_id = $2
		ORDER BY start_time
	`

	var windows []entity.FreeWindow
	err := r.DB.SelectContext(ctx, &windows, query, meetingID, userID)
	if err != nil {
		logger.Error("AvailabilityRepository:GetForParticipant", "error", err)
		return nil, err
	}

	return windows, nil
}

func (r *AvailabilityRepository) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]entity.FreeWindow, error) {
	query := `
		SELECT id, meeting_id, user_id, start_time, end_time, created_at
		FROM availability_windows
		WHERE meeting_id = $1
		ORDER BY user_id, start_time
	`

	var windows []entity.FreeWindow
	err := r.DB.SelectContext(ctx, &windows, query, meetingID)
	if err != nil {
		logger.Error("AvailabilityRepository:GetByMeetingID", "error", err)
		return nil, err
	}

	return windows, nil
}

func (r *AvailabilityRepository) DeleteForParticipant(ctx context.Context, meetingID, userID uuid.UUID) error {
	query := `DELETE FROM availability_windows WHERE meeting_id = $1 AND user_id = $2`
	err := r.DB.ExecContext(ctx, query, meetingID, userID)
	if err != nil {
		logger.Error("AvailabilityRepository:DeleteForParticipant", "error", err)
		return err
	}
	return nil
}
