package repository

import (
	"context"
	"database/sql"
	"time"

	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/modules/scheduling/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SuggestionRun records the outcome of the latest regeneration for a meeting,
// even when it produced no suggestion rows.
type SuggestionRun struct {
	MeetingID   uuid.UUID `db:"meeting_id"`
	Outcome     string    `db:"outcome"`
	GeneratedAt time.Time `db:"generated_at"`
}

// SuggestionRepository persists ranked suggestion sets
type SuggestionRepository struct {
	DB database.IDatabase
}

// NewSuggestionRepository creates a new repository instance
func NewSuggestionRepository(db database.IDatabase) *SuggestionRepository {
	return &SuggestionRepository{DB: db}
}

// SuggestionRepositoryInterface defines the repository contract
type SuggestionRepositoryInterface interface {
	ReplaceSuggestions(ctx context.Context, meetingID uuid.UUID, outcome entity.Outcome, suggestions []entity.MeetingSuggestion) error
	GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*SuggestionRun, []entity.MeetingSuggestion, error)
	DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error
}

// ReplaceSuggestions swaps the whole suggestion set and the run outcome in a
// single transaction so readers always see one coherent generation.
func (r *SuggestionRepository) ReplaceSuggestions(ctx context.Context, meetingID uuid.UUID, outcome entity.Outcome, suggestions []entity.MeetingSuggestion) error {
	generatedAt := time.Now()

	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM meeting_suggestions WHERE meeting_id = $1`, meetingID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO suggestion_runs (meeting_id, outcome, generated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (meeting_id) DO UPDATE SET outcome = $2, generated_at = $3`,
			meetingID, string(outcome), generatedAt); err != nil {
			return err
		}

		for _, s := range suggestions {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO meeting_suggestions
					(meeting_id, rank, start_time, end_time, score, available_count,
					 total_participants, rationale, outcome, generated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				meetingID, s.Rank, s.StartTime, s.EndTime, s.Score, s.AvailableCount,
				s.TotalParticipants, s.Rationale, string(outcome), generatedAt); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		logger.Error("SuggestionRepository:ReplaceSuggestions", "error", err)
		return err
	}

	return nil
}

func (r *SuggestionRepository) GetByMeetingID(ctx context.Context, meetingID uuid.UUID) (*SuggestionRun, []entity.MeetingSuggestion, error) {
	var run SuggestionRun
	err := r.DB.GetContext(ctx, &run,
		`SELECT meeting_id, outcome, generated_at FROM suggestion_runs WHERE meeting_id = $1`,
		meetingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, nil
		}
		logger.Error("SuggestionRepository:GetByMeetingID:Run", "error", err)
		return nil, nil, err
	}

	query := `
		SELECT id, meeting_id, rank, start_time, end_time, score, available_count,
		       total_participants, rationale, outcome, generated_at
		FROM meeting_suggestions
		WHERE meeting_id = $1
		ORDER BY rank
	`

	var suggestions []entity.MeetingSuggestion
	if err := r.DB.SelectContext(ctx, &suggestions, query, meetingID); err != nil {
		logger.Error("SuggestionRepository:GetByMeetingID", "error", err)
		return nil, nil, err
	}

	return &run, suggestions, nil
}

func (r *SuggestionRepository) DeleteByMeetingID(ctx context.Context, meetingID uuid.UUID) error {
	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM meeting_suggestions WHERE meeting_id = $1`, meetingID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`DELETE FROM suggestion_runs WHERE meeting_id = $1`, meetingID)
		return err
	})

	if err != nil {
		logger.Error("SuggestionRepository:DeleteByMeetingID", "error", err)
		return err
	}

	return nil
}
