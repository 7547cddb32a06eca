package repository

import (
	"context"
	"database/sql"

	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/modules/calendar/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CalendarRepository handles calendar connection persistence
type CalendarRepository interface {
	CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error)
	GetConnectionByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*entity.CalendarConnection, error)
	GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error)
	GetConnectionsByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]entity.CalendarConnection, error)
	UpdateConnection(ctx context.Context, conn *entity.CalendarConnection) error
	DeleteConnection(ctx context.Context, userID uuid.UUID, provider string) error
}

type calendarRepository struct {
	db database.IDatabase
}

// NewCalendarRepository creates a new repository instance
func NewCalendarRepository(db database.IDatabase) CalendarRepository {
	return &calendarRepository{db: db}
}

const connectionColumns = `id, user_id, provider, access_token, refresh_token,
	       token_expires_at, calendar_email, is_active, created_at, updated_at`

func (r *calendarRepository) CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	query := `
		INSERT INTO calendar_connections (user_id, provider, access_token, refresh_token, token_expires_at, calendar_email, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		conn.UserID, conn.Provider, conn.AccessToken, conn.RefreshToken,
		conn.TokenExpiresAt, conn.CalendarEmail, conn.IsActive,
	).Scan(&conn.ID, &conn.CreatedAt, &conn.UpdatedAt)

	if err != nil {
		logger.Error("CalendarRepository:CreateConnection", "error", err)
		return nil, err
	}

	return conn, nil
}

func (r *calendarRepository) GetConnectionByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*entity.CalendarConnection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE user_id = $1 AND provider = $2 AND is_active = true
	`

	var conn entity.CalendarConnection
	err := r.db.GetContext(ctx, &conn, query, userID, provider)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetConnectionByUserAndProvider", "error", err)
		return nil, err
	}

	return &conn, nil
}

func (r *calendarRepository) GetConnectionsByUserID(ctx context.Context, userID uuid.UUID) ([]entity.CalendarConnection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE user_id = $1
		ORDER BY created_at
	`

	var connections []entity.CalendarConnection
	err := r.db.SelectContext(ctx, &connections, query, userID)
	if err != nil {
		logger.Error("CalendarRepository:GetConnectionsByUserID", "error", err)
		return nil, err
	}

	return connections, nil
}

func (r *calendarRepository) GetConnectionsByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]entity.CalendarConnection, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE user_id IN (?) AND is_active = true
	`

	query, args, err := sqlx.In(query, userIDs)
	if err != nil {
		logger.Error("CalendarRepository:GetConnectionsByUserIDs:In", "error", err)
		return nil, err
	}
	query = r.db.SQLx().Rebind(query)

	var connections []entity.CalendarConnection
	if err := r.db.SelectContext(ctx, &connections, query, args...); err != nil {
		logger.Error("CalendarRepository:GetConnectionsByUserIDs", "error", err)
		return nil, err
	}

	return connections, nil
}

func (r *calendarRepository) UpdateConnection(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $2, refresh_token = $3, token_expires_at = $4,
		    calendar_email = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
	`

	err := r.db.ExecContext(ctx, query,
		conn.ID, conn.AccessToken, conn.RefreshToken,
		conn.TokenExpiresAt, conn.CalendarEmail, conn.IsActive)

	if err != nil {
		logger.Error("CalendarRepository:UpdateConnection", "error", err)
		return err
	}

	return nil
}

func (r *calendarRepository) DeleteConnection(ctx context.Context, userID uuid.UUID, provider string) error {
	query := `DELETE FROM calendar_connections WHERE user_id = $1 AND provider = $2`
	err := r.db.ExecContext(ctx, query, userID, provider)
	if err != nil {
		logger.Error("CalendarRepository:DeleteConnection", "error", err)
		return err
	}
	return nil
}
