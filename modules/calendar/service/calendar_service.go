package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"meetsync/core/config"
	"meetsync/core/constants"
	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/modules/calendar/dto"
	"meetsync/modules/calendar/entity"
	"meetsync/modules/calendar/repository"
	schedEntity "meetsync/modules/scheduling/entity"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"
)

const googleFreeBusyAPI = "https://www.googleapis.com/calendar/v3/freeBusy"

// CalendarService manages provider connections and busy-interval lookups
type CalendarService interface {
	SaveGoogleConnection(ctx context.Context, userID uuid.UUID, req *dto.ConnectCalendarRequest) (*dto.CalendarConnectionResponse, *errors.AppError)
	GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.CalendarConnectionResponse, *errors.AppError)
	DisconnectCalendar(ctx context.Context, userID uuid.UUID, provider string) *errors.AppError

	FetchBusyForParticipants(ctx context.Context, userIDs []uuid.UUID, window schedEntity.Interval) (map[uuid.UUID][]schedEntity.Interval, *errors.AppError)
}

type calendarService struct {
	repo       repository.CalendarRepository
	httpClient *http.Client
}

// NewCalendarService creates a new calendar service
func NewCalendarService(repo repository.CalendarRepository) CalendarService {
	return &calendarService{
		repo:       repo,
		httpClient: &http.Client{Timeout: constants.DefaultRequestTimeout},
	}
}

// SaveGoogleConnection saves or updates a Google Calendar connection
func (s *calendarService) SaveGoogleConnection(ctx context.Context, userID uuid.UUID, req *dto.ConnectCalendarRequest) (*dto.CalendarConnectionResponse, *errors.AppError) {
	existing, err := s.repo.GetConnectionByUserAndProvider(ctx, userID, entity.ProviderGoogle)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check existing connection", err)
	}

	var conn *entity.CalendarConnection
	if existing != nil {
		existing.AccessToken = req.AccessToken
		existing.RefreshToken = req.RefreshToken
		existing.TokenExpiresAt = req.ExpiresAt
		existing.CalendarEmail = req.CalendarEmail
		existing.IsActive = true

		if err := s.repo.UpdateConnection(ctx, existing); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update connection", err)
		}
		conn = existing
	} else {
		conn = &entity.CalendarConnection{
			UserID:         userID,
			Provider:       entity.ProviderGoogle,
			AccessToken:    req.AccessToken,
			RefreshToken:   req.RefreshToken,
			TokenExpiresAt: req.ExpiresAt,
			CalendarEmail:  req.CalendarEmail,
			IsActive:       true,
		}
		created, err := s.repo.CreateConnection(ctx, conn)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create connection", err)
		}
		conn = created
	}

	logger.Info("CalendarService:SaveGoogleConnection:Saved", "user_id", userID, "email", conn.CalendarEmail)

	return toConnectionResponse(conn), nil
}

// GetConnections returns all calendar connections for a user
func (s *calendarService) GetConnections(ctx context.Context, userID uuid.UUID) ([]dto.CalendarConnectionResponse, *errors.AppError) {
	connections, err := s.repo.GetConnectionsByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get connections", err)
	}

	result := make([]dto.CalendarConnectionResponse, 0, len(connections))
	for i := range connections {
		result = append(result, *toConnectionResponse(&connections[i]))
	}
	return result, nil
}

// DisconnectCalendar removes a provider connection
func (s *calendarService) DisconnectCalendar(ctx context.Context, userID uuid.UUID, provider string) *errors.AppError {
	if err := s.repo.DeleteConnection(ctx, userID, provider); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to disconnect calendar", err)
	}
	return nil
}

// FetchBusyForParticipants collects busy intervals for every connected
// participant concurrently. A participant whose fetch fails is left out of
// the result rather than failing the whole snapshot; participants without a
// connection are not present in the map at all.
func (s *calendarService) FetchBusyForParticipants(ctx context.Context, userIDs []uuid.UUID, window schedEntity.Interval) (map[uuid.UUID][]schedEntity.Interval, *errors.AppError) {
	connections, err := s.repo.GetConnectionsByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCalendarUnavailable, "Failed to load calendar connections", err)
	}

	result := make(map[uuid.UUID][]schedEntity.Interval, len(connections))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i := range connections {
		conn := connections[i]
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, constants.CalendarFetchTimeout)
			defer cancel()

			busy, err := s.fetchBusy(fetchCtx, &conn, window)
			if err != nil {
				logger.Warn("CalendarService:FetchBusyForParticipants:Skipped",
					"user_id", conn.UserID, "error", err)
				return nil
			}

			mu.Lock()
			result[conn.UserID] = busy
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.NewAppError(errors.ErrCalendarUnavailable, "Calendar fetch aborted", err)
	}

	return result, nil
}

func (s *calendarService) fetchBusy(ctx context.Context, conn *entity.CalendarConnection, window schedEntity.Interval) ([]schedEntity.Interval, error) {
	accessToken, err := s.ensureValidToken(ctx, conn)
	if err != nil {
		return nil, err
	}
	return s.callGoogleFreeBusy(ctx, accessToken, conn.CalendarEmail, window)
}

// ensureValidToken refreshes the access token through the provider when it
// is within five minutes of expiry.
func (s *calendarService) ensureValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, error) {
	if time.Now().Before(conn.TokenExpiresAt.Add(-5 * time.Minute)) {
		return conn.AccessToken, nil
	}

	logger.Info("CalendarService:EnsureValidToken:Refreshing", "user_id", conn.UserID)

	cfg, ok := config.GetSafe()
	if !ok {
		return "", fmt.Errorf("configuration not loaded")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		Endpoint:     google.Endpoint,
	}

	token, err := oauthCfg.TokenSource(ctx, &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.TokenExpiresAt,
	}).Token()
	if err != nil {
		logger.Error("CalendarService:EnsureValidToken:RefreshFailed", "user_id", conn.UserID, "error", err)
		return "", err
	}

	conn.AccessToken = token.AccessToken
	conn.TokenExpiresAt = token.Expiry
	if token.RefreshToken != "" {
		conn.RefreshToken = token.RefreshToken
	}

	if err := s.repo.UpdateConnection(ctx, conn); err != nil {
		logger.Error("CalendarService:EnsureValidToken:SaveFailed", "user_id", conn.UserID, "error", err)
	}

	return token.AccessToken, nil
}

// callGoogleFreeBusy queries the provider freeBusy endpoint for one calendar
func (s *calendarService) callGoogleFreeBusy(ctx context.Context, accessToken, email string, window schedEntity.Interval) ([]schedEntity.Interval, error) {
	payload := map[string]any{
		"timeMin": window.Start.Format(time.RFC3339),
		"timeMax": window.End.Format(time.RFC3339),
		"items": []map[string]string{
			{"id": email},
		},
	}

	payloadJSON, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleFreeBusyAPI, strings.NewReader(string(payloadJSON)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("freeBusy API returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start time.Time `json:"start"`
				End   time.Time `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	var busy []schedEntity.Interval
	if cal, ok := result.Calendars[email]; ok {
		for _, b := range cal.Busy {
			busy = append(busy, schedEntity.Interval{Start: b.Start, End: b.End})
		}
	}

	return busy, nil
}

func toConnectionResponse(conn *entity.CalendarConnection) *dto.CalendarConnectionResponse {
	return &dto.CalendarConnectionResponse{
		ID:            conn.ID.String(),
		Provider:      conn.Provider,
		CalendarEmail: conn.CalendarEmail,
		IsActive:      conn.IsActive,
		ConnectedAt:   conn.CreatedAt.Format(time.RFC3339),
	}
}
