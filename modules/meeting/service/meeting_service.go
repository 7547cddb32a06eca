package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meetsync/core/config"
	"meetsync/core/constants"
	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/core/params"
	"meetsync/core/utils"
	"meetsync/modules/meeting/dto"
	"meetsync/modules/meeting/entity"
	"meetsync/modules/meeting/repository"
	schedEntity "meetsync/modules/scheduling/entity"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// MeetingService handles meeting business logic
type MeetingService struct {
	repo repository.MeetingRepositoryInterface
}

// MeetingServiceInterface defines the service contract
type MeetingServiceInterface interface {
	CreateMeeting(ctx context.Context, hostID uuid.UUID, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	GetMeetingByID(ctx context.Context, id uuid.UUID) (*dto.MeetingResponse, *errors.AppError)
	GetMeetingByShareSlug(ctx context.Context, shareSlug string) (*dto.MeetingResponse, *errors.AppError)
	GetMyMeetings(ctx context.Context, hostID uuid.UUID, qp *params.QueryParams) (*dto.MeetingListResponse, *errors.AppError)
	UpdateMeeting(ctx context.Context, meetingID, hostID uuid.UUID, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	DeleteMeeting(ctx context.Context, meetingID, hostID uuid.UUID) *errors.AppError
	JoinMeeting(ctx context.Context, shareSlug string, userID uuid.UUID, req *dto.JoinMeetingRequest) (*dto.MeetingResponse, *errors.AppError)
	SelectSlot(ctx context.Context, meetingID, hostID uuid.UUID, req *dto.SelectSlotRequest) (*dto.MeetingResponse, *errors.AppError)

	ContextForMeeting(ctx context.Context, meetingID uuid.UUID) (*schedEntity.MeetingContext, []entity.Participant, *errors.AppError)
}

// NewMeetingService creates a new meeting service
func NewMeetingService(repo repository.MeetingRepositoryInterface) MeetingServiceInterface {
	return &MeetingService{repo: repo}
}

// CreateMeeting creates a new meeting proposal and its share link
func (s *MeetingService) CreateMeeting(ctx context.Context, hostID uuid.UUID, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	if req.DurationMinutes <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Duration must be positive", nil)
	}
	if req.DurationMinutes > 24*60 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Duration cannot exceed one day", nil)
	}

	windowStart, windowEnd, appErr := parseWindow(req.WindowStart, req.WindowEnd)
	if appErr != nil {
		return nil, appErr
	}

	meetingType := req.MeetingType
	if meetingType == "" {
		meetingType = constants.MeetingTypeGeneral
	}
	if meetingType != constants.MeetingTypeGeneral && meetingType != constants.MeetingTypeMeal {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown meeting type", nil)
	}

	preferencesJSON, appErr := encodePreferences(req.PreferredDays, req.PreferredBands)
	if appErr != nil {
		return nil, appErr
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = config.Get().Scheduling.Timezone
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown timezone", err)
	}

	meeting := &entity.Meeting{
		HostID:          hostID,
		Title:           req.Title,
		Description:     req.Description,
		MeetingType:     meetingType,
		DurationMinutes: req.DurationMinutes,
		WindowStart:     windowStart,
		WindowEnd:       windowEnd,
		Timezone:        timezone,
		Preferences:     preferencesJSON,
		Status:          entity.MeetingStatusCollecting,
		ShareSlug:       fmt.Sprintf("%s-%s", slug.Make(req.Title), utils.GenerateShareCode()),
	}

	created, err := s.repo.Create(ctx, meeting)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create meeting", err)
	}

	logger.Info("MeetingService:CreateMeeting:Created",
		"meeting_id", created.ID, "host_id", hostID, "share_slug", created.ShareSlug)

	return dto.ToMeetingResponse(created, nil), nil
}

// GetMeetingByID retrieves a meeting with its roster
func (s *MeetingService) GetMeetingByID(ctx context.Context, id uuid.UUID) (*dto.MeetingResponse, *errors.AppError) {
	meeting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}

	participants, appErr := s.loadRoster(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToMeetingResponse(meeting, participants), nil
}

// GetMeetingByShareSlug resolves a share link to its meeting
func (s *MeetingService) GetMeetingByShareSlug(ctx context.Context, shareSlug string) (*dto.MeetingResponse, *errors.AppError) {
	meeting, err := s.repo.GetByShareSlug(ctx, shareSlug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}

	participants, appErr := s.loadRoster(ctx, meeting.ID)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToMeetingResponse(meeting, participants), nil
}

// GetMyMeetings lists meetings hosted by the user
func (s *MeetingService) GetMyMeetings(ctx context.Context, hostID uuid.UUID, qp *params.QueryParams) (*dto.MeetingListResponse, *errors.AppError) {
	meetings, total, err := s.repo.ListByHostID(ctx, hostID, qp)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list meetings", err)
	}

	resp := &dto.MeetingListResponse{
		Meetings:   make([]dto.MeetingResponse, 0, len(meetings)),
		TotalCount: total,
		PageNumber: qp.PageNumber,
		PageSize:   qp.PageSize,
	}
	for i := range meetings {
		resp.Meetings = append(resp.Meetings, *dto.ToMeetingResponse(&meetings[i], nil))
	}

	return resp, nil
}

// UpdateMeeting applies partial updates from the host
func (s *MeetingService) UpdateMeeting(ctx context.Context, meetingID, hostID uuid.UUID, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	meeting, appErr := s.getOwnedMeeting(ctx, meetingID, hostID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Title != nil {
		meeting.Title = *req.Title
	}
	if req.Description != nil {
		meeting.Description = req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 || *req.DurationMinutes > 24*60 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid duration", nil)
		}
		meeting.DurationMinutes = *req.DurationMinutes
	}
	if req.WindowStart != nil || req.WindowEnd != nil {
		startStr := meeting.WindowStart.Format("2006-01-02")
		endStr := meeting.WindowEnd.Format("2006-01-02")
		if req.WindowStart != nil {
			startStr = *req.WindowStart
		}
		if req.WindowEnd != nil {
			endStr = *req.WindowEnd
		}
		windowStart, windowEnd, appErr := parseWindow(startStr, endStr)
		if appErr != nil {
			return nil, appErr
		}
		meeting.WindowStart = windowStart
		meeting.WindowEnd = windowEnd
	}
	if req.PreferredDays != nil || req.PreferredBands != nil {
		prefs := meeting.ParsedPreferences()
		days := prefs.PreferredDays
		if req.PreferredDays != nil {
			days = req.PreferredDays
		}
		bands := req.PreferredBands
		if req.PreferredBands == nil {
			bands = bandsToInput(prefs.PreferredBands)
		}
		preferencesJSON, appErr := encodePreferences(days, bands)
		if appErr != nil {
			return nil, appErr
		}
		meeting.Preferences = preferencesJSON
	}

	if err := s.repo.Update(ctx, meeting); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update meeting", err)
	}

	participants, appErr := s.loadRoster(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToMeetingResponse(meeting, participants), nil
}

// DeleteMeeting removes a meeting the host owns
func (s *MeetingService) DeleteMeeting(ctx context.Context, meetingID, hostID uuid.UUID) *errors.AppError {
	if _, appErr := s.getOwnedMeeting(ctx, meetingID, hostID); appErr != nil {
		return appErr
	}

	if err := s.repo.Delete(ctx, meetingID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete meeting", err)
	}

	return nil
}

// JoinMeeting adds the caller to the roster via the share link
func (s *MeetingService) JoinMeeting(ctx context.Context, shareSlug string, userID uuid.UUID, req *dto.JoinMeetingRequest) (*dto.MeetingResponse, *errors.AppError) {
	meeting, err := s.repo.GetByShareSlug(ctx, shareSlug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}
	if meeting.Status == entity.MeetingStatusCancelled || meeting.Status == entity.MeetingStatusScheduled {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Meeting is no longer collecting availability", nil)
	}

	participant := &entity.Participant{
		UserID:      userID,
		MeetingID:   meeting.ID,
		DisplayName: req.DisplayName,
	}
	if err := s.repo.AddParticipant(ctx, participant); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to join meeting", err)
	}

	logger.Info("MeetingService:JoinMeeting:Joined", "meeting_id", meeting.ID, "user_id", userID)

	participants, appErr := s.loadRoster(ctx, meeting.ID)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToMeetingResponse(meeting, participants), nil
}

// SelectSlot fixes the final meeting time from a suggested or manual slot
func (s *MeetingService) SelectSlot(ctx context.Context, meetingID, hostID uuid.UUID, req *dto.SelectSlotRequest) (*dto.MeetingResponse, *errors.AppError) {
	meeting, appErr := s.getOwnedMeeting(ctx, meetingID, hostID)
	if appErr != nil {
		return nil, appErr
	}

	if !req.EndTime.After(req.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "End time must be after start time", nil)
	}

	if err := s.repo.SetSelectedSlot(ctx, meetingID, req.StartTime, req.EndTime); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to select slot", err)
	}

	meeting.SelectedStart = &req.StartTime
	meeting.SelectedEnd = &req.EndTime
	meeting.Status = entity.MeetingStatusScheduled

	logger.Info("MeetingService:SelectSlot:Scheduled",
		"meeting_id", meetingID, "start", req.StartTime, "end", req.EndTime)

	participants, appErr := s.loadRoster(ctx, meetingID)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToMeetingResponse(meeting, participants), nil
}

// ContextForMeeting builds the scheduling context and roster snapshot for a
// suggestion run, filling unset knobs from the service configuration.
func (s *MeetingService) ContextForMeeting(ctx context.Context, meetingID uuid.UUID) (*schedEntity.MeetingContext, []entity.Participant, *errors.AppError) {
	meeting, err := s.repo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get meeting", err)
	}
	if meeting == nil {
		return nil, nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}

	participants, err := s.repo.GetParticipants(ctx, meetingID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get participants", err)
	}

	cfg := config.Get().Scheduling
	loc, locErr := time.LoadLocation(meeting.Timezone)
	if locErr != nil {
		logger.Warn("MeetingService:ContextForMeeting:BadTimezone",
			"meeting_id", meetingID, "timezone", meeting.Timezone)
		loc = time.UTC
	}

	bounds := schedEntity.WorkingBounds{
		StartMinute: cfg.WorkingBoundsStart,
		EndMinute:   cfg.WorkingBoundsEnd,
	}

	mc := meeting.ToContext(len(participants), cfg.GranularityMinutes, cfg.SuggestionCount, bounds, loc)
	return &mc, participants, nil
}

func (s *MeetingService) getOwnedMeeting(ctx context.Context, meetingID, hostID uuid.UUID) (*entity.Meeting, *errors.AppError) {
	meeting, err := s.repo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get meeting", err)
	}
	if meeting == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Meeting not found", nil)
	}
	if meeting.HostID != hostID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the host can modify this meeting", nil)
	}
	return meeting, nil
}

func (s *MeetingService) loadRoster(ctx context.Context, meetingID uuid.UUID) ([]entity.Participant, *errors.AppError) {
	participants, err := s.repo.GetParticipants(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get participants", err)
	}
	return participants, nil
}

func parseWindow(startStr, endStr string) (time.Time, time.Time, *errors.AppError) {
	windowStart, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "Invalid window start date", err)
	}
	windowEnd, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "Invalid window end date", err)
	}
	if windowEnd.Before(windowStart) {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "Window end must not precede window start", nil)
	}
	return windowStart, windowEnd, nil
}

func encodePreferences(days []string, bands []dto.TimeBandInput) (*string, *errors.AppError) {
	prefs := entity.Preferences{}

	for _, name := range days {
		if _, ok := entity.ParseWeekday(name); !ok {
			return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Unknown weekday %q", name), nil)
		}
		prefs.PreferredDays = append(prefs.PreferredDays, name)
	}

	for _, b := range bands {
		start, appErr := parseClock(b.Start)
		if appErr != nil {
			return nil, appErr
		}
		end, appErr := parseClock(b.End)
		if appErr != nil {
			return nil, appErr
		}
		if end <= start {
			return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Band %q ends before it starts", b.Label), nil)
		}
		prefs.PreferredBands = append(prefs.PreferredBands, schedEntity.TimeBand{
			Label:       b.Label,
			StartMinute: start,
			EndMinute:   end,
		})
	}

	if len(prefs.PreferredDays) == 0 && len(prefs.PreferredBands) == 0 {
		return nil, nil
	}

	jsonBytes, err := json.Marshal(prefs)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to encode preferences", err)
	}
	jsonStr := string(jsonBytes)
	return &jsonStr, nil
}

func parseClock(value string) (int, *errors.AppError) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("Invalid time %q, expected HH:MM", value), nil)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func bandsToInput(bands []schedEntity.TimeBand) []dto.TimeBandInput {
	out := make([]dto.TimeBandInput, 0, len(bands))
	for _, b := range bands {
		out = append(out, dto.TimeBandInput{
			Label: b.Label,
			Start: fmt.Sprintf("%02d:%02d", b.StartMinute/60, b.StartMinute%60),
			End:   fmt.Sprintf("%02d:%02d", b.EndMinute/60, b.EndMinute%60),
		})
	}
	return out
}
