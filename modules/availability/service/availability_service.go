package service

import (
	"context"

	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/modules/availability/dto"
	"meetsync/modules/availability/entity"
	"meetsync/modules/availability/repository"
	meetingService "meetsync/modules/meeting/service"
	schedEntity "meetsync/modules/scheduling/entity"

	"github.com/google/uuid"
)

// AvailabilityService handles manual free-window submissions
type AvailabilityService struct {
	repo       repository.AvailabilityRepositoryInterface
	meetingSvc meetingService.MeetingServiceInterface
}

// AvailabilityServiceInterface defines the service contract
type AvailabilityServiceInterface interface {
	SubmitAvailability(ctx context.Context, meetingID, userID uuid.UUID, req *dto.SubmitAvailabilityRequest) (*dto.AvailabilityResponse, *errors.AppError)
	GetMyAvailability(ctx context.Context, meetingID, userID uuid.UUID) (*dto.AvailabilityResponse, *errors.AppError)
	GetMeetingAvailability(ctx context.Context, meetingID uuid.UUID) (*dto.MeetingAvailabilityResponse, *errors.AppError)

	FreeWindowsForMeeting(ctx context.Context, meetingID uuid.UUID) (map[uuid.UUID][]schedEntity.Interval, *errors.AppError)
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(
	repo repository.AvailabilityRepositoryInterface,
	meetingSvc meetingService.MeetingServiceInterface,
) AvailabilityServiceInterface {
	return &AvailabilityService{repo: repo, meetingSvc: meetingSvc}
}

// SubmitAvailability replaces the caller's free windows for a meeting.
// Submitting an empty set clears the caller's availability.
func (s *AvailabilityService) SubmitAvailability(ctx context.Context, meetingID, userID uuid.UUID, req *dto.SubmitAvailabilityRequest) (*dto.AvailabilityResponse, *errors.AppError) {
	if appErr := s.ensureParticipant(ctx, meetingID, userID); appErr != nil {
		return nil, appErr
	}

	windows := make([]entity.FreeWindow, 0, len(req.Windows))
	for _, w := range req.Windows {
		if !w.EndTime.After(w.StartTime) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Window end must be after its start", nil)
		}
		windows = append(windows, entity.FreeWindow{
			MeetingID: meetingID,
			UserID:    userID,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
		})
	}

	if err := s.repo.ReplaceForParticipant(ctx, meetingID, userID, windows); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to save availability", err)
	}

	logger.Info("AvailabilityService:SubmitAvailability:Saved",
		"meeting_id", meetingID, "user_id", userID, "window_count", len(windows))

	return s.GetMyAvailability(ctx, meetingID, userID)
}

// GetMyAvailability returns the caller's current windows for a meeting
func (s *AvailabilityService) GetMyAvailability(ctx context.Context, meetingID, userID uuid.UUID) (*dto.AvailabilityResponse, *errors.AppError) {
	windows, err := s.repo.GetForParticipant(ctx, meetingID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get availability", err)
	}

	resp := &dto.AvailabilityResponse{
		MeetingID: meetingID,
		UserID:    userID,
		Windows:   make([]dto.WindowResponse, 0, len(windows)),
	}
	for _, w := range windows {
		resp.Windows = append(resp.Windows, dto.WindowResponse{
			ID:        w.ID,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
		})
	}

	return resp, nil
}

// GetMeetingAvailability returns every participant's windows, grouped
func (s *AvailabilityService) GetMeetingAvailability(ctx context.Context, meetingID uuid.UUID) (*dto.MeetingAvailabilityResponse, *errors.AppError) {
	windows, err := s.repo.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get availability", err)
	}

	resp := &dto.MeetingAvailabilityResponse{MeetingID: meetingID}
	byUser := make(map[uuid.UUID]int)
	for _, w := range windows {
		idx, ok := byUser[w.UserID]
		if !ok {
			resp.Participants = append(resp.Participants, dto.ParticipantAvailabilityResponse{UserID: w.UserID})
			idx = len(resp.Participants) - 1
			byUser[w.UserID] = idx
		}
		resp.Participants[idx].Windows = append(resp.Participants[idx].Windows, dto.WindowResponse{
			ID:        w.ID,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
		})
	}

	return resp, nil
}

// FreeWindowsForMeeting snapshots submitted windows as engine intervals,
// keyed by participant.
func (s *AvailabilityService) FreeWindowsForMeeting(ctx context.Context, meetingID uuid.UUID) (map[uuid.UUID][]schedEntity.Interval, *errors.AppError) {
	windows, err := s.repo.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get availability", err)
	}

	result := make(map[uuid.UUID][]schedEntity.Interval)
	for _, w := range windows {
		result[w.UserID] = append(result[w.UserID], schedEntity.Interval{
			Start: w.StartTime,
			End:   w.EndTime,
		})
	}

	return result, nil
}

func (s *AvailabilityService) ensureParticipant(ctx context.Context, meetingID, userID uuid.UUID) *errors.AppError {
	meeting, appErr := s.meetingSvc.GetMeetingByID(ctx, meetingID)
	if appErr != nil {
		return appErr
	}

	if meeting.HostID == userID {
		return nil
	}
	for _, p := range meeting.Participants {
		if p.UserID == userID {
			return nil
		}
	}

	return errors.NewAppError(errors.ErrForbidden, "Caller is not part of this meeting", nil)
}
