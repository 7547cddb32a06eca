package service

import (
	"context"
	stdErrors "errors"
	"fmt"

	"meetsync/core/cache"
	"meetsync/core/constants"
	"meetsync/core/errors"
	"meetsync/core/logger"
	meetingEntity "meetsync/modules/meeting/entity"
	"meetsync/modules/scheduling/dto"
	"meetsync/modules/scheduling/engine"
	"meetsync/modules/scheduling/entity"
	"meetsync/modules/scheduling/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// MeetingContextProvider supplies the scheduling context and roster snapshot
// for one meeting.
type MeetingContextProvider interface {
	ContextForMeeting(ctx context.Context, meetingID uuid.UUID) (*entity.MeetingContext, []meetingEntity.Participant, *errors.AppError)
}

// FreeWindowStore supplies manually submitted free windows per participant.
type FreeWindowStore interface {
	FreeWindowsForMeeting(ctx context.Context, meetingID uuid.UUID) (map[uuid.UUID][]entity.Interval, *errors.AppError)
}

// BusyProvider supplies imported busy intervals for connected participants.
// Participants without a connection or whose fetch failed are absent from
// the returned map.
type BusyProvider interface {
	FetchBusyForParticipants(ctx context.Context, userIDs []uuid.UUID, window entity.Interval) (map[uuid.UUID][]entity.Interval, *errors.AppError)
}

// SchedulingService orchestrates suggestion regeneration and reads
type SchedulingService struct {
	repo        repository.SuggestionRepositoryInterface
	meetings    MeetingContextProvider
	freeWindows FreeWindowStore
	busy        BusyProvider
	cache       cache.Cache
	taskClient  *asynq.Client
}

// SchedulingServiceInterface defines the service contract
type SchedulingServiceInterface interface {
	EnqueueRegeneration(ctx context.Context, meetingID uuid.UUID) (*dto.RegenerationQueuedResponse, *errors.AppError)
	Regenerate(ctx context.Context, meetingID uuid.UUID) *errors.AppError
	GetSuggestions(ctx context.Context, meetingID uuid.UUID) (*dto.SuggestionSetResponse, *errors.AppError)
}

// NewSchedulingService creates a new scheduling service
func NewSchedulingService(
	repo repository.SuggestionRepositoryInterface,
	meetings MeetingContextProvider,
	freeWindows FreeWindowStore,
	busy BusyProvider,
	c cache.Cache,
	taskClient *asynq.Client,
) SchedulingServiceInterface {
	return &SchedulingService{
		repo:        repo,
		meetings:    meetings,
		freeWindows: freeWindows,
		busy:        busy,
		cache:       c,
		taskClient:  taskClient,
	}
}

// EnqueueRegeneration verifies the meeting and hands the run to the worker
func (s *SchedulingService) EnqueueRegeneration(ctx context.Context, meetingID uuid.UUID) (*dto.RegenerationQueuedResponse, *errors.AppError) {
	if _, _, appErr := s.meetings.ContextForMeeting(ctx, meetingID); appErr != nil {
		return nil, appErr
	}

	task, err := NewRegenerateTask(meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to build task", err)
	}

	info, err := s.taskClient.EnqueueContext(ctx, task)
	if err != nil {
		if stdErrors.Is(err, asynq.ErrDuplicateTask) {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "Regeneration already queued for this meeting", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to enqueue regeneration", err)
	}

	logger.Info("SchedulingService:EnqueueRegeneration:Queued",
		"meeting_id", meetingID, "task_id", info.ID, "queue", info.Queue)

	return &dto.RegenerationQueuedResponse{
		MeetingID: meetingID,
		TaskID:    info.ID,
		Queue:     info.Queue,
	}, nil
}

// Regenerate runs the full pipeline for one meeting and replaces its stored
// suggestion set. Runs for the same meeting are serialized through an
// advisory lock; a contended run returns ErrLockContended so the task queue
// retries it later.
func (s *SchedulingService) Regenerate(ctx context.Context, meetingID uuid.UUID) *errors.AppError {
	lockKey := regenerationLockKey(meetingID)
	acquired, err := s.cache.AcquireLock(ctx, lockKey, constants.RegenerationLockTTL)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to acquire regeneration lock", err)
	}
	if !acquired {
		return errors.NewAppError(errors.ErrLockContended, "Regeneration already in progress", nil)
	}
	defer func() {
		if err := s.cache.ReleaseLock(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.Warn("SchedulingService:Regenerate:UnlockFailed", "meeting_id", meetingID, "error", err)
		}
	}()

	mc, participants, appErr := s.meetings.ContextForMeeting(ctx, meetingID)
	if appErr != nil {
		return appErr
	}

	avails, appErr := s.snapshotAvailability(ctx, mc, participants)
	if appErr != nil {
		return appErr
	}

	suggestions, outcome := engine.GenerateSuggestions(*mc, avails)

	rows := make([]entity.MeetingSuggestion, 0, len(suggestions))
	for _, sg := range suggestions {
		rows = append(rows, entity.MeetingSuggestion{
			MeetingID:         meetingID,
			Rank:              sg.Rank,
			StartTime:         sg.Slot.Span.Start,
			EndTime:           sg.Slot.Span.End,
			Score:             sg.Score,
			AvailableCount:    sg.Slot.AvailableCount,
			TotalParticipants: mc.TotalParticipants,
			Rationale:         sg.Rationale,
		})
	}

	if err := s.repo.ReplaceSuggestions(ctx, meetingID, outcome, rows); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to persist suggestions", err)
	}

	logger.Info("SchedulingService:Regenerate:Done",
		"meeting_id", meetingID,
		"outcome", outcome,
		"suggestion_count", len(rows),
		"participant_count", mc.TotalParticipants,
	)

	return nil
}

// GetSuggestions returns the latest persisted generation for a meeting
func (s *SchedulingService) GetSuggestions(ctx context.Context, meetingID uuid.UUID) (*dto.SuggestionSetResponse, *errors.AppError) {
	if _, _, appErr := s.meetings.ContextForMeeting(ctx, meetingID); appErr != nil {
		return nil, appErr
	}

	run, suggestions, err := s.repo.GetByMeetingID(ctx, meetingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get suggestions", err)
	}

	resp := &dto.SuggestionSetResponse{
		MeetingID:   meetingID,
		Suggestions: make([]dto.SuggestionResponse, 0, len(suggestions)),
	}
	if run != nil {
		resp.Outcome = run.Outcome
		resp.GeneratedAt = &run.GeneratedAt
	}
	for _, sg := range suggestions {
		resp.Suggestions = append(resp.Suggestions, dto.SuggestionResponse{
			Rank:              sg.Rank,
			StartTime:         sg.StartTime,
			EndTime:           sg.EndTime,
			Score:             sg.Score,
			AvailableCount:    sg.AvailableCount,
			TotalParticipants: sg.TotalParticipants,
			Rationale:         sg.Rationale,
		})
	}

	return resp, nil
}

// snapshotAvailability gathers and normalizes every participant's sources
// at a single point in time. Later submissions do not affect this run.
func (s *SchedulingService) snapshotAvailability(
	ctx context.Context,
	mc *entity.MeetingContext,
	participants []meetingEntity.Participant,
) ([]entity.ParticipantAvailability, *errors.AppError) {
	manual, appErr := s.freeWindows.FreeWindowsForMeeting(ctx, mc.MeetingID)
	if appErr != nil {
		return nil, appErr
	}

	var connectedIDs []uuid.UUID
	for _, p := range participants {
		if p.HasCalendarConnected {
			connectedIDs = append(connectedIDs, p.UserID)
		}
	}

	busy := map[uuid.UUID][]entity.Interval{}
	if len(connectedIDs) > 0 {
		busy, appErr = s.busy.FetchBusyForParticipants(ctx, connectedIDs, mc.Window())
		if appErr != nil {
			return nil, appErr
		}
	}

	avails := make([]entity.ParticipantAvailability, 0, len(participants))
	for _, p := range participants {
		var sources []entity.AvailabilitySource
		if windows, ok := manual[p.UserID]; ok && len(windows) > 0 {
			sources = append(sources, entity.AvailabilitySource{
				Kind:      entity.SourceManualFree,
				Intervals: windows,
			})
		}
		if p.HasCalendarConnected {
			busyIntervals, ok := busy[p.UserID]
			if !ok {
				// no entry means the fetch failed or the connection record
				// is gone; the source still joins the intersection, as
				// fully busy, so the participant counts as unavailable
				logger.Warn("SchedulingService:SnapshotAvailability:CalendarUnavailable",
					"meeting_id", mc.MeetingID, "user_id", p.UserID)
				busyIntervals = []entity.Interval{mc.Window()}
			}
			sources = append(sources, entity.AvailabilitySource{
				Kind:      entity.SourceCalendarBusy,
				Intervals: busyIntervals,
			})
		}

		avails = append(avails, engine.NormalizeParticipant(p.UserID, sources, mc.Window(), mc.WorkingBounds))
	}

	return avails, nil
}

func regenerationLockKey(meetingID uuid.UUID) string {
	return fmt.Sprintf("scheduling:regenerate:%s", meetingID)
}
