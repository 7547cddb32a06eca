package service

import (
	"context"
	"encoding/json"
	"fmt"

	"meetsync/core/constants"
	"meetsync/core/errors"
	"meetsync/core/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskTypeRegenerate is the task type handled by the scheduling worker
const TaskTypeRegenerate = "scheduling:regenerate"

type regeneratePayload struct {
	MeetingID uuid.UUID `json:"meeting_id"`
}

// NewRegenerateTask builds the queue task for one meeting
func NewRegenerateTask(meetingID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(regeneratePayload{MeetingID: meetingID})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskTypeRegenerate, payload,
		asynq.Queue(constants.RegenerationQueue),
		asynq.MaxRetry(constants.RegenerationTaskMaxRetry),
		asynq.Unique(constants.RegenerationLockTTL),
	), nil
}

// HandleRegenerateTask adapts the service to the worker mux. Lock contention
// is returned as a plain error so the task is retried; a missing meeting is
// permanent and skips further retries.
func HandleRegenerateTask(svc SchedulingServiceInterface) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload regeneratePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w: %w", err, asynq.SkipRetry)
		}

		if appErr := svc.Regenerate(ctx, payload.MeetingID); appErr != nil {
			logger.Warn("SchedulingWorker:Regenerate:Failed",
				"meeting_id", payload.MeetingID,
				"code", appErr.Code,
				"error", appErr,
			)
			if appErr.Code == errors.ErrNotFound {
				return fmt.Errorf("%s: %w", appErr.Message, asynq.SkipRetry)
			}
			return appErr
		}

		return nil
	}
}
