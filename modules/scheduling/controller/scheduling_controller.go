package controller

import (
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/modules/scheduling/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SchedulingController handles suggestion HTTP requests
type SchedulingController struct {
	controller.BaseController
	SchedulingService service.SchedulingServiceInterface
}

// NewSchedulingController creates a new controller
func NewSchedulingController(svc service.SchedulingServiceInterface) *SchedulingController {
	return &SchedulingController{
		BaseController:    controller.NewBaseController(),
		SchedulingService: svc,
	}
}

// RegenerateSuggestions handles POST /meetings/:id/suggestions
// @Summary Queue a suggestion run
// @Description Snapshot availability and regenerate ranked slots in the background
// @Tags Scheduling
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 202 {object} dto.RegenerationQueuedResponse
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id}/suggestions [post]
func (c *SchedulingController) RegenerateSuggestions(ctx echo.Context) error {
	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	result, appErr := c.SchedulingService.EnqueueRegeneration(ctx.Request().Context(), meetingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.AcceptedResponse(ctx, result, "Suggestion run queued")
}

// GetSuggestions handles GET /meetings/:id/suggestions
// @Summary Get ranked suggestions
// @Description Latest persisted suggestion set and its outcome
// @Tags Scheduling
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.SuggestionSetResponse
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id}/suggestions [get]
func (c *SchedulingController) GetSuggestions(ctx echo.Context) error {
	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	result, appErr := c.SchedulingService.GetSuggestions(ctx.Request().Context(), meetingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Suggestions retrieved successfully")
}
