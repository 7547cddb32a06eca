package controller

import (
	"meetsync/core/constants"
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/core/params"
	"meetsync/core/utils"
	"meetsync/modules/meeting/dto"
	"meetsync/modules/meeting/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MeetingController handles meeting HTTP requests
type MeetingController struct {
	controller.BaseController
	MeetingService service.MeetingServiceInterface
}

// NewMeetingController creates a new controller
func NewMeetingController(svc service.MeetingServiceInterface) *MeetingController {
	return &MeetingController{
		BaseController: controller.NewBaseController(),
		MeetingService: svc,
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *MeetingController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// CreateMeeting handles POST /meetings
// @Summary Create a meeting proposal
// @Description Create a meeting with its date window and preferences
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateMeetingRequest true "Meeting details"
// @Success 200 {object} dto.MeetingResponse
// @Failure 400 {object} errors.AppError
// @Failure 401 {object} errors.AppError
// @Router /private/meetings [post]
func (c *MeetingController) CreateMeeting(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.CreateMeeting(ctx.Request().Context(), hostID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting created successfully")
}

// GetMeeting handles GET /meetings/:id
// @Summary Get a meeting
// @Description Get a meeting with its roster
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id} [get]
func (c *MeetingController) GetMeeting(ctx echo.Context) error {
	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	result, appErr := c.MeetingService.GetMeetingByID(ctx.Request().Context(), meetingID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting retrieved successfully")
}

// GetMyMeetings handles GET /meetings
// @Summary List my meetings
// @Description List meetings hosted by the caller
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param page_number query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Title search"
// @Success 200 {object} dto.MeetingListResponse
// @Router /private/meetings [get]
func (c *MeetingController) GetMyMeetings(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	qp := params.NewQueryParams(ctx)
	result, appErr := c.MeetingService.GetMyMeetings(ctx.Request().Context(), hostID, &qp)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meetings retrieved successfully")
}

// GetMeetingByShareSlug handles GET /meetings/share/:slug
// @Summary Resolve a share link
// @Description Look up a meeting by its share slug
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Share slug"
// @Success 200 {object} dto.MeetingResponse
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/share/{slug} [get]
func (c *MeetingController) GetMeetingByShareSlug(ctx echo.Context) error {
	shareSlug := ctx.Param("slug")
	if shareSlug == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Missing share slug")
	}

	result, appErr := c.MeetingService.GetMeetingByShareSlug(ctx.Request().Context(), shareSlug)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting retrieved successfully")
}

// UpdateMeeting handles PUT /meetings/:id
// @Summary Update a meeting
// @Description Update meeting details, window, or preferences
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.UpdateMeetingRequest true "Fields to update"
// @Success 200 {object} dto.MeetingResponse
// @Failure 403 {object} errors.AppError
// @Router /private/meetings/{id} [put]
func (c *MeetingController) UpdateMeeting(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	var req dto.UpdateMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.UpdateMeeting(ctx.Request().Context(), meetingID, hostID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting updated successfully")
}

// DeleteMeeting handles DELETE /meetings/:id
// @Summary Delete a meeting
// @Tags Meeting
// @Security BearerAuth
// @Param id path string true "Meeting ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 403 {object} errors.AppError
// @Router /private/meetings/{id} [delete]
func (c *MeetingController) DeleteMeeting(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	if appErr := c.MeetingService.DeleteMeeting(ctx.Request().Context(), meetingID, hostID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Meeting deleted successfully")
}

// JoinMeeting handles POST /meetings/share/:slug/join
// @Summary Join a meeting
// @Description Join a meeting roster via its share link
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Share slug"
// @Param request body dto.JoinMeetingRequest true "Display name"
// @Success 200 {object} dto.MeetingResponse
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/share/{slug}/join [post]
func (c *MeetingController) JoinMeeting(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	shareSlug := ctx.Param("slug")
	if shareSlug == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Missing share slug")
	}

	var req dto.JoinMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.JoinMeeting(ctx.Request().Context(), shareSlug, userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Joined meeting successfully")
}

// SelectSlot handles POST /meetings/:id/select-slot
// @Summary Select the final slot
// @Description Fix the final meeting time from a suggestion or manual choice
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.SelectSlotRequest true "Chosen slot"
// @Success 200 {object} dto.MeetingResponse
// @Failure 403 {object} errors.AppError
// @Router /private/meetings/{id}/select-slot [post]
func (c *MeetingController) SelectSlot(ctx echo.Context) error {
	hostID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	var req dto.SelectSlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.MeetingService.SelectSlot(ctx.Request().Context(), meetingID, hostID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Slot selected successfully")
}
