package router

import (
	"meetsync/core/middleware"
	"meetsync/modules/meeting/controller"

	"github.com/labstack/echo/v4"
)

// MeetingRouter handles meeting routes
type MeetingRouter struct {
	MeetingController *controller.MeetingController
}

// NewMeetingRouter creates a new router
func NewMeetingRouter(meetingController *controller.MeetingController) *MeetingRouter {
	return &MeetingRouter{
		MeetingController: meetingController,
	}
}

// Setup registers meeting routes
func (r *MeetingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	meetingRoutes := privateRoutes.Group("/meetings", mw.AuthMiddleware())

	meetingRoutes.POST("", r.MeetingController.CreateMeeting)
	meetingRoutes.GET("", r.MeetingController.GetMyMeetings)
	meetingRoutes.GET("/:id", r.MeetingController.GetMeeting)
	meetingRoutes.PUT("/:id", r.MeetingController.UpdateMeeting)
	meetingRoutes.DELETE("/:id", r.MeetingController.DeleteMeeting)
	meetingRoutes.POST("/:id/select-slot", r.MeetingController.SelectSlot)

	meetingRoutes.GET("/share/:slug", r.MeetingController.GetMeetingByShareSlug)
	meetingRoutes.POST("/share/:slug/join", r.MeetingController.JoinMeeting)
}
