package router

import (
	"meetsync/core/middleware"
	"meetsync/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

// AvailabilityRouter handles availability routes
type AvailabilityRouter struct {
	AvailabilityController *controller.AvailabilityController
}

// NewAvailabilityRouter creates a new router
func NewAvailabilityRouter(availabilityController *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{
		AvailabilityController: availabilityController,
	}
}

// Setup registers availability routes under the meeting resource
func (r *AvailabilityRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	availabilityRoutes := privateRoutes.Group("/meetings/:id/availability", mw.AuthMiddleware())

	availabilityRoutes.POST("", r.AvailabilityController.SubmitAvailability)
	availabilityRoutes.PUT("", r.AvailabilityController.SubmitAvailability)
	availabilityRoutes.GET("", r.AvailabilityController.GetMeetingAvailability)
	availabilityRoutes.GET("/me", r.AvailabilityController.GetMyAvailability)
}
