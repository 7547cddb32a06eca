package router

import (
	"meetsync/core/middleware"
	"meetsync/modules/scheduling/controller"

	"github.com/labstack/echo/v4"
)

// SchedulingRouter handles suggestion routes
type SchedulingRouter struct {
	SchedulingController *controller.SchedulingController
}

// NewSchedulingRouter creates a new router
func NewSchedulingRouter(schedulingController *controller.SchedulingController) *SchedulingRouter {
	return &SchedulingRouter{
		SchedulingController: schedulingController,
	}
}

// Setup registers suggestion routes under the meeting resource
func (r *SchedulingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	suggestionRoutes := privateRoutes.Group("/meetings/:id/suggestions", mw.AuthMiddleware())

	suggestionRoutes.POST("", r.SchedulingController.RegenerateSuggestions)
	suggestionRoutes.GET("", r.SchedulingController.GetSuggestions)
}
