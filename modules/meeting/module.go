package meeting

import (
	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/modules/meeting/controller"
	"meetsync/modules/meeting/repository"
	"meetsync/modules/meeting/router"
	"meetsync/modules/meeting/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the meeting module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) service.MeetingServiceInterface {
	repo := repository.NewMeetingRepository(db)
	svc := service.NewMeetingService(repo)
	ctrl := controller.NewMeetingController(svc)
	rtr := router.NewMeetingRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
