package calendar

import (
	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/modules/calendar/controller"
	"meetsync/modules/calendar/repository"
	"meetsync/modules/calendar/router"
	"meetsync/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the calendar module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) service.CalendarService {
	repo := repository.NewCalendarRepository(db)
	svc := service.NewCalendarService(repo)
	ctrl := controller.NewCalendarController(svc)
	rtr := router.NewCalendarRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
