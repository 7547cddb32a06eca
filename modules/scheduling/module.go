package scheduling

import (
	"meetsync/core/cache"
	"meetsync/core/database"
	"meetsync/core/middleware"
	"meetsync/modules/scheduling/controller"
	"meetsync/modules/scheduling/repository"
	"meetsync/modules/scheduling/router"
	"meetsync/modules/scheduling/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init initializes the scheduling module and registers routes. The worker
// side registers HandleRegenerateTask on its mux with the returned service.
func Init(
	e *echo.Echo,
	db database.IDatabase,
	mw *middleware.Middleware,
	c cache.Cache,
	taskClient *asynq.Client,
	meetings service.MeetingContextProvider,
	freeWindows service.FreeWindowStore,
	busy service.BusyProvider,
) service.SchedulingServiceInterface {
	repo := repository.NewSuggestionRepository(db)
	svc := service.NewSchedulingService(repo, meetings, freeWindows, busy, c, taskClient)
	ctrl := controller.NewSchedulingController(svc)
	rtr := router.NewSchedulingRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
