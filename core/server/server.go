package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"meetsync/core/cache"
	"meetsync/core/config"
	"meetsync/core/constants"
	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/core/middleware"
	"meetsync/core/worker"
	"meetsync/modules/availability"
	"meetsync/modules/calendar"
	"meetsync/modules/meeting"
	"meetsync/modules/scheduling"
	schedService "meetsync/modules/scheduling/service"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Run boots the API server and the background worker, blocking until a
// termination signal arrives.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	cacheClient, err := cache.Init(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	taskClient := worker.NewClient(cfg.Redis)
	defer taskClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())

	mw := middleware.NewMiddleware()

	meetingSvc := meeting.Init(e, &db, mw)
	availabilitySvc := availability.Init(e, &db, mw, meetingSvc)
	calendarSvc := calendar.Init(e, &db, mw)
	schedulingSvc := scheduling.Init(e, &db, mw, cacheClient, taskClient,
		meetingSvc, availabilitySvc, calendarSvc)

	workerSrv := worker.NewServer(cfg.Redis)
	workerSrv.Mux().HandleFunc(schedService.TaskTypeRegenerate, schedService.HandleRegenerateTask(schedulingSvc))
	if err := workerSrv.Start(); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		logger.Info("Server:Starting", "addr", addr)
		if err := e.Start(addr); err != nil {
			logger.Info("Server:Stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server:ShuttingDown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	workerSrv.Shutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	return nil
}
