package worker

import (
	"context"

	"meetsync/core/config"
	"meetsync/core/constants"
	"meetsync/core/logger"

	"github.com/hibiken/asynq"
)

// NewClient creates the task queue client used by HTTP handlers
func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Server wraps the task queue consumer
type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewServer creates the background worker. Handlers are registered on Mux
// before Start is called.
func NewServer(cfg config.RedisConfig) *Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: constants.WorkerConcurrency,
			Queues: map[string]int{
				constants.RegenerationQueue: 5,
				"default":                   1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Worker:TaskFailed", "type", task.Type(), "error", err)
			}),
		},
	)

	return &Server{srv: srv, mux: asynq.NewServeMux()}
}

// Mux exposes the handler registry
func (s *Server) Mux() *asynq.ServeMux {
	return s.mux
}

// Start runs the consumer loop without blocking the caller
func (s *Server) Start() error {
	logger.Info("Worker:Starting", "queue", constants.RegenerationQueue)
	return s.srv.Start(s.mux)
}

// Shutdown waits for in-flight tasks and stops the consumer
func (s *Server) Shutdown() {
	logger.Info("Worker:ShuttingDown")
	s.srv.Shutdown()
}
