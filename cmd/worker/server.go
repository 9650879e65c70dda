package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"biblioteca-api/internal/infrastructure/queue"
	"biblioteca-api/pkg/container"
)

type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer registers the task handlers and starts processing
func setupAsynqServer(cfg *Config, photos *queue.DeletePhotoHandler) *asynqServer {
	mux := asynq.NewServeMux()
	queue.RegisterHandlers(mux, photos)

	concurrency := cfg.Queue.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	srv := asynq.NewServer(
		container.RedisConnOpt(cfg.Config),
		asynq.Config{
			Queues:      map[string]int{queue.QueueDefault: 1},
			Concurrency: concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).Msg("[Asynq] task failed")
			}),
		},
	)

	go func() {
		log.Info().Msg("[Worker] starting")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("[Worker] failed")
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks; asynq applies its own timeout
func (s *asynqServer) Shutdown() {
	log.Info().Msg("[Worker] shutting down")
	s.Server.Shutdown()
	log.Info().Msg("[Worker] stopped")
}
