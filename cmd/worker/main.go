package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"biblioteca-api/internal/infrastructure/queue"
	"biblioteca-api/pkg/container"
	"biblioteca-api/pkg/logger"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("[Config] failed to load")
	}
	logger.Init(cfg.App.Environment, "worker")
	if envErr != nil {
		logger.Warn("[Config] no .env file found", map[string]interface{}{"error": envErr.Error()})
	}

	files, err := container.NewFileStorage(context.Background(), cfg.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("[Storage] failed to initialize")
	}

	photos := queue.NewDeletePhotoHandler(files)
	srv := setupAsynqServer(cfg, photos)

	if err := startServices(cfg); err != nil {
		log.Fatal().Err(err).Msg("[Startup] health check failed")
	}

	waitForShutdown(srv)
}

func waitForShutdown(srv *asynqServer) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] gracefully stopping")
	srv.Shutdown()
	log.Info().Msg("[Shutdown] stopped")
}
