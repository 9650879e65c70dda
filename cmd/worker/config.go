package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"biblioteca-api/internal/config"
)

// Config is the application config plus the worker's own settings
type Config struct {
	*config.Config
	HealthAddr string
}

func loadConfig() (*Config, error) {
	appCfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	cfg := &Config{Config: appCfg, HealthAddr: ":9999"}
	if addr := os.Getenv("WORKER_HEALTH_ADDR"); addr != "" {
		cfg.HealthAddr = addr
	}

	log.Info().
		Str("redis", cfg.Redis.Host).
		Str("storage", cfg.Storage.Driver).
		Int("concurrency", cfg.Queue.Concurrency).
		Msg("[Config] loaded")
	return cfg, nil
}
