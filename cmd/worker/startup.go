package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	infracache "biblioteca-api/internal/infrastructure/cache"
)

// startServices checks Redis and exposes the worker health endpoints
func startServices(cfg *Config) error {
	client := infracache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	log.Info().Msg("[Startup] redis connection ok")

	go startHealthCheckServer(cfg.HealthAddr)
	return nil
}

func startHealthCheckServer(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthCheckHandler)
	mux.HandleFunc("/ready", readyCheckHandler)

	log.Info().Str("addr", addr).Msg("[Health] starting health check server")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("[Health] failed to start")
	}
}

func healthCheckHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"UP","service":"biblioteca-worker"}`))
}

// readyCheckHandler backs the readiness probe
func readyCheckHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"READY"}`))
}
