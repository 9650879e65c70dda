package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"biblioteca-api/internal/infrastructure/database"
	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/internal/shared/hateoas"
)

// Pinger is a backend whose connection the health check verifies
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseProbe is satisfied by *database.PostgresDB
type DatabaseProbe interface {
	HealthCheck(ctx context.Context) error
	Stats() *database.PoolStats
}

type SystemHandler struct {
	db      DatabaseProbe
	cache   Pinger
	version string
}

func NewSystemHandler(db DatabaseProbe, cache Pinger, version string) *SystemHandler {
	return &SystemHandler{db: db, cache: cache, version: version}
}

// Root - GET /api/root
// Entry-point links depend on who is calling.
func (h *SystemHandler) Root(c *gin.Context) {
	principal := auth.FromContext(c.Request.Context())
	links := hateoas.RootLinks(hateoas.BaseURL(c), principal != nil, principal.IsAdmin())
	c.JSON(http.StatusOK, links)
}

// Health - GET /health
// The database decides the status code; a cache failure only degrades it.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	dbStatus := "ok"
	if err := h.db.HealthCheck(ctx); err != nil {
		log.Warn().Err(err).Msg("[Health] database check failed")
		dbStatus = "error: " + err.Error()
		status = "unavailable"
	}

	cacheStatus := "ok"
	if err := h.cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("[Health] cache check failed")
		cacheStatus = "error: " + err.Error()
		if status == "ok" {
			status = "degraded"
		}
	}

	code := http.StatusOK
	if dbStatus != "ok" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"services": gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
		},
		"pool": h.db.Stats(),
	})
}
