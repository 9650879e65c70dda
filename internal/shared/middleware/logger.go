package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/internal/shared/utils"
)

// Logger writes one line per request. 4xx are warnings, 5xx errors.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}

		if query != "" {
			event = event.Str("query", query)
		}
		if p := auth.FromContext(c.Request.Context()); p != nil {
			event = event.Str("user_id", p.UserID.String())
		}

		event.
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency_ms", time.Since(start)).
			Str("ip", utils.ExtractClientIP(c)).
			Msg("HTTP Request")
	}
}
