package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"biblioteca-api/internal/shared/response"
)

// ErrorRecorder persists unexpected failures (the error log table)
type ErrorRecorder interface {
	Record(ctx context.Context, message, stackTrace string) error
}

// Recovery turns panics into the opaque 500 body and records them
func Recovery(recorder ErrorRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := string(debug.Stack())
				message := fmt.Sprint(rec)

				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("error", rec).
					Msg("Panic recovered")

				record(c, recorder, message, stack)
				response.WriteServerError(c)
			}
		}()

		c.Next()
	}
}

// ErrorHandler answers requests whose handler reported an unexpected error
// through response.Internal and nothing was written yet.
func ErrorHandler(recorder ErrorRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		log.Error().
			Err(err).
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")

		trace := fmt.Sprintf("%s %s\n%+v", c.Request.Method, c.Request.URL.Path, err)
		record(c, recorder, err.Error(), trace)
		response.WriteServerError(c)
	}
}

func record(c *gin.Context, recorder ErrorRecorder, message, stack string) {
	if recorder == nil {
		return
	}
	// The client may already be gone; the log entry must still be written.
	ctx := context.WithoutCancel(c.Request.Context())
	if err := recorder.Record(ctx, message, stack); err != nil {
		log.Error().Err(err).Msg("failed to persist error log")
	}
}
