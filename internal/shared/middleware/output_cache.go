package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"biblioteca-api/internal/shared/hateoas"
	"biblioteca-api/internal/shared/pagination"
	"biblioteca-api/pkg/cache"
)

// cachedHeaders are replayed on a cache hit
var cachedHeaders = []string{"Content-Type", pagination.TotalCountHeader}

// OutputCache serves anonymous GET requests from store and records
// successful responses under the given tags. Authenticated requests
// bypass the cache because their bodies depend on the caller.
func OutputCache(store cache.OutputCache, ttl time.Duration, tags ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || c.Request.Method != http.MethodGet || c.GetHeader("Authorization") != "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cacheKey(c)

		entry, found, err := store.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("[CACHE] lookup failed")
		}
		if found {
			for name, values := range entry.Header {
				for _, v := range values {
					c.Writer.Header().Add(name, v)
				}
			}
			c.Writer.WriteHeader(entry.Status)
			_, _ = c.Writer.Write(entry.Body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		if len(c.Errors) > 0 || recorder.Status() != http.StatusOK {
			return
		}

		header := http.Header{}
		for _, name := range cachedHeaders {
			if v := recorder.Header().Get(name); v != "" {
				header.Set(name, v)
			}
		}
		newEntry := &cache.Entry{
			Status: http.StatusOK,
			Header: header,
			Body:   recorder.body.Bytes(),
		}
		if err := store.Set(ctx, key, newEntry, tags, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("[CACHE] store failed")
		}
	}
}

// cacheKey varies by path, sorted query and the HATEOAS opt-in header
func cacheKey(c *gin.Context) string {
	key := c.Request.URL.Path
	if q := c.Request.URL.Query().Encode(); q != "" {
		key += "?" + q
	}
	if hateoas.Requested(c) {
		key += "|hateoas"
	}
	return key
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
