package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"biblioteca-api/internal/shared/hateoas"
	"biblioteca-api/internal/shared/pagination"
)

// CORS allows the configured origins and exposes the pagination header
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	allowHeaders := strings.Join([]string{"Authorization", "Content-Type", hateoas.Header, RequestIDHeader}, ", ")
	exposeHeaders := strings.Join([]string{pagination.TotalCountHeader, RequestIDHeader}, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok || allowAll {
				if allowAll {
					c.Header("Access-Control-Allow-Origin", "*")
				} else {
					c.Header("Access-Control-Allow-Origin", origin)
					c.Header("Vary", "Origin")
				}
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				c.Header("Access-Control-Allow-Headers", allowHeaders)
				c.Header("Access-Control-Expose-Headers", exposeHeaders)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
