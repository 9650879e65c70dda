package middleware

import (
	"github.com/gin-gonic/gin"

	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/internal/shared/response"
)

// RequireAdmin enforces the "is-admin" policy:
// 401 for anonymous callers, 403 for authenticated non-admins.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := auth.FromContext(c.Request.Context())
		if principal == nil {
			response.Unauthorized(c, "authentication required")
			return
		}
		if !principal.IsAdmin() {
			response.Forbidden(c, "admin policy required")
			return
		}
		c.Next()
	}
}
