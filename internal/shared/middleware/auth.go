package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"biblioteca-api/internal/shared/auth"
	"biblioteca-api/internal/shared/response"
	"biblioteca-api/pkg/jwt"
)

// Authenticate resolves the bearer token, when present, into a principal
// stored in the request context. Requests without a valid token continue
// as anonymous; RequireAuth/RequireAdmin decide whether that is enough.
func Authenticate(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("rejected bearer token")
			c.Next()
			return
		}

		principal, err := auth.FromClaims(claims)
		if err != nil {
			log.Debug().Err(err).Msg("token carries an invalid user id")
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// RequireAuth answers 401 for anonymous callers
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.FromContext(c.Request.Context()) == nil {
			response.Unauthorized(c, "authentication required")
			return
		}
		c.Next()
	}
}

// bearerToken extracts <token> from "Bearer <token>"
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
