// Package middleware provides the gin middleware chain: JWT
// authentication, request logging, and prometheus instrumentation.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/settleroom/settleroom/internal/auth"
)

// UserIDKey is the gin context key holding the authenticated user ID.
const UserIDKey = "user_id"

// UserID extracts the authenticated user ID from the context.
// Returns empty string if not set.
func UserID(c *gin.Context) string {
	id, _ := c.Get(UserIDKey)
	s, _ := id.(string)
	return s
}

// RequireAuth validates the Bearer token and stores the caller's user
// ID in the request context. Requests without a valid token get 401.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}
