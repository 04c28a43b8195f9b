package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yurikawa/task-tracker-api/internal/auth"
	"github.com/yurikawa/task-tracker-api/internal/constants"
	apierrors "github.com/yurikawa/task-tracker-api/internal/errors"
)

// RequireAuth verifies the bearer token on each request and attaches
// the decoded identity to the context. This is the single enforcement
// point for authentication; handlers trust the attached identity.
//
// A missing Authorization header is rejected with 401; a token that
// fails verification with 400. The two cases carry distinct fixed
// messages.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "Access denied. No token provided.")
			c.Abort()
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.Verify(raw)
		if err != nil {
			apierrors.InvalidToken(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyUsername, claims.Username)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUsername retrieves the current username from context
func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(constants.ContextKeyUsername)
	if !exists {
		return "", false
	}
	s, ok := username.(string)
	return s, ok
}
