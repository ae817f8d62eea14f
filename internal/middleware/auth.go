package middleware

import (
	"net/http"
	"strings"

	"github.com/voltaic-systems/authhub/internal/metrics"
	"github.com/voltaic-systems/authhub/internal/token"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the key under which the authenticated user id is stored
const ContextUserID = "user_id"

// bearerToken extracts the token from the Authorization header
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// RequireAuth rejects requests without a valid bearer session token.
// Every verification failure collapses to one 401: the response does not
// distinguish a missing token from an expired or forged one.
func RequireAuth(tokens *token.Manager, rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := tokens.Verify(bearerToken(c))
		rec.RecordTokenValidation(err == nil)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":             "unauthenticated",
				"error_description": "Authentication required or credentials invalid",
			})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// OptionalAuth attaches the user id when a valid token is present and lets
// the request through anonymously otherwise
func OptionalAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := tokens.VerifyOptional(bearerToken(c)); ok {
			c.Set(ContextUserID, userID)
		}
		c.Next()
	}
}
