package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MetricsAuth gates the Prometheus scrape endpoint behind a static bearer
// token. An empty token leaves the endpoint open for in-cluster scrapers.
func MetricsAuth(token string) gin.HandlerFunc {
	if token == "" {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		provided := bearerToken(c)

		// Constant-time compare so the check leaks nothing about the token
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.Header("WWW-Authenticate", `Bearer realm="Metrics"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":             "unauthenticated",
				"error_description": "Valid bearer token required",
			})
			return
		}
		c.Next()
	}
}
