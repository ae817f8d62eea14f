package util

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Context keys for request metadata captured by IPMiddleware
const (
	ctxKeyClientIP  = "client_ip"
	ctxKeyUserAgent = "user_agent"
)

// IPMiddleware captures the caller's IP and user agent so the audit trail
// can record them from any layer that only holds a context
func IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxKeyClientIP, c.ClientIP())
		c.Set(ctxKeyUserAgent, c.Request.UserAgent())
		c.Next()
	}
}

// GetIPFromContext returns the caller's IP, or "" when the request did not
// pass through IPMiddleware
func GetIPFromContext(ctx context.Context) string {
	if gc, ok := ctx.(*gin.Context); ok {
		return gc.ClientIP()
	}
	if ip, ok := ctx.Value(ctxKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// GetUserAgentFromContext returns the caller's user agent, or "" when
// unknown
func GetUserAgentFromContext(ctx context.Context) string {
	if gc, ok := ctx.(*gin.Context); ok {
		return gc.Request.UserAgent()
	}
	if ua, ok := ctx.Value(ctxKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}
