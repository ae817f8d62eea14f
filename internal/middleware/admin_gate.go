package middleware

import (
	"net/http"

	"github.com/voltaic-systems/authhub/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminPasswordHeader carries the admin credential when the admin API is
// gated
const AdminPasswordHeader = "X-Admin-Password"

// AdminGate optionally protects the admin route group. When disabled it is
// a no-op, matching deployments where the admin UI runs on a trusted
// network; when enabled every request must carry the admin password.
func AdminGate(enabled bool, adminService *services.AdminService) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		candidate := c.GetHeader(AdminPasswordHeader)
		valid, err := adminService.VerifyPassword(candidate)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":             "server_error",
				"error_description": "Internal server error",
			})
			return
		}
		if !valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":             "unauthenticated",
				"error_description": "Admin credential required",
			})
			return
		}
		c.Next()
	}
}
