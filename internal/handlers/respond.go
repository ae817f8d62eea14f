package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/voltaic-systems/authhub/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy to HTTP statuses. Errors
// outside the taxonomy are logged and returned as opaque 500s.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":             "unauthenticated",
			"error_description": "Authentication required or credentials invalid",
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "not_found",
			"error_description": err.Error(),
		})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":             "conflict",
			"error_description": err.Error(),
		})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "validation_error",
			"error_description": err.Error(),
		})
	default:
		// ErrIntegrity and unexpected store errors stay opaque
		log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "Internal server error",
		})
	}
}
