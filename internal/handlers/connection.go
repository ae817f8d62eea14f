package handlers

import (
	"net/http"
	"strconv"

	"github.com/voltaic-systems/authhub/internal/services"

	"github.com/gin-gonic/gin"
)

// ConnectionHandler serves the caller's linked connections
type ConnectionHandler struct {
	connectionService *services.ConnectionService
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(cs *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: cs}
}

// List godoc
//
//	@Summary		List connections
//	@Description	All of the caller's connections, deleted ones included
//	@Tags			Connections
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	object{connections=[]models.Connection}
//	@Router			/api/connections [get]
func (h *ConnectionHandler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")

	connections, err := h.connectionService.List(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connections": connections})
}

// Get godoc
//
//	@Summary		Get a connection
//	@Description	One of the caller's connections, deleted ones included
//	@Tags			Connections
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Connection ID"
//	@Success		200	{object}	models.Connection
//	@Failure		404	{object}	object{error=string,error_description=string}	"Unknown or not owned"
//	@Router			/api/connections/{id} [get]
func (h *ConnectionHandler) Get(c *gin.Context) {
	userID := c.GetInt64("user_id")
	connID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "validation_error",
			"error_description": "invalid connection id",
		})
		return
	}

	conn, err := h.connectionService.Get(userID, connID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conn)
}

// Disconnect godoc
//
//	@Summary		Disconnect a connection
//	@Description	Soft-delete the caller's connection. Idempotent: repeating the call succeeds.
//	@Tags			Connections
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Connection ID"
//	@Success		200	{object}	object{status=string}
//	@Failure		404	{object}	object{error=string,error_description=string}	"Unknown or not owned"
//	@Router			/api/connections/{id} [delete]
func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	userID := c.GetInt64("user_id")
	connID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "validation_error",
			"error_description": "invalid connection id",
		})
		return
	}

	if err := h.connectionService.Disconnect(userID, connID, services.MetaFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "disconnected"})
}

// Refresh godoc
//
//	@Summary		Request a token refresh
//	@Description	Acknowledge a refresh request for an active connection
//	@Tags			Connections
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Connection ID"
//	@Success		202	{object}	object{status=string}
//	@Failure		404	{object}	object{error=string,error_description=string}	"Unknown, not owned or inactive"
//	@Router			/api/connections/{id}/refresh [post]
func (h *ConnectionHandler) Refresh(c *gin.Context) {
	userID := c.GetInt64("user_id")
	connID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "validation_error",
			"error_description": "invalid connection id",
		})
		return
	}

	if _, err := h.connectionService.RequestRefresh(userID, connID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh_requested"})
}
