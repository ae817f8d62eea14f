package handlers

import (
	"net/http"

	"github.com/voltaic-systems/authhub/internal/services"

	"github.com/gin-gonic/gin"
)

// DataHandler serves the mock data plane for mapped internal apps
type DataHandler struct {
	dataService *services.DataService
}

// NewDataHandler creates a new data handler
func NewDataHandler(ds *services.DataService) *DataHandler {
	return &DataHandler{dataService: ds}
}

// Fetch godoc
//
//	@Summary		Fetch provider data
//	@Description	Serve the canned payload for a provider service. Requires an active connection.
//	@Tags			Data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			provider	path		string	true	"Provider name"
//	@Param			service		path		string	true	"Service name"
//	@Success		200			{object}	object
//	@Failure		400			{object}	object{error=string,error_description=string}	"Unknown provider or service"
//	@Failure		404			{object}	object{error=string,error_description=string}	"No active connection"
//	@Router			/api/v1/data/{provider}/{service} [get]
func (h *DataHandler) Fetch(c *gin.Context) {
	userID := c.GetInt64("user_id")

	payload, err := h.dataService.Fetch(userID, c.Param("provider"), c.Param("service"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// Sync godoc
//
//	@Summary		Request a data sync
//	@Description	Queue a sync for a provider service. Requires an active connection.
//	@Tags			Data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			provider	path		string	true	"Provider name"
//	@Param			service		path		string	true	"Service name"
//	@Success		202			{object}	object{status=string}
//	@Router			/api/v1/data/{provider}/{service} [post]
func (h *DataHandler) Sync(c *gin.Context) {
	userID := c.GetInt64("user_id")

	payload, err := h.dataService.Sync(userID, c.Param("provider"), c.Param("service"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, payload)
}
