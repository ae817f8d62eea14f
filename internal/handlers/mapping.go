package handlers

import (
	"net/http"
	"strconv"

	"github.com/voltaic-systems/authhub/internal/models"
	"github.com/voltaic-systems/authhub/internal/services"
	"github.com/voltaic-systems/authhub/internal/store"

	"github.com/gin-gonic/gin"
)

// External services offered to the mapping UI. The provider registry owns
// which of these actually serve data.
var externalServices = []gin.H{
	{"name": "gmail", "display_name": "Gmail", "provider": "google"},
	{"name": "calendar", "display_name": "Google Calendar", "provider": "google"},
}

// MappingHandler serves the service-to-app mapping API
type MappingHandler struct {
	mappingService *services.MappingService
	appService     *services.AppService
}

// NewMappingHandler creates a new mapping handler
func NewMappingHandler(ms *services.MappingService, as *services.AppService) *MappingHandler {
	return &MappingHandler{mappingService: ms, appService: as}
}

// ListInternalApps godoc
//
//	@Summary		List active internal apps
//	@Tags			Mapping
//	@Produce		json
//	@Success		200	{object}	object{apps=[]models.InternalApp}
//	@Router			/api/mapping/internal-apps [get]
func (h *MappingHandler) ListInternalApps(c *gin.Context) {
	apps, err := h.appService.ListActive()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"apps": apps})
}

// ListExternalServices godoc
//
//	@Summary		List mappable external services
//	@Tags			Mapping
//	@Produce		json
//	@Success		200	{object}	object{services=[]object}
//	@Router			/api/mapping/external-services [get]
func (h *MappingHandler) ListExternalServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": externalServices})
}

// Create godoc
//
//	@Summary		Create a mapping
//	@Description	Map an external service onto an active internal app
//	@Tags			Mapping
//	@Accept			json
//	@Produce		json
//	@Param			request	body		services.CreateMappingInput	true	"Mapping"
//	@Success		201		{object}	models.AppMapping
//	@Failure		404		{object}	object{error=string,error_description=string}	"Target app missing or inactive"
//	@Router			/api/mapping/create [post]
func (h *MappingHandler) Create(c *gin.Context) {
	var input services.CreateMappingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "validation_error",
			"error_description": "invalid request body",
		})
		return
	}

	mapping, err := h.mappingService.Create(input, services.MetaFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapping)
}

// List godoc
//
//	@Summary		List mappings
//	@Tags			Mapping
//	@Produce		json
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size (max 50)"
//	@Param			search		query		string	false	"Search in external service"
//	@Success		200			{object}	object{mappings=[]models.AppMapping,pagination=store.PaginationResult}
//	@Router			/api/mapping/list [get]
func (h *MappingHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	params := store.NewPaginationParams(page, pageSize, c.Query("search"))

	mappings, pagination, err := h.mappingService.List(params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mappings":   mappings,
		"pagination": pagination,
	})
}

type updateMappingRequest struct {
	MappingConfig *models.JSONMap `json:"mapping_config"`
	Status        *string         `json:"status"`
}

// Update godoc
//
//	@Summary		Partially update a mapping
//	@Description	Only supplied fields change. An empty update is a no-op: no updated_at bump, no audit entry.
//	@Tags			Mapping
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Mapping ID"
//	@Param			request	body		updateMappingRequest	true	"Fields to change"
//	@Success		200		{object}	models.AppMapping
//	@Failure		404		{object}	object{error=string,error_description=string}	"Unknown mapping"
//	@Router			/api/mapping/{id} [put]
func (h *MappingHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "validation_error",
			"error_description": "invalid mapping id",
		})
		return
	}

	var req updateMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "validation_error",
			"error_description": "invalid request body",
		})
		return
	}

	mapping, err := h.mappingService.Update(id, store.MappingUpdate{
		MappingConfig: req.MappingConfig,
		Status:        req.Status,
	}, services.MetaFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapping)
}

// Delete godoc
//
//	@Summary		Delete a mapping
//	@Tags			Mapping
//	@Produce		json
//	@Param			id	path		int	true	"Mapping ID"
//	@Success		200	{object}	object{status=string}
//	@Failure		404	{object}	object{error=string,error_description=string}	"Unknown mapping"
//	@Router			/api/mapping/{id} [delete]
func (h *MappingHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "validation_error",
			"error_description": "invalid mapping id",
		})
		return
	}

	if err := h.mappingService.Delete(id, services.MetaFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
