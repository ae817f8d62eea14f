package handlers

import (
	"net/http"
	"strconv"

	"github.com/voltaic-systems/authhub/internal/services"

	"github.com/gin-gonic/gin"
)

// ProviderHandler serves the provider registry read API
type ProviderHandler struct {
	providerService *services.ProviderService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(ps *services.ProviderService) *ProviderHandler {
	return &ProviderHandler{providerService: ps}
}

// List godoc
//
//	@Summary		List providers
//	@Description	Enabled providers ordered by display name. With a valid bearer token each provider carries the caller's connection state.
//	@Tags			Providers
//	@Produce		json
//	@Success		200	{object}	object{providers=[]services.ProviderStatus}
//	@Router			/api/providers [get]
func (h *ProviderHandler) List(c *gin.Context) {
	if userID := c.GetInt64("user_id"); userID != 0 {
		providers, err := h.providerService.ListForUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"providers": providers})
		return
	}

	providers, err := h.providerService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// Get godoc
//
//	@Summary		Get provider
//	@Tags			Providers
//	@Produce		json
//	@Param			id	path		int	true	"Provider ID"
//	@Success		200	{object}	models.Provider
//	@Failure		404	{object}	object{error=string,error_description=string}	"Unknown provider"
//	@Router			/api/providers/{id} [get]
func (h *ProviderHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "validation_error",
			"error_description": "invalid provider id",
		})
		return
	}

	provider, err := h.providerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}
