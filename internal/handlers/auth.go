package handlers

import (
	"net/http"

	"github.com/voltaic-systems/authhub/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves the OAuth linkage flow
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(as *services.AuthService, us *services.UserService) *AuthHandler {
	return &AuthHandler{authService: as, userService: us}
}

// Authorize godoc
//
//	@Summary		Start OAuth authorization
//	@Description	Build the provider authorization URL with a fresh CSRF state token
//	@Tags			Auth
//	@Produce		json
//	@Param			provider	path		string											true	"Provider name"
//	@Success		200			{object}	object{auth_url=string,state=string}			"Authorization URL"
//	@Failure		404			{object}	object{error=string,error_description=string}	"Unknown provider"
//	@Router			/api/auth/{provider} [get]
func (h *AuthHandler) Authorize(c *gin.Context) {
	provider := c.Param("provider")

	authURL, state, err := h.authService.AuthorizeURL(provider)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"auth_url": authURL,
		"state":    state,
	})
}

type callbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// Callback godoc
//
//	@Summary		Complete OAuth authorization
//	@Description	Exchange the authorization code, link the connection and issue a session token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			provider	path		string																			true	"Provider name"
//	@Param			request		body		callbackRequest																	true	"Authorization code"
//	@Success		200			{object}	object{access_token=string,token_type=string,expires_in=int,user=object}		"Session issued"
//	@Failure		400			{object}	object{error=string,error_description=string}									"Missing code"
//	@Failure		401			{object}	object{error=string,error_description=string}									"Exchange failed"
//	@Router			/api/auth/{provider}/callback [post]
func (h *AuthHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")

	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "validation_error",
			"error_description": "code is required",
		})
		return
	}

	result, err := h.authService.HandleCallback(
		c.Request.Context(),
		provider,
		req.Code,
		services.MetaFromContext(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": result.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   result.ExpiresIn,
		"user":         result.User,
	})
}

// Me godoc
//
//	@Summary		Current user
//	@Description	Return the authenticated user's profile
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	models.User
//	@Failure		401	{object}	object{error=string,error_description=string}	"Unauthenticated"
//	@Router			/api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.userService.GetByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
