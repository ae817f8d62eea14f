package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/voltaic-systems/authhub/internal/services"
	"github.com/voltaic-systems/authhub/internal/store"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin bookkeeping API
type AdminHandler struct {
	adminService *services.AdminService
	auditService *services.AuditService
	appService   *services.AppService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	as *services.AdminService,
	audit *services.AuditService,
	apps *services.AppService,
) *AdminHandler {
	return &AdminHandler{
		adminService: as,
		auditService: audit,
		appService:   apps,
	}
}

// ListLogs godoc
//
//	@Summary		List audit logs
//	@Description	Paginated audit trail joined with the actor's email, filterable by action, user and time window
//	@Tags			Admin
//	@Produce		json
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size (max 50)"
//	@Param			action		query		string	false	"Filter by action"
//	@Param			user_id		query		int		false	"Filter by user id"
//	@Param			search		query		string	false	"Search in action and resource"
//	@Success		200			{object}	object{logs=[]store.AuditLogRecord,pagination=store.PaginationResult}
//	@Router			/api/admin/logs [get]
func (h *AdminHandler) ListLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	params := store.NewPaginationParams(page, pageSize, c.Query("search"))

	filters := store.AuditLogFilters{
		Action:   c.Query("action"),
		Resource: c.Query("resource"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("user_id"); raw != "" {
		if userID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.UserID = &userID
		}
	}
	if raw := c.Query("start_time"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.StartTime = t
		}
	}
	if raw := c.Query("end_time"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filters.EndTime = t
		}
	}

	logs, pagination, err := h.auditService.List(params, filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"logs":       logs,
		"pagination": pagination,
	})
}

// LogStats godoc
//
//	@Summary		Audit trail statistics
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	store.AuditLogStats
//	@Router			/api/admin/logs/stats [get]
func (h *AdminHandler) LogStats(c *gin.Context) {
	stats, err := h.auditService.Stats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Stats godoc
//
//	@Summary		Dashboard statistics
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	services.DashboardStats
//	@Router			/api/admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RegisterApp godoc
//
//	@Summary		Register an internal app
//	@Description	Create an internal app from a manifest submission
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		services.RegisterAppInput	true	"App manifest"
//	@Success		201		{object}	models.InternalApp
//	@Failure		400		{object}	object{error=string,error_description=string}	"Missing name, display_name or manifest"
//	@Router			/api/admin/register-app [post]
func (h *AdminHandler) RegisterApp(c *gin.Context) {
	var input services.RegisterAppInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "validation_error",
			"error_description": "invalid request body",
		})
		return
	}

	app, err := h.appService.Register(input, services.MetaFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// ListApps godoc
//
//	@Summary		List internal apps
//	@Description	Deduplicated by (name, display_name), keeping the lowest id per group
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	object{apps=[]models.InternalApp}
//	@Router			/api/admin/apps [get]
func (h *AdminHandler) ListApps(c *gin.Context) {
	apps, err := h.appService.ListDeduplicated()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"apps": apps})
}

type verifyPasswordRequest struct {
	Password string `json:"password"`
}

// VerifyPassword godoc
//
//	@Summary		Verify the admin password
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		verifyPasswordRequest	true	"Candidate password"
//	@Success		200		{object}	object{valid=bool}
//	@Router			/api/admin/verify-password [post]
func (h *AdminHandler) VerifyPassword(c *gin.Context) {
	var req verifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "validation_error",
			"error_description": "invalid request body",
		})
		return
	}

	valid, err := h.adminService.VerifyPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdatePassword godoc
//
//	@Summary		Change the admin password
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		updatePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	object{status=string}
//	@Failure		401		{object}	object{error=string,error_description=string}	"Current password wrong"
//	@Router			/api/admin/password [put]
func (h *AdminHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "validation_error",
			"error_description": "invalid request body",
		})
		return
	}

	err := h.adminService.UpdatePassword(
		req.CurrentPassword,
		req.NewPassword,
		services.MetaFromContext(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
