package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"udyokta.backend/internal/domain/entities"
	domainerrors "udyokta.backend/internal/domain/errors"
	"udyokta.backend/internal/interfaces/http/middleware"
	"udyokta.backend/internal/interfaces/http/response"
	"udyokta.backend/internal/usecases"
)

// SettingsHandler handles branding and device settings
type SettingsHandler struct {
	settings *usecases.SettingsUsecase
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings *usecases.SettingsUsecase) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	response.Success(c, http.StatusOK, h.settings.Get(c.Request.Context()))
}

// SetTheme PUT /api/v1/settings/theme
func (h *SettingsHandler) SetTheme(c *gin.Context) {
	var input struct {
		Theme entities.Theme `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	out, err := h.settings.SetTheme(c.Request.Context(), input.Theme)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// MarkPermissionsRequested POST /api/v1/settings/permissions
func (h *SettingsHandler) MarkPermissionsRequested(c *gin.Context) {
	out, err := h.settings.MarkPermissionsRequested(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// UpdateBranding PUT /api/v1/admin/branding
func (h *SettingsHandler) UpdateBranding(c *gin.Context) {
	var input entities.BrandingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	out, err := h.settings.UpdateBranding(c.Request.Context(), middleware.GetSession(c), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// ResetLogo DELETE /api/v1/admin/branding/logo
func (h *SettingsHandler) ResetLogo(c *gin.Context) {
	out, err := h.settings.ResetLogo(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}
