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

// AdminHandler handles account administration
type AdminHandler struct {
	roles *usecases.RoleUsecase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(roles *usecases.RoleUsecase) *AdminHandler {
	return &AdminHandler{roles: roles}
}

// ListAccounts GET /api/v1/admin/accounts
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.roles.ListAccounts(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": accounts})
}

// ChangeRole PATCH /api/v1/admin/accounts/:id/role
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var input struct {
		Role entities.AccountRole `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	accounts, err := h.roles.ChangeRole(c.Request.Context(), middleware.GetSession(c), entities.ChangeRoleCommand{
		TargetID: c.Param("id"),
		NewRole:  input.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": accounts})
}

// RemoveAccount DELETE /api/v1/admin/accounts/:id
func (h *AdminHandler) RemoveAccount(c *gin.Context) {
	if err := h.roles.RemoveAccount(c.Request.Context(), middleware.GetSession(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
