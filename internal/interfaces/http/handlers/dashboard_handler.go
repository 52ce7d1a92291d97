package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"udyokta.backend/internal/interfaces/http/middleware"
	"udyokta.backend/internal/interfaces/http/response"
	"udyokta.backend/internal/usecases"
)

// DashboardHandler serves read-only aggregates
type DashboardHandler struct {
	dashboard *usecases.DashboardUsecase
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *usecases.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary GET /api/v1/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// Projects GET /api/v1/projects
func (h *DashboardHandler) Projects(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"items": h.dashboard.Projects(c.Request.Context())})
}

// Pools GET /api/v1/pools
func (h *DashboardHandler) Pools(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"items": h.dashboard.Pools(c.Request.Context())})
}
