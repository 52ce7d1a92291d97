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

// InvestmentHandler handles the investment ledger
type InvestmentHandler struct {
	ledger *usecases.InvestmentUsecase
}

// NewInvestmentHandler creates a new investment handler
func NewInvestmentHandler(ledger *usecases.InvestmentUsecase) *InvestmentHandler {
	return &InvestmentHandler{ledger: ledger}
}

// Submit records a pending investment
// POST /api/v1/investments
func (h *InvestmentHandler) Submit(c *gin.Context) {
	var input entities.SubmitInvestmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	inv, err := h.ledger.Submit(c.Request.Context(), middleware.GetSession(c), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"investment": inv})
}

// List returns the visible ledger
// GET /api/v1/investments?status=PENDING&projectId=1&page=1&limit=20
func (h *InvestmentHandler) List(c *gin.Context) {
	var filter entities.InvestmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	items, meta, err := h.ledger.List(c.Request.Context(), middleware.GetSession(c), &filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"items": items,
		"meta":  meta,
	})
}

// Approve approves a pending investment
// POST /api/v1/admin/investments/:id/approve
func (h *InvestmentHandler) Approve(c *gin.Context) {
	inv, project, err := h.ledger.Approve(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"investment": inv,
		"project":    project,
	})
}

// Reject rejects a pending investment
// POST /api/v1/admin/investments/:id/reject
func (h *InvestmentHandler) Reject(c *gin.Context) {
	inv, err := h.ledger.Reject(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"investment": inv})
}
