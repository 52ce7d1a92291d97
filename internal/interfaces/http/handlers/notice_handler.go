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

// NoticeHandler handles notices and the urgent alert
type NoticeHandler struct {
	notices *usecases.NoticeUsecase
}

// NewNoticeHandler creates a new notice handler
func NewNoticeHandler(notices *usecases.NoticeUsecase) *NoticeHandler {
	return &NoticeHandler{notices: notices}
}

// Broadcast publishes a notice
// POST /api/v1/admin/notices
func (h *NoticeHandler) Broadcast(c *gin.Context) {
	var input entities.BroadcastInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	notice, err := h.notices.Broadcast(c.Request.Context(), middleware.GetSession(c), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"notice": notice})
}

// List returns every notice
// GET /api/v1/notices
func (h *NoticeHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"items": h.notices.List(c.Request.Context())})
}

// Urgent returns the active urgent alert of the session, or null
// GET /api/v1/notices/urgent
func (h *NoticeHandler) Urgent(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"urgentNotice": h.notices.ActiveUrgent(c.Request.Context(), middleware.GetSession(c)),
	})
}

// Acknowledge dismisses the urgent alert for this session
// POST /api/v1/notices/urgent/ack
func (h *NoticeHandler) Acknowledge(c *gin.Context) {
	h.notices.AcknowledgeUrgent(c.Request.Context(), middleware.GetSession(c))
	c.Status(http.StatusNoContent)
}

// Reload re-reads persisted state for this session
// POST /api/v1/session/reload
func (h *NoticeHandler) Reload(c *gin.Context) {
	active, err := h.notices.Reload(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"urgentNotice": active})
}
