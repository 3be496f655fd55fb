package mailer

import (
	"net/http"

	"shiftwatch/internal/shared/apperror"
	"shiftwatch/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type SendRequest struct {
	SessionID string `json:"session_id" binding:"required,uuid"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	if err := h.service.Send(c.Request.Context(), req.SessionID); err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"queued": true})
}
