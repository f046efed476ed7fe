package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/services"
)

type MailingListHandler struct {
	log            *logger.Logger
	mailingService services.MailingListService
}

func NewMailingListHandler(log *logger.Logger, mailingService services.MailingListService) *MailingListHandler {
	return &MailingListHandler{
		log:            log.With("handler", "MailingListHandler"),
		mailingService: mailingService,
	}
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (h *MailingListHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, "invalid_body", err)
		return
	}
	if err := h.mailingService.Subscribe(c.Request.Context(), req.Email); err != nil {
		h.log.Error("Subscribe failed", "error", err)
		RespondMappedError(c, err)
		return
	}
	RespondOK(c, gin.H{"subscribed": true})
}

func (h *MailingListHandler) Unsubscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, "invalid_body", err)
		return
	}
	if err := h.mailingService.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		h.log.Error("Unsubscribe failed", "error", err)
		RespondMappedError(c, err)
		return
	}
	RespondOK(c, gin.H{"subscribed": false})
}
