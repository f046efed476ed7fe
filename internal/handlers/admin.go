package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/requestdata"
	"github.com/courseforge/backend/internal/services"
)

type AdminHandler struct {
	log            *logger.Logger
	cleanupService services.CleanupService
}

func NewAdminHandler(log *logger.Logger, cleanupService services.CleanupService) *AdminHandler {
	return &AdminHandler{
		log:            log.With("handler", "AdminHandler"),
		cleanupService: cleanupService,
	}
}

func (h *AdminHandler) DeleteGeneratedContent(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || !rd.IsAdmin {
		RespondError(c, 403, "forbidden", nil)
		return
	}
	report, err := h.cleanupService.DeleteGeneratedContent(c.Request.Context())
	if err != nil {
		h.log.Error("DeleteGeneratedContent failed", "error", err)
		RespondMappedError(c, err)
		return
	}
	RespondOK(c, report)
}
