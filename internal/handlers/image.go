package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/services"
)

type ImageHandler struct {
	log          *logger.Logger
	imageService services.ImageSearchService
}

func NewImageHandler(log *logger.Logger, imageService services.ImageSearchService) *ImageHandler {
	return &ImageHandler{
		log:          log.With("handler", "ImageHandler"),
		imageService: imageService,
	}
}

func (h *ImageHandler) Search(c *gin.Context) {
	term := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	images, err := h.imageService.Search(c.Request.Context(), term, page)
	if err != nil {
		h.log.Error("Image search failed", "error", err, "term", term)
		RespondMappedError(c, err)
		return
	}
	RespondOK(c, gin.H{"images": images})
}
