package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/services"
)

type TaxonomyHandler struct {
	log             *logger.Logger
	taxonomyService services.TaxonomyService
}

func NewTaxonomyHandler(log *logger.Logger, taxonomyService services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{
		log:             log.With("handler", "TaxonomyHandler"),
		taxonomyService: taxonomyService,
	}
}

func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.taxonomyService.ListCategories(c.Request.Context())
	if err != nil {
		h.log.Error("ListCategories failed", "error", err)
		RespondMappedError(c, err)
		return
	}
	RespondOK(c, gin.H{"categories": categories})
}

type ensureSubCategoryRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

func (h *TaxonomyHandler) EnsureSubCategory(c *gin.Context) {
	var req ensureSubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, "invalid_body", err)
		return
	}
	sub, err := h.taxonomyService.EnsureSubCategory(c.Request.Context(), req.Category, req.Name)
	if err != nil {
		h.log.Error("EnsureSubCategory failed", "error", err)
		RespondMappedError(c, err)
		return
	}
	RespondOK(c, gin.H{"subCategory": sub})
}
