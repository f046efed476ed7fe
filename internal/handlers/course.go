package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/requestdata"
	"github.com/courseforge/backend/internal/services"
	"github.com/courseforge/backend/internal/types"
)

type CourseHandler struct {
	log           *logger.Logger
	saveService   services.CourseSaveService
	genService    services.CourseGenerationService
	memberService services.MemberService
}

func NewCourseHandler(
	log *logger.Logger,
	saveService services.CourseSaveService,
	genService services.CourseGenerationService,
	memberService services.MemberService,
) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		saveService:   saveService,
		genService:    genService,
		memberService: memberService,
	}
}

type saveCourseRequest struct {
	CourseData  *types.GeneratedCourse `json:"courseData"`
	Category    string                 `json:"category"`
	SubCategory string                 `json:"subCategory"`
	Level       string                 `json:"level"`
	Tags        []string               `json:"tags"`
}

// SaveGenerated persists a course the client already generated. The creator
// always comes from the auth context, never the request body.
func (h *CourseHandler) SaveGenerated(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.MemberID == "" {
		RespondError(c, 401, "unauthorized", nil)
		return
	}
	var req saveCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, "invalid_body", err)
		return
	}
	result, err := h.saveService.SaveGeneratedCourse(c.Request.Context(), services.SaveCourseInput{
		CourseData:    req.CourseData,
		CategoryID:    req.Category,
		SubCategoryID: req.SubCategory,
		Level:         req.Level,
		Tags:          req.Tags,
		CreatorID:     rd.MemberID,
	})
	if err != nil {
		h.log.Error("SaveGenerated failed", "error", err, "member_id", rd.MemberID)
		RespondMappedError(c, err)
		return
	}
	RespondCreated(c, result)
}

type generateCourseRequest struct {
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	Level       string   `json:"level"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
}

// Generate runs the full pipeline: model call, normalization, persistence.
func (h *CourseHandler) Generate(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.MemberID == "" {
		RespondError(c, 401, "unauthorized", nil)
		return
	}
	var req generateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, "invalid_body", err)
		return
	}
	result, err := h.genService.GenerateAndSave(c.Request.Context(), services.GenerateCourseInput{
		CategoryID:    req.Category,
		SubCategoryID: req.SubCategory,
		Level:         req.Level,
		Title:         req.Title,
		Tags:          req.Tags,
		CreatorID:     rd.MemberID,
	})
	if err != nil {
		h.log.Error("Generate failed", "error", err, "member_id", rd.MemberID)
		RespondMappedError(c, err)
		return
	}
	RespondCreated(c, result)
}

func (h *CourseHandler) TitleSuggestions(c *gin.Context) {
	category := c.Query("category")
	subCategory := c.Query("subCategory")
	level := c.Query("level")
	if category == "" || subCategory == "" || level == "" {
		RespondError(c, 400, "invalid_input", nil)
		return
	}
	titles, err := h.genService.TitleSuggestions(c.Request.Context(), category, subCategory, level)
	if err != nil {
		h.log.Error("TitleSuggestions failed", "error", err)
		RespondMappedError(c, err)
		return
	}
	RespondOK(c, gin.H{"titles": titles})
}

func (h *CourseHandler) ListMine(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.MemberID == "" {
		RespondError(c, 401, "unauthorized", nil)
		return
	}
	courses, err := h.memberService.CreatedCourses(c.Request.Context(), rd.MemberID)
	if err != nil {
		h.log.Error("ListMine failed", "error", err, "member_id", rd.MemberID)
		RespondMappedError(c, err)
		return
	}
	RespondOK(c, gin.H{"courses": courses})
}
