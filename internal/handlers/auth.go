package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/requestdata"
	"github.com/courseforge/backend/internal/services"
)

type AuthHandler struct {
	log           *logger.Logger
	authService   services.AuthService
	memberService services.MemberService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService, memberService services.MemberService) *AuthHandler {
	return &AuthHandler{
		log:           log.With("handler", "AuthHandler"),
		authService:   authService,
		memberService: memberService,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, "invalid_body", err)
		return
	}
	member, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		RespondMappedError(c, err)
		return
	}
	RespondCreated(c, gin.H{"member": member})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, 400, "invalid_body", err)
		return
	}
	token, member, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondMappedError(c, err)
		return
	}
	RespondOK(c, gin.H{"token": token, "member": member})
}

func (h *AuthHandler) Me(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.MemberID == "" {
		RespondError(c, 401, "unauthorized", nil)
		return
	}
	member, err := h.memberService.GetByID(c.Request.Context(), rd.MemberID)
	if err != nil {
		RespondMappedError(c, err)
		return
	}
	RespondOK(c, gin.H{"member": member})
}
