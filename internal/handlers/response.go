package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/courseforge/backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := code
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondMappedError translates the service error taxonomy into HTTP. The
// malformed-AI case attaches the raw model text as details for diagnostics.
func RespondMappedError(c *gin.Context, err error) {
	var malformed *apperrors.MalformedAIResponseError
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, apperrors.ErrInsufficientCredits):
		RespondError(c, http.StatusForbidden, "insufficient_credits", err)
	case errors.Is(err, apperrors.ErrCreatorNotFound), errors.Is(err, apperrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, apperrors.ErrQuotaExceeded):
		RespondError(c, http.StatusTooManyRequests, "ai_quota_exceeded", err)
	case errors.As(err, &malformed):
		c.JSON(http.StatusInternalServerError, ErrorEnvelope{Error: APIError{
			Message: malformed.Error(),
			Code:    "malformed_ai_response",
			Details: gin.H{"raw": malformed.Raw},
		}})
	case errors.Is(err, apperrors.ErrSlugExhausted):
		RespondError(c, http.StatusInternalServerError, "slug_allocation_exhausted", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
