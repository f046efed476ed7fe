package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/courseforge/backend/internal/logger"
	apperrors "github.com/courseforge/backend/internal/pkg/errors"
	"github.com/courseforge/backend/internal/requestdata"
	"github.com/courseforge/backend/internal/services"
	"github.com/courseforge/backend/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type stubSaveService struct {
	result *services.SaveCourseResult
	err    error
	inputs []services.SaveCourseInput
}

func (s *stubSaveService) SaveGeneratedCourse(_ context.Context, in services.SaveCourseInput) (*services.SaveCourseResult, error) {
	s.inputs = append(s.inputs, in)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func performSave(t *testing.T, svc services.CourseSaveService, memberID, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewCourseHandler(testLogger(), svc, nil, nil)
	router := gin.New()
	router.POST("/courses/save", func(c *gin.Context) {
		if memberID != "" {
			ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{MemberID: memberID})
			c.Request = c.Request.WithContext(ctx)
		}
		h.SaveGenerated(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/courses/save", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"courseData":{"title":"T","lessons":[]},"category":"cat-1","subCategory":"sub-1","level":"beginner","tags":[]}`

func TestSaveGenerated_Created(t *testing.T) {
	svc := &stubSaveService{result: &services.SaveCourseResult{
		Course:         &types.Course{ID: "course-1", Title: "T"},
		Lessons:        []types.GeneratedLesson{},
		MemberUpdateID: "member-1",
	}}
	rec := performSave(t, svc, "member-1", validBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Course         *types.Course `json:"course"`
		MemberUpdateID string        `json:"memberUpdateId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Course == nil || payload.Course.ID != "course-1" || payload.MemberUpdateID != "member-1" {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}

	// Creator identity comes from the auth context, not the body.
	if len(svc.inputs) != 1 || svc.inputs[0].CreatorID != "member-1" {
		t.Fatalf("inputs = %+v", svc.inputs)
	}
}

func TestSaveGenerated_RequiresAuthContext(t *testing.T) {
	svc := &stubSaveService{}
	rec := performSave(t, svc, "", validBody)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(svc.inputs) != 0 {
		t.Fatalf("service must not be called without auth")
	}
}

func TestSaveGenerated_BadBody(t *testing.T) {
	rec := performSave(t, &stubSaveService{}, "member-1", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSaveGenerated_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.ErrInvalidArgument, http.StatusBadRequest, "invalid_input"},
		{apperrors.ErrInsufficientCredits, http.StatusForbidden, "insufficient_credits"},
		{apperrors.ErrCreatorNotFound, http.StatusNotFound, "not_found"},
		{apperrors.ErrQuotaExceeded, http.StatusTooManyRequests, "ai_quota_exceeded"},
		{apperrors.ErrSlugExhausted, http.StatusInternalServerError, "slug_allocation_exhausted"},
		{errors.New("commit failed"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		rec := performSave(t, &stubSaveService{err: tc.err}, "member-1", validBody)
		if rec.Code != tc.status {
			t.Fatalf("%v: status = %d, want %d", tc.err, rec.Code, tc.status)
		}
		var envelope ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("%v: decode body: %v", tc.err, err)
		}
		if envelope.Error.Code != tc.code {
			t.Fatalf("%v: code = %q, want %q", tc.err, envelope.Error.Code, tc.code)
		}
	}
}

func TestSaveGenerated_MalformedAIResponseCarriesRawDetails(t *testing.T) {
	svc := &stubSaveService{err: &apperrors.MalformedAIResponseError{
		Reason: "output is not valid JSON",
		Raw:    "sorry, I cannot do that",
	}}
	rec := performSave(t, svc, "member-1", validBody)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Error.Code != "malformed_ai_response" {
		t.Fatalf("code = %q", envelope.Error.Code)
	}
	if envelope.Error.Details["raw"] != "sorry, I cannot do that" {
		t.Fatalf("details = %#v", envelope.Error.Details)
	}
}
