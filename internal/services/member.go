package services

import (
	"context"
	"fmt"

	"github.com/courseforge/backend/internal/logger"
	apperrors "github.com/courseforge/backend/internal/pkg/errors"
	"github.com/courseforge/backend/internal/store"
	"github.com/courseforge/backend/internal/types"
)

type MemberService interface {
	GetByID(ctx context.Context, id string) (*types.Member, error)
	CreatedCourses(ctx context.Context, memberID string) ([]types.Course, error)
}

type memberService struct {
	store store.Client
	log   *logger.Logger
}

func NewMemberService(storeClient store.Client, baseLog *logger.Logger) MemberService {
	return &memberService{
		store: storeClient,
		log:   baseLog.With("service", "MemberService"),
	}
}

func (ms *memberService) GetByID(ctx context.Context, id string) (*types.Member, error) {
	var member types.Member
	err := ms.store.Fetch(ctx,
		fmt.Sprintf(`*[_type == %q && _id == $id][0]{_id, _type, name, email, credits, isAdmin, createdCourses}`, types.TypeMember),
		map[string]any{"id": id},
		&member,
	)
	if err != nil {
		return nil, fmt.Errorf("load member: %w", err)
	}
	if member.ID == "" {
		return nil, apperrors.ErrNotFound
	}
	return &member, nil
}

func (ms *memberService) CreatedCourses(ctx context.Context, memberID string) ([]types.Course, error) {
	courses := []types.Course{}
	err := ms.store.Fetch(ctx,
		fmt.Sprintf(`*[_type == %q && creator._ref == $id] | order(_createdAt desc)`, types.TypeCourse),
		map[string]any{"id": memberID},
		&courses,
	)
	if err != nil {
		return nil, fmt.Errorf("load created courses: %w", err)
	}
	return courses, nil
}
