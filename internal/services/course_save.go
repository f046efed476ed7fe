package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/courseforge/backend/internal/logger"
	apperrors "github.com/courseforge/backend/internal/pkg/errors"
	"github.com/courseforge/backend/internal/store"
	"github.com/courseforge/backend/internal/types"
)

type SaveCourseInput struct {
	CourseData    *types.GeneratedCourse
	CategoryID    string
	SubCategoryID string
	Level         string
	Tags          []string
	CreatorID     string
}

type SaveCourseResult struct {
	Course *types.Course `json:"course"`
	// Lessons echoes the raw generated lesson input back to the caller.
	Lessons        []types.GeneratedLesson `json:"lessons"`
	MemberUpdateID string                  `json:"memberUpdateId"`
}

// CourseSaveService persists one generated course as a single atomic
// transaction: member credit patch, lesson creates, tag creates, course
// create. Nothing is written unless the whole batch commits.
type CourseSaveService interface {
	SaveGeneratedCourse(ctx context.Context, in SaveCourseInput) (*SaveCourseResult, error)
}

type courseSaveService struct {
	store store.Client
	log   *logger.Logger
	slugs SlugAllocator
	tags  TagResolver
}

func NewCourseSaveService(
	storeClient store.Client,
	baseLog *logger.Logger,
	slugs SlugAllocator,
	tags TagResolver,
) CourseSaveService {
	return &courseSaveService{
		store: storeClient,
		log:   baseLog.With("service", "CourseSaveService"),
		slugs: slugs,
		tags:  tags,
	}
}

// creatorSnapshot is the projection read in step 1. The revision is captured
// so the credit decrement can be guarded against concurrent writers.
type creatorSnapshot struct {
	ID      string `json:"_id"`
	Rev     string `json:"_rev"`
	Credits int    `json:"credits"`
	IsAdmin bool   `json:"isAdmin"`
}

func (css *courseSaveService) SaveGeneratedCourse(ctx context.Context, in SaveCourseInput) (*SaveCourseResult, error) {
	if err := validateSaveInput(in); err != nil {
		return nil, err
	}

	// Step 1: load the creator's credit state.
	var creator creatorSnapshot
	err := css.store.Fetch(ctx,
		fmt.Sprintf(`*[_type == %q && _id == $id][0]{_id, _rev, credits, isAdmin}`, types.TypeMember),
		map[string]any{"id": in.CreatorID},
		&creator,
	)
	if err != nil {
		return nil, fmt.Errorf("load creator: %w", err)
	}
	if creator.ID == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCreatorNotFound, in.CreatorID)
	}

	// Step 2: credit check. Admins bypass consumption entirely.
	if !creator.IsAdmin && creator.Credits <= 0 {
		return nil, apperrors.ErrInsufficientCredits
	}

	// Step 3: unique course slug.
	slug, err := css.slugs.AllocateCourseSlug(ctx, in.CourseData.Title)
	if err != nil {
		return nil, err
	}

	courseID := types.TypeCourse + "-" + uuid.NewString()
	now := time.Now().UTC()

	// Step 4: open the transaction and stage the member patch. The decrement
	// rides on the revision captured at the read, so a concurrent decrement
	// turns into a commit conflict instead of a lost update.
	tx := store.NewTransaction()
	memberPatch := store.Patch{
		SetIfMissing: map[string]any{"createdCourses": []any{}},
		Append: map[string][]any{
			"createdCourses": {types.NewKeyedReference(courseID, newItemKey())},
		},
	}
	if !creator.IsAdmin {
		memberPatch.Inc = map[string]any{"credits": -1}
		memberPatch.IfRevision = creator.Rev
	}
	tx.Patch(creator.ID, memberPatch)

	// Step 5: lessons, in input order. The order field is trusted from input.
	lessonRefs := make([]types.Reference, 0, len(in.CourseData.Lessons))
	totalDuration := 0
	for _, lesson := range in.CourseData.Lessons {
		lessonID := types.TypeLesson + "-" + uuid.NewString()
		tx.Create(types.Lesson{
			ID:                   lessonID,
			Type:                 types.TypeLesson,
			Title:                lesson.Title,
			Slug:                 types.NewSlug(SuffixedSlug(lesson.Title)),
			Order:                lesson.Order,
			Content:              TextToBlocks(lesson.Content),
			EstimatedReadingTime: lesson.EstimatedReadingTime,
			Course:               types.NewReference(courseID),
		})
		lessonRefs = append(lessonRefs, types.NewKeyedReference(lessonID, newItemKey()))
		totalDuration += lesson.EstimatedReadingTime
	}

	// Step 6: tags, staged into the same transaction.
	tagRefs, err := css.tags.Resolve(ctx, tx, in.Tags)
	if err != nil {
		return nil, err
	}

	// Step 7: the course itself.
	course := types.Course{
		ID:                 courseID,
		Type:               types.TypeCourse,
		Title:              in.CourseData.Title,
		Description:        in.CourseData.Description,
		Slug:               types.NewSlug(slug),
		Lessons:            lessonRefs,
		Category:           types.NewReference(in.CategoryID),
		SubCategory:        types.NewReference(in.SubCategoryID),
		CourseTags:         tagRefs,
		Creator:            types.NewReference(in.CreatorID),
		Level:              in.Level,
		Status:             types.CourseStatusDraft,
		EstimatedDuration:  totalDuration,
		AIGenerationPrompt: in.CourseData.AIGenerationPrompt,
		AIModelUsed:        in.CourseData.AIModelUsed,
		GeneratedAt:        now,
	}
	tx.Create(course)

	// Step 8: atomic commit. Commit failures are not retried here.
	result, err := css.store.Commit(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("commit course transaction: %w", err)
	}

	memberUpdateID := result.TransactionID
	if res, ok := result.ResultFor(creator.ID); ok {
		memberUpdateID = res.ID
	}

	css.log.Info("Course persisted",
		"course_id", courseID,
		"slug", slug,
		"lessons", len(lessonRefs),
		"tags", len(tagRefs),
		"creator_id", creator.ID,
		"transaction_id", result.TransactionID,
	)

	return &SaveCourseResult{
		Course:         &course,
		Lessons:        in.CourseData.Lessons,
		MemberUpdateID: memberUpdateID,
	}, nil
}

func validateSaveInput(in SaveCourseInput) error {
	switch {
	case in.CourseData == nil:
		return fmt.Errorf("%w: courseData is required", apperrors.ErrInvalidArgument)
	case strings.TrimSpace(in.CourseData.Title) == "":
		return fmt.Errorf("%w: courseData.title is required", apperrors.ErrInvalidArgument)
	case strings.TrimSpace(in.CreatorID) == "":
		return fmt.Errorf("%w: creatorId is required", apperrors.ErrInvalidArgument)
	case strings.TrimSpace(in.CategoryID) == "":
		return fmt.Errorf("%w: category is required", apperrors.ErrInvalidArgument)
	case strings.TrimSpace(in.SubCategoryID) == "":
		return fmt.Errorf("%w: subCategory is required", apperrors.ErrInvalidArgument)
	case strings.TrimSpace(in.Level) == "":
		return fmt.Errorf("%w: level is required", apperrors.ErrInvalidArgument)
	case in.Tags == nil:
		return fmt.Errorf("%w: tags must be a list (may be empty)", apperrors.ErrInvalidArgument)
	}
	return nil
}
