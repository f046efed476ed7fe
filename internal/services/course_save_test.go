package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/courseforge/backend/internal/pkg/errors"
	"github.com/courseforge/backend/internal/store"
	"github.com/courseforge/backend/internal/types"
)

// saveFakeStore routes fetches by the parameter each query carries: creator
// lookups by $id, slug availability checks by $slug, tag lookups by $name.
func saveFakeStore(creator creatorSnapshot, existingTags map[string]string) *fakeStore {
	return &fakeStore{
		FetchFunc: func(_ context.Context, _ string, params map[string]any, out any) error {
			if id, ok := params["id"].(string); ok {
				if id == creator.ID {
					return fillResult(out, creator)
				}
				return nil
			}
			if _, ok := params["slug"]; ok {
				return nil // slug available
			}
			if name, ok := params["name"].(string); ok {
				if tagID, found := existingTags[name]; found {
					return fillResult(out, tagID)
				}
			}
			return nil
		},
	}
}

func newSaveService(fs *fakeStore) CourseSaveService {
	log := testLogger()
	return NewCourseSaveService(fs, log, NewSlugAllocator(fs, log), NewTagResolver(fs, log))
}

func validSaveInput() SaveCourseInput {
	return SaveCourseInput{
		CourseData: &types.GeneratedCourse{
			Title:       "Fluência em Inglês",
			Description: "Do zero à conversação.",
			Lessons: []types.GeneratedLesson{
				{Title: "Greetings", Order: 1, Content: "Hello.\n\nGoodbye.", EstimatedReadingTime: 5},
				{Title: "Numbers", Order: 2, Content: "One, two, three.", EstimatedReadingTime: 8},
			},
			AIGenerationPrompt: "prompt text",
			AIModelUsed:        "model-x",
		},
		CategoryID:    "category-languages",
		SubCategoryID: "subCategory-languages-english",
		Level:         "beginner",
		Tags:          []string{"English", "idiomas"},
		CreatorID:     "member-1",
	}
}

func TestSaveGeneratedCourse_CommitsOneAtomicTransaction(t *testing.T) {
	fs := saveFakeStore(
		creatorSnapshot{ID: "member-1", Rev: "rev-1", Credits: 3},
		map[string]string{"english": "courseTag-english"},
	)
	svc := newSaveService(fs)

	result, err := svc.SaveGeneratedCourse(context.Background(), validSaveInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.Committed) != 1 {
		t.Fatalf("expected exactly one commit, got %d", len(fs.Committed))
	}

	// 1 member patch + 2 lessons + 1 new tag + 1 course.
	muts := decodeMutations(t, fs.Committed[0])
	if len(muts) != 5 {
		t.Fatalf("expected 5 mutations, got %d", len(muts))
	}

	patch, ok := muts[0]["patch"].(map[string]any)
	if !ok {
		t.Fatalf("first mutation must be the member patch: %#v", muts[0])
	}
	if patch["id"] != "member-1" {
		t.Fatalf("patch id = %v", patch["id"])
	}
	if patch["ifRevisionID"] != "rev-1" {
		t.Fatalf("credit decrement must be revision-guarded: %#v", patch)
	}
	inc, _ := patch["inc"].(map[string]any)
	if inc["credits"] != float64(-1) {
		t.Fatalf("expected credits inc of -1, got %#v", inc)
	}
	insert, _ := patch["insert"].(map[string]any)
	if insert["after"] != "createdCourses[-1]" {
		t.Fatalf("course ref must append to createdCourses: %#v", insert)
	}

	for i := 1; i <= 2; i++ {
		lesson, ok := muts[i]["create"].(map[string]any)
		if !ok || lesson["_type"] != types.TypeLesson {
			t.Fatalf("mutation %d should create a lesson: %#v", i, muts[i])
		}
	}

	tag, ok := muts[3]["createIfNotExists"].(map[string]any)
	if !ok || tag["_id"] != "courseTag-idiomas" {
		t.Fatalf("mutation 3 should stage the missing tag: %#v", muts[3])
	}

	courseDoc, ok := muts[4]["create"].(map[string]any)
	if !ok || courseDoc["_type"] != types.TypeCourse {
		t.Fatalf("last mutation should create the course: %#v", muts[4])
	}
	if courseDoc["status"] != types.CourseStatusDraft {
		t.Fatalf("new courses must start as drafts, got %v", courseDoc["status"])
	}
	if courseDoc["estimatedDuration"] != float64(13) {
		t.Fatalf("estimatedDuration should sum lesson reading times, got %v", courseDoc["estimatedDuration"])
	}

	course := result.Course
	if !strings.HasPrefix(course.Slug.Current, "fluencia-em-ingles-") {
		t.Fatalf("slug = %q", course.Slug.Current)
	}
	if len(course.Lessons) != 2 || len(course.CourseTags) != 2 {
		t.Fatalf("course refs: %d lessons, %d tags", len(course.Lessons), len(course.CourseTags))
	}
	if course.CourseTags[0].Ref != "courseTag-english" || course.CourseTags[1].Ref != "courseTag-idiomas" {
		t.Fatalf("tag refs: %+v", course.CourseTags)
	}
	if course.AIGenerationPrompt != "prompt text" || course.AIModelUsed != "model-x" {
		t.Fatalf("generation metadata lost: %+v", course)
	}
	if len(result.Lessons) != 2 {
		t.Fatalf("result should echo generated lessons, got %d", len(result.Lessons))
	}
}

func TestSaveGeneratedCourse_AdminBypassesCreditDecrement(t *testing.T) {
	fs := saveFakeStore(creatorSnapshot{ID: "member-1", Rev: "rev-1", Credits: 0, IsAdmin: true}, nil)
	svc := newSaveService(fs)

	_, err := svc.SaveGeneratedCourse(context.Background(), validSaveInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	muts := decodeMutations(t, fs.Committed[0])
	patch, _ := muts[0]["patch"].(map[string]any)
	if _, hasInc := patch["inc"]; hasInc {
		t.Fatalf("admin saves must not decrement credits: %#v", patch)
	}
	if _, hasRev := patch["ifRevisionID"]; hasRev {
		t.Fatalf("admin saves need no revision guard: %#v", patch)
	}
	if _, hasInsert := patch["insert"]; !hasInsert {
		t.Fatalf("admin saves still record the created course: %#v", patch)
	}
}

func TestSaveGeneratedCourse_InsufficientCredits(t *testing.T) {
	fs := saveFakeStore(creatorSnapshot{ID: "member-1", Rev: "rev-1", Credits: 0}, nil)
	svc := newSaveService(fs)

	_, err := svc.SaveGeneratedCourse(context.Background(), validSaveInput())
	if !errors.Is(err, apperrors.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	if len(fs.Committed) != 0 {
		t.Fatalf("nothing may be written when credits are insufficient")
	}
}

func TestSaveGeneratedCourse_CreatorNotFound(t *testing.T) {
	fs := saveFakeStore(creatorSnapshot{ID: "member-other"}, nil)
	svc := newSaveService(fs)

	_, err := svc.SaveGeneratedCourse(context.Background(), validSaveInput())
	if !errors.Is(err, apperrors.ErrCreatorNotFound) {
		t.Fatalf("expected ErrCreatorNotFound, got %v", err)
	}
	if len(fs.Committed) != 0 {
		t.Fatalf("nothing may be written for an unknown creator")
	}
}

func TestSaveGeneratedCourse_ValidatesInput(t *testing.T) {
	fs := saveFakeStore(creatorSnapshot{ID: "member-1", Rev: "rev-1", Credits: 3}, nil)
	svc := newSaveService(fs)

	cases := []struct {
		name   string
		mutate func(*SaveCourseInput)
	}{
		{"nil course data", func(in *SaveCourseInput) { in.CourseData = nil }},
		{"blank title", func(in *SaveCourseInput) { in.CourseData.Title = "  " }},
		{"missing creator", func(in *SaveCourseInput) { in.CreatorID = "" }},
		{"missing category", func(in *SaveCourseInput) { in.CategoryID = "" }},
		{"missing subcategory", func(in *SaveCourseInput) { in.SubCategoryID = "" }},
		{"missing level", func(in *SaveCourseInput) { in.Level = "" }},
		{"nil tags", func(in *SaveCourseInput) { in.Tags = nil }},
	}
	for _, tc := range cases {
		in := validSaveInput()
		tc.mutate(&in)
		_, err := svc.SaveGeneratedCourse(context.Background(), in)
		if !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
	}
	if len(fs.FetchCalls) != 0 {
		t.Fatalf("invalid input must fail before touching the store")
	}
}

func TestSaveGeneratedCourse_EmptyTagsAllowed(t *testing.T) {
	fs := saveFakeStore(creatorSnapshot{ID: "member-1", Rev: "rev-1", Credits: 1}, nil)
	svc := newSaveService(fs)

	in := validSaveInput()
	in.Tags = []string{}
	result, err := svc.SaveGeneratedCourse(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Course.CourseTags) != 0 {
		t.Fatalf("expected no tag refs, got %d", len(result.Course.CourseTags))
	}
}

func TestSaveGeneratedCourse_CommitFailureSurfaces(t *testing.T) {
	fs := saveFakeStore(creatorSnapshot{ID: "member-1", Rev: "rev-1", Credits: 1}, nil)
	fs.CommitFunc = func(_ context.Context, _ *store.Transaction) (*store.TransactionResult, error) {
		return nil, errors.New("revision mismatch")
	}
	svc := newSaveService(fs)

	_, err := svc.SaveGeneratedCourse(context.Background(), validSaveInput())
	if err == nil || !strings.Contains(err.Error(), "revision mismatch") {
		t.Fatalf("commit failure must surface, got %v", err)
	}
	if len(fs.Committed) != 1 {
		t.Fatalf("commit must not be retried, got %d attempts", len(fs.Committed))
	}
}

func TestSaveGeneratedCourse_MemberUpdateIDFromCommitResult(t *testing.T) {
	fs := saveFakeStore(creatorSnapshot{ID: "member-1", Rev: "rev-1", Credits: 1}, nil)
	fs.CommitFunc = func(_ context.Context, _ *store.Transaction) (*store.TransactionResult, error) {
		return &store.TransactionResult{
			TransactionID: "txn-9",
			Results:       []store.MutationResult{{ID: "member-1", Operation: "update"}},
		}, nil
	}
	svc := newSaveService(fs)

	result, err := svc.SaveGeneratedCourse(context.Background(), validSaveInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MemberUpdateID != "member-1" {
		t.Fatalf("MemberUpdateID = %q", result.MemberUpdateID)
	}
}
