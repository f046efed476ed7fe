package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/courseforge/backend/internal/cache"
	"github.com/courseforge/backend/internal/logger"
	apperrors "github.com/courseforge/backend/internal/pkg/errors"
	"github.com/courseforge/backend/internal/store"
)

const titleSuggestionTTL = time.Hour

type GenerateCourseInput struct {
	CategoryID    string
	SubCategoryID string
	Level         string
	Title         string
	Tags          []string
	CreatorID     string
}

// CourseGenerationService runs the full pipeline: prompt construction, model
// call, response normalization, and the persistence handoff. Title
// suggestions are memoized through the cache layer since the same taxonomy
// combination is requested repeatedly from the course-creation stepper.
type CourseGenerationService interface {
	GenerateAndSave(ctx context.Context, in GenerateCourseInput) (*SaveCourseResult, error)
	TitleSuggestions(ctx context.Context, categoryID, subCategoryID, level string) ([]string, error)
}

type courseGenerationService struct {
	store   store.Client
	log     *logger.Logger
	ai      GenerativeClient
	prompts PromptService
	saver   CourseSaveService
	cache   cache.Cache
	group   singleflight.Group
}

func NewCourseGenerationService(
	storeClient store.Client,
	baseLog *logger.Logger,
	ai GenerativeClient,
	prompts PromptService,
	saver CourseSaveService,
	cacheClient cache.Cache,
) CourseGenerationService {
	return &courseGenerationService{
		store:   storeClient,
		log:     baseLog.With("service", "CourseGenerationService"),
		ai:      ai,
		prompts: prompts,
		saver:   saver,
		cache:   cacheClient,
	}
}

func (cgs *courseGenerationService) GenerateAndSave(ctx context.Context, in GenerateCourseInput) (*SaveCourseResult, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.CategoryID) == "" || strings.TrimSpace(in.SubCategoryID) == "" {
		return nil, fmt.Errorf("%w: category and subCategory are required", apperrors.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.Level) == "" {
		return nil, fmt.Errorf("%w: level is required", apperrors.ErrInvalidArgument)
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}

	categoryName, subCategoryName := cgs.taxonomyNames(ctx, in.CategoryID, in.SubCategoryID)

	prompt, err := cgs.prompts.CoursePrompt(CoursePromptData{
		Category:    categoryName,
		SubCategory: subCategoryName,
		Level:       in.Level,
		Title:       in.Title,
		Tags:        strings.Join(in.Tags, ", "),
	})
	if err != nil {
		return nil, err
	}

	raw, err := cgs.ai.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate course content: %w", err)
	}

	courseData, err := ParseGeneratedCourse(raw)
	if err != nil {
		return nil, err
	}
	courseData.AIGenerationPrompt = prompt
	courseData.AIModelUsed = cgs.ai.ModelName()

	return cgs.saver.SaveGeneratedCourse(ctx, SaveCourseInput{
		CourseData:    courseData,
		CategoryID:    in.CategoryID,
		SubCategoryID: in.SubCategoryID,
		Level:         in.Level,
		Tags:          in.Tags,
		CreatorID:     in.CreatorID,
	})
}

func (cgs *courseGenerationService) TitleSuggestions(ctx context.Context, categoryID, subCategoryID, level string) ([]string, error) {
	key := fmt.Sprintf("title-suggestions:%s:%s:%s", categoryID, subCategoryID, strings.ToLower(level))

	if cached, ok, err := cgs.cache.Get(ctx, key); err == nil && ok {
		var titles []string
		if uErr := json.Unmarshal(cached, &titles); uErr == nil {
			return titles, nil
		}
	} else if err != nil {
		cgs.log.Warn("Title suggestion cache read failed", "error", err)
	}

	v, err, _ := cgs.group.Do(key, func() (any, error) {
		categoryName, subCategoryName := cgs.taxonomyNames(ctx, categoryID, subCategoryID)
		prompt, err := cgs.prompts.TitleSuggestionsPrompt(TitlePromptData{
			Category:    categoryName,
			SubCategory: subCategoryName,
			Level:       level,
		})
		if err != nil {
			return nil, err
		}
		raw, err := cgs.ai.GenerateContent(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("generate title suggestions: %w", err)
		}
		titles, err := parseTitleList(raw)
		if err != nil {
			return nil, err
		}
		if encoded, mErr := json.Marshal(titles); mErr == nil {
			if cErr := cgs.cache.Set(ctx, key, encoded, titleSuggestionTTL); cErr != nil {
				cgs.log.Warn("Title suggestion cache write failed", "error", cErr)
			}
		}
		return titles, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// taxonomyNames resolves display names for the prompt. This is an
// optimization, not a correctness requirement: on failure it logs and falls
// back to the raw ids.
func (cgs *courseGenerationService) taxonomyNames(ctx context.Context, categoryID, subCategoryID string) (string, string) {
	categoryName := categoryID
	subCategoryName := subCategoryID

	var names struct {
		Category    string `json:"category"`
		SubCategory string `json:"subCategory"`
	}
	err := cgs.store.Fetch(ctx,
		`{"category": *[_id == $categoryId][0].name, "subCategory": *[_id == $subCategoryId][0].name}`,
		map[string]any{"categoryId": categoryID, "subCategoryId": subCategoryID},
		&names,
	)
	if err != nil {
		cgs.log.Warn("Taxonomy name lookup failed, using ids in prompt", "error", err)
		return categoryName, subCategoryName
	}
	if names.Category != "" {
		categoryName = names.Category
	}
	if names.SubCategory != "" {
		subCategoryName = names.SubCategory
	}
	return categoryName, subCategoryName
}

func parseTitleList(raw string) ([]string, error) {
	cleaned := stripCodeFence(raw)
	cleaned = smartQuoteReplacer.Replace(cleaned)

	var titles []string
	if err := json.Unmarshal([]byte(cleaned), &titles); err != nil {
		return nil, &apperrors.MalformedAIResponseError{
			Reason: "title suggestions are not a JSON string array",
			Raw:    raw,
			Err:    err,
		}
	}
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
