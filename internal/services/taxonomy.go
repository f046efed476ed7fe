package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/courseforge/backend/internal/logger"
	apperrors "github.com/courseforge/backend/internal/pkg/errors"
	"github.com/courseforge/backend/internal/store"
	"github.com/courseforge/backend/internal/types"
)

type CategoryWithSubs struct {
	types.Category
	SubCategories []types.SubCategory `json:"subCategories"`
}

// TaxonomyService reads the category tree and can create subcategories on
// demand. Taxonomy slugs are hierarchical and human-readable, no random
// suffix; duplicates are checked explicitly before creating.
type TaxonomyService interface {
	ListCategories(ctx context.Context) ([]CategoryWithSubs, error)
	EnsureSubCategory(ctx context.Context, categoryID, name string) (*types.SubCategory, error)
}

type taxonomyService struct {
	store store.Client
	log   *logger.Logger
}

func NewTaxonomyService(storeClient store.Client, baseLog *logger.Logger) TaxonomyService {
	return &taxonomyService{
		store: storeClient,
		log:   baseLog.With("service", "TaxonomyService"),
	}
}

func (ts *taxonomyService) ListCategories(ctx context.Context) ([]CategoryWithSubs, error) {
	categories := []CategoryWithSubs{}
	query := fmt.Sprintf(
		`*[_type == %q] | order(name asc) {_id, _type, name, slug, description, "subCategories": *[_type == %q && category._ref == ^._id] | order(name asc)}`,
		types.TypeCategory, types.TypeSubCategory,
	)
	if err := ts.store.Fetch(ctx, query, nil, &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (ts *taxonomyService) EnsureSubCategory(ctx context.Context, categoryID, name string) (*types.SubCategory, error) {
	name = strings.TrimSpace(name)
	if categoryID == "" || name == "" {
		return nil, fmt.Errorf("%w: category and name are required", apperrors.ErrInvalidArgument)
	}

	var category types.Category
	err := ts.store.Fetch(ctx,
		fmt.Sprintf(`*[_type == %q && _id == $id][0]`, types.TypeCategory),
		map[string]any{"id": categoryID},
		&category,
	)
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if category.ID == "" {
		return nil, fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
	}

	// Existence check is an optimization: a failed lookup is logged and the
	// flow continues with a create rather than aborting.
	var existing types.SubCategory
	err = ts.store.Fetch(ctx,
		fmt.Sprintf(`*[_type == %q && category._ref == $categoryId && lower(name) == $name][0]`, types.TypeSubCategory),
		map[string]any{"categoryId": categoryID, "name": strings.ToLower(name)},
		&existing,
	)
	if err != nil {
		ts.log.Warn("Subcategory existence check failed, continuing with create", "error", err)
	} else if existing.ID != "" {
		return &existing, nil
	}

	sub := types.SubCategory{
		Type:     types.TypeSubCategory,
		Name:     name,
		Slug:     types.NewSlug(JoinSlugParts(category.Slug.Current, name)),
		Category: types.NewReference(categoryID),
	}
	id, err := ts.store.Create(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	sub.ID = id
	return &sub, nil
}
