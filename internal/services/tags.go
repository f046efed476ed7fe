package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/store"
	"github.com/courseforge/backend/internal/types"
)

// TagResolver resolves raw tag names to tag-document references, staging
// creation of missing tags inside the caller's transaction. Tag ids are
// derived from the normalized name and staged with createIfNotExists, so two
// concurrent writers racing on the same name converge on one document rather
// than duplicating it. Names that normalize to the same value are resolved
// once per call.
type TagResolver interface {
	Resolve(ctx context.Context, tx *store.Transaction, names []string) ([]types.Reference, error)
}

type tagResolver struct {
	store store.Client
	log   *logger.Logger
}

func NewTagResolver(storeClient store.Client, baseLog *logger.Logger) TagResolver {
	return &tagResolver{
		store: storeClient,
		log:   baseLog.With("service", "TagResolver"),
	}
}

func (tr *tagResolver) Resolve(ctx context.Context, tx *store.Transaction, names []string) ([]types.Reference, error) {
	refs := make([]types.Reference, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true

		var existingID string
		err := tr.store.Fetch(ctx,
			fmt.Sprintf(`*[_type == %q && name == $name][0]._id`, types.TypeCourseTag),
			map[string]any{"name": normalized},
			&existingID,
		)
		if err != nil {
			return nil, fmt.Errorf("look up tag %q: %w", normalized, err)
		}

		if existingID != "" {
			refs = append(refs, types.NewKeyedReference(existingID, newItemKey()))
			continue
		}

		slug := Slugify(normalized)
		id := types.TypeCourseTag + "-" + slug
		tx.CreateIfNotExists(types.CourseTag{
			ID:          id,
			Type:        types.TypeCourseTag,
			Name:        normalized,
			Slug:        types.NewSlug(slug),
			Description: fmt.Sprintf("Courses tagged with %s.", normalized),
		})
		tr.log.Debug("Staged new course tag", "name", normalized, "id", id)
		refs = append(refs, types.NewKeyedReference(id, newItemKey()))
	}
	return refs, nil
}
