package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/courseforge/backend/internal/logger"
	apperrors "github.com/courseforge/backend/internal/pkg/errors"
	"github.com/courseforge/backend/internal/store"
	"github.com/courseforge/backend/internal/types"
)

const slugMaxAttempts = 5

// Slugify normalizes a display title into a URL-safe base slug: decompose,
// strip diacritics, lowercase, drop everything outside [a-z0-9 -], collapse
// whitespace and repeated hyphens.
func Slugify(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' || r == '-' {
			b.WriteRune(r)
		}
	}
	fields := strings.Fields(b.String())
	joined := strings.Join(fields, "-")
	for strings.Contains(joined, "--") {
		joined = strings.ReplaceAll(joined, "--", "-")
	}
	return strings.Trim(joined, "-")
}

// JoinSlugParts builds a hierarchical taxonomy slug (category/subcategory/tag).
// No random suffix here: readability of the hierarchy matters more, and
// collisions are checked explicitly by the callers that create those documents.
func JoinSlugParts(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := Slugify(p); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return strings.Join(cleaned, "-")
}

// randomSlugSuffix returns 8 hex characters.
func randomSlugSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// SuffixedSlug is the non-checked variant used for lesson slugs: base plus an
// unconditional random suffix.
func SuffixedSlug(title string) string {
	base := Slugify(title)
	if base == "" {
		base = "untitled"
	}
	return base + "-" + randomSlugSuffix()
}

// SlugAllocator derives collision-resistant course slugs, verifying candidates
// against the store and retrying with a fresh suffix up to a fixed bound.
type SlugAllocator interface {
	AllocateCourseSlug(ctx context.Context, title string) (string, error)
}

type slugAllocator struct {
	store  store.Client
	log    *logger.Logger
	suffix func() string
}

func NewSlugAllocator(storeClient store.Client, baseLog *logger.Logger) SlugAllocator {
	return &slugAllocator{
		store:  storeClient,
		log:    baseLog.With("service", "SlugAllocator"),
		suffix: randomSlugSuffix,
	}
}

func (sa *slugAllocator) AllocateCourseSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "course"
	}
	for attempt := 1; attempt <= slugMaxAttempts; attempt++ {
		candidate := base + "-" + sa.suffix()
		var existingID string
		err := sa.store.Fetch(ctx,
			fmt.Sprintf(`*[_type == %q && slug.current == $slug][0]._id`, types.TypeCourse),
			map[string]any{"slug": candidate},
			&existingID,
		)
		if err != nil {
			return "", fmt.Errorf("check slug availability: %w", err)
		}
		if existingID == "" {
			return candidate, nil
		}
		sa.log.Warn("Course slug collision, retrying", "slug", candidate, "attempt", attempt)
	}
	return "", fmt.Errorf("%w: %q after %d attempts", apperrors.ErrSlugExhausted, base, slugMaxAttempts)
}
