package services

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/courseforge/backend/internal/pkg/errors"
	"github.com/courseforge/backend/internal/store"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Fluência em Inglês", "fluencia-em-ingles"},
		{"  Hello,   World!  ", "hello-world"},
		{"Go — the basics", "go-the-basics"},
		{"Déjà Vu 101", "deja-vu-101"},
		{"---", ""},
		{"", ""},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestJoinSlugParts(t *testing.T) {
	got := JoinSlugParts("Tech & Programming", "Web Dev", "")
	if got != "tech-programming-web-dev" {
		t.Fatalf("got %q", got)
	}
}

func TestSuffixedSlug_AppendsSuffix(t *testing.T) {
	got := SuffixedSlug("My Lesson")
	if len(got) != len("my-lesson")+1+8 {
		t.Fatalf("unexpected length for %q", got)
	}
	if got[:len("my-lesson-")] != "my-lesson-" {
		t.Fatalf("got %q", got)
	}
}

func TestAllocateCourseSlug_RetriesOnCollision(t *testing.T) {
	taken := map[string]bool{
		"go-basics-aaaaaaaa": true,
		"go-basics-bbbbbbbb": true,
	}
	fs := &fakeStore{
		FetchFunc: func(_ context.Context, _ string, params map[string]any, out any) error {
			slug, _ := params["slug"].(string)
			if taken[slug] {
				return fillResult(out, "course-existing")
			}
			return nil
		},
	}
	suffixes := []string{"aaaaaaaa", "bbbbbbbb", "cccccccc"}
	i := 0
	sa := &slugAllocator{
		store: fs,
		log:   testLogger(),
		suffix: func() string {
			s := suffixes[i]
			i++
			return s
		},
	}

	got, err := sa.AllocateCourseSlug(context.Background(), "Go Basics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "go-basics-cccccccc" {
		t.Fatalf("got %q", got)
	}
	if len(fs.FetchCalls) != 3 {
		t.Fatalf("expected 3 availability checks, got %d", len(fs.FetchCalls))
	}
}

func TestAllocateCourseSlug_ExhaustsAfterMaxAttempts(t *testing.T) {
	fs := &fakeStore{
		FetchFunc: func(_ context.Context, _ string, _ map[string]any, out any) error {
			return fillResult(out, "course-existing")
		},
	}
	sa := &slugAllocator{
		store:  fs,
		log:    testLogger(),
		suffix: func() string { return "deadbeef" },
	}

	_, err := sa.AllocateCourseSlug(context.Background(), "Go Basics")
	if !errors.Is(err, apperrors.ErrSlugExhausted) {
		t.Fatalf("expected ErrSlugExhausted, got %v", err)
	}
	if len(fs.FetchCalls) != slugMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", slugMaxAttempts, len(fs.FetchCalls))
	}
}

func TestAllocateCourseSlug_PropagatesStoreError(t *testing.T) {
	fs := &fakeStore{
		FetchFunc: func(_ context.Context, _ string, _ map[string]any, _ any) error {
			return errors.New("store down")
		},
	}
	sa := &slugAllocator{store: fs, log: testLogger(), suffix: func() string { return "deadbeef" }}

	_, err := sa.AllocateCourseSlug(context.Background(), "Go Basics")
	if err == nil || len(fs.FetchCalls) != 1 {
		t.Fatalf("expected immediate failure, err=%v calls=%d", err, len(fs.FetchCalls))
	}
}

var _ store.Client = (*fakeStore)(nil)
