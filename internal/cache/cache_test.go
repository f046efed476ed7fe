package cache

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func TestMemoryCacheExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(10, clock.Now)
	ctx := context.Background()

	if err := c.Set(ctx, "golang", []byte("results"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := c.Get(ctx, "golang")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(got) != "results" {
		t.Fatalf("unexpected value %q", got)
	}

	clock.Advance(59 * time.Second)
	if _, ok, _ := c.Get(ctx, "golang"); !ok {
		t.Fatal("entry expired before its ttl")
	}

	clock.Advance(2 * time.Second)
	if _, ok, _ := c.Get(ctx, "golang"); ok {
		t.Fatal("entry survived past its ttl")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry not evicted, len=%d", c.Len())
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(10, nil)
	if _, ok, err := c.Get(context.Background(), "missing"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryCacheBounded(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(2, clock.Now)
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), time.Hour)
	_ = c.Set(ctx, "b", []byte("2"), time.Hour)

	// Touch "a" so "b" is the eviction candidate.
	if _, ok, _ := c.Get(ctx, "a"); !ok {
		t.Fatal("expected hit for a")
	}

	_ = c.Set(ctx, "c", []byte("3"), time.Hour)

	if c.Len() != 2 {
		t.Fatalf("cache grew past bound, len=%d", c.Len())
	}
	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Fatal("least recently used entry was not evicted")
	}
	if _, ok, _ := c.Get(ctx, "a"); !ok {
		t.Fatal("recently used entry was evicted")
	}
	if _, ok, _ := c.Get(ctx, "c"); !ok {
		t.Fatal("new entry missing")
	}
}

func TestMemoryCacheOverwrite(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(2, clock.Now)
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), time.Second)
	_ = c.Set(ctx, "a", []byte("2"), time.Minute)

	clock.Advance(30 * time.Second)
	got, ok, _ := c.Get(ctx, "a")
	if !ok || string(got) != "2" {
		t.Fatalf("overwrite lost, ok=%v val=%q", ok, got)
	}
}
