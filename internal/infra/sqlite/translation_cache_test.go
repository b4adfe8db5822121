package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"english-quiz-app/internal/domain"
)

func TestTranslationCachePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	cache, err := Open(path, 10)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok, err := cache.Get(ctx, "hello", domain.LangTraditionalChinese); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := cache.Set(ctx, "hello", domain.LangTraditionalChinese, "你好"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path, 10)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, "hello", domain.LangTraditionalChinese)
	if err != nil || !ok || got != "你好" {
		t.Fatalf("expected persisted entry, got %q ok=%v err=%v", got, ok, err)
	}
	if _, ok, _ := reopened.Get(ctx, "hello", domain.LangSimplifiedChinese); ok {
		t.Fatalf("languages must not share entries")
	}
}

func TestTranslationCacheTrimsOldest(t *testing.T) {
	ctx := context.Background()
	cache, err := Open(filepath.Join(t.TempDir(), "cache.db"), 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer cache.Close()

	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	for _, text := range []string{"a", "b", "c"} {
		if err := cache.Set(ctx, text, domain.LangChinese, text+"!"); err != nil {
			t.Fatalf("set %s: %v", text, err)
		}
	}
	if n, err := cache.Len(ctx); err != nil || n != 2 {
		t.Fatalf("expected 2 rows, got %d (%v)", n, err)
	}
	if _, ok, _ := cache.Get(ctx, "a", domain.LangChinese); ok {
		t.Fatalf("expected oldest row trimmed")
	}
	if v, ok, _ := cache.Get(ctx, "c", domain.LangChinese); !ok || v != "c!" {
		t.Fatalf("expected newest row kept, got %q", v)
	}
}
