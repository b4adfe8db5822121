package redis

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"english-quiz-app/internal/infra/filestore"
	"english-quiz-app/internal/infra/memory"
	"english-quiz-app/internal/quiz"
)

func TestCollectionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		CollectionLoader: memory.NewStaticLoader(map[string]*quiz.Collection{
			"sample": filestore.Sample(),
		}),
	}
	repo := NewCollectionRepository(client, loader, time.Minute, nil)

	first, err := repo.GetCollection(context.Background(), "sample")
	if err != nil {
		t.Fatalf("get collection: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader called once, got %d", loader.count())
	}
	if !mr.Exists("quiz:collection:sample") {
		t.Fatalf("expected cached document")
	}
	if ttl := mr.TTL("quiz:collection:sample"); ttl < time.Minute || ttl > 66*time.Second {
		t.Fatalf("expected jittered ttl, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	second, err := repo.GetCollection(context.Background(), "sample")
	if err != nil {
		t.Fatalf("get collection 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.count())
	}
	if !reflect.DeepEqual(first.Stats(), second.Stats()) {
		t.Fatalf("cached collection differs: %+v vs %+v", first.Stats(), second.Stats())
	}

	if err := repo.Invalidate(context.Background(), "sample"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("quiz:collection:sample") {
		t.Fatalf("expected cached document removed")
	}
}

func TestCollectionRepositoryIgnoresCorruptCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set("quiz:collection:sample", "questions: [oops"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	loader := &countingLoader{
		CollectionLoader: memory.NewStaticLoader(map[string]*quiz.Collection{"sample": filestore.Sample()}),
	}
	repo := NewCollectionRepository(newClient(mr), loader, time.Minute, nil)

	c, err := repo.GetCollection(context.Background(), "sample")
	if err != nil || c.Len() != 3 {
		t.Fatalf("expected fallback to loader, got %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader call, got %d", loader.count())
	}
}

func TestCollectionRepositoryServesMergedTopicsFromCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	// Both banks number their questions from 1.
	merged := quiz.Merge("banks", filestore.Sample(), filestore.Sample())
	loader := &countingLoader{
		CollectionLoader: memory.NewStaticLoader(map[string]*quiz.Collection{"banks": merged}),
	}
	repo := NewCollectionRepository(newClient(mr), loader, time.Minute, nil)

	for i := 0; i < 2; i++ {
		c, err := repo.GetCollection(context.Background(), "banks")
		if err != nil {
			t.Fatalf("get collection %d: %v", i, err)
		}
		if !reflect.DeepEqual(c.Stats(), merged.Stats()) {
			t.Fatalf("unexpected stats %+v", c.Stats())
		}
	}
	if loader.count() != 1 {
		t.Fatalf("expected second read from cache, loader calls=%d", loader.count())
	}
}

type countingLoader struct {
	memory.CollectionLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadCollection(ctx context.Context, name string) (*quiz.Collection, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.CollectionLoader.LoadCollection(ctx, name)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
