package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/quiz"
)

// CollectionLoader fetches quiz content from a backing store (files, Postgres).
type CollectionLoader interface {
	LoadCollection(ctx context.Context, name string) (*quiz.Collection, error)
}

// CollectionRepository caches collections with TTL to avoid re-reading the
// backing store on every session start.
type CollectionRepository struct {
	loader CollectionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedCollection
}

type cachedCollection struct {
	collection *quiz.Collection
	expiresAt  time.Time
}

func NewCollectionRepository(loader CollectionLoader, ttl time.Duration) *CollectionRepository {
	return &CollectionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedCollection),
	}
}

func (r *CollectionRepository) GetCollection(ctx context.Context, name string) (*quiz.Collection, error) {
	if c, ok := r.lookup(name); ok {
		return c, nil
	}

	result, err, _ := r.sf.Do(name, func() (interface{}, error) {
		if c, ok := r.lookup(name); ok {
			return c, nil
		}

		c, err := r.loader.LoadCollection(ctx, name)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[name] = cachedCollection{
			collection: c,
			expiresAt:  r.clock().Add(r.ttlWithJitterLocked()),
		}
		r.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*quiz.Collection), nil
}

// Invalidate drops name from the cache, e.g. after an import.
func (r *CollectionRepository) Invalidate(name string) {
	r.mu.Lock()
	delete(r.cache, name)
	r.mu.Unlock()
}

func (r *CollectionRepository) lookup(name string) (*quiz.Collection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[name]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return nil, false
	}
	return entry.collection, true
}

func (r *CollectionRepository) ttlWithJitterLocked() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticLoader is a loader backed by an in-memory map (useful for tests/demos).
type StaticLoader struct {
	collections map[string]*quiz.Collection
}

func NewStaticLoader(collections map[string]*quiz.Collection) *StaticLoader {
	return &StaticLoader{collections: collections}
}

func (l *StaticLoader) LoadCollection(_ context.Context, name string) (*quiz.Collection, error) {
	if c, ok := l.collections[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%q: %w", name, domain.ErrCollectionNotFound)
}

// ListCollections implements app.Catalog.
func (l *StaticLoader) ListCollections(_ context.Context) ([]domain.CatalogEntry, error) {
	out := make([]domain.CatalogEntry, 0, len(l.collections))
	for name, c := range l.collections {
		out = append(out, domain.CatalogEntry{Name: name, Title: c.Title()})
	}
	sortEntries(out)
	return out, nil
}

func sortEntries(entries []domain.CatalogEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
}
