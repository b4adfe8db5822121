package explain

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"english-quiz-app/internal/domain"
)

// DefaultCacheSize is the number of translations kept in memory.
const DefaultCacheSize = 1000

type cacheKey struct {
	text string
	lang domain.Language
}

// MemoryCache is a size-bounded LRU cache owned by one Resolver.
type MemoryCache struct {
	entries *lru.Cache[cacheKey, string]
}

// NewMemoryCache creates a cache holding at most size entries. Non-positive
// sizes fall back to DefaultCacheSize.
func NewMemoryCache(size int) *MemoryCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for non-positive sizes.
	entries, _ := lru.New[cacheKey, string](size)
	return &MemoryCache{entries: entries}
}

func (c *MemoryCache) Get(_ context.Context, text string, lang domain.Language) (string, bool, error) {
	v, ok := c.entries.Get(cacheKey{text: text, lang: lang})
	return v, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, text string, lang domain.Language, translated string) error {
	c.entries.Add(cacheKey{text: text, lang: lang}, translated)
	return nil
}

// Len reports how many translations are cached.
func (c *MemoryCache) Len() int { return c.entries.Len() }
