package redis

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"english-quiz-app/internal/infra/filestore"
	"english-quiz-app/internal/infra/memory"
	"english-quiz-app/internal/logging"
	"english-quiz-app/internal/quiz"
)

// CollectionRepository caches encoded quiz documents in Redis and falls back
// to a loader on cache miss. Documents are stored as:
//
//	SET quiz:collection:{name} <yaml document> EX <ttl>
type CollectionRepository struct {
	client *redis.Client
	loader memory.CollectionLoader
	ttl    time.Duration
	sf     singleflight.Group
	log    logrus.FieldLogger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCollectionRepository(client *redis.Client, loader memory.CollectionLoader, ttl time.Duration, log logrus.FieldLogger) *CollectionRepository {
	if log == nil {
		log = logging.Discard()
	}
	return &CollectionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CollectionRepository) GetCollection(ctx context.Context, name string) (*quiz.Collection, error) {
	if c, ok := r.cached(ctx, name); ok {
		return c, nil
	}

	result, err, _ := r.sf.Do(name, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if c, ok := r.cached(ctx, name); ok {
			return c, nil
		}

		c, err := r.loader.LoadCollection(ctx, name)
		if err != nil {
			return nil, err
		}

		data, err := filestore.Encode(c)
		if err != nil {
			return nil, err
		}
		if err := r.client.Set(ctx, collectionKey(name), data, r.ttlWithJitter()).Err(); err != nil {
			r.log.WithError(err).WithField("collection", name).Warn("cache collection in redis")
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*quiz.Collection), nil
}

// Invalidate removes the cached document for name.
func (r *CollectionRepository) Invalidate(ctx context.Context, name string) error {
	return r.client.Del(ctx, collectionKey(name)).Err()
}

func (r *CollectionRepository) cached(ctx context.Context, name string) (*quiz.Collection, bool) {
	data, err := r.client.Get(ctx, collectionKey(name)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.WithError(err).WithField("collection", name).Warn("read collection from redis")
		}
		return nil, false
	}
	c, err := filestore.DecodeStored(data, name)
	if err != nil {
		r.log.WithError(err).WithField("collection", name).Warn("discarding undecodable cached collection")
		return nil, false
	}
	return c, true
}

func (r *CollectionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func collectionKey(name string) string {
	return "quiz:collection:" + name
}
