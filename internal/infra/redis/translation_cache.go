package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/explain"
)

// TranslationCache stores translated explanations shared by every instance:
//
//	SET translation:{lang}:{sha256(text)} <translated> EX <ttl>
type TranslationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTranslationCache(client *redis.Client, ttl time.Duration) *TranslationCache {
	return &TranslationCache{client: client, ttl: ttl}
}

func (c *TranslationCache) Get(ctx context.Context, text string, lang domain.Language) (string, bool, error) {
	v, err := c.client.Get(ctx, translationKey(text, lang)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *TranslationCache) Set(ctx context.Context, text string, lang domain.Language, translated string) error {
	return c.client.Set(ctx, translationKey(text, lang), translated, c.ttl).Err()
}

func translationKey(text string, lang domain.Language) string {
	return "translation:" + string(lang) + ":" + explain.TextHash(text)
}
