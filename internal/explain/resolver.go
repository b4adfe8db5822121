// Package explain picks the explanation shown after a question is answered.
package explain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/logging"
)

// DefaultTimeout bounds a single translation call.
const DefaultTimeout = 5 * time.Second

// Translator turns default-language text into lang.
type Translator interface {
	Translate(ctx context.Context, text string, lang domain.Language) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(ctx context.Context, text string, lang domain.Language) (string, error)

func (f TranslatorFunc) Translate(ctx context.Context, text string, lang domain.Language) (string, error) {
	return f(ctx, text, lang)
}

// Cache remembers translations keyed by (text, language). Implementations
// must be bounded, by size or by TTL.
type Cache interface {
	Get(ctx context.Context, text string, lang domain.Language) (string, bool, error)
	Set(ctx context.Context, text string, lang domain.Language, translated string) error
}

// Resolver applies the explanation priority rules for a question.
type Resolver struct {
	translator Translator
	cache      Cache
	timeout    time.Duration
	log        logrus.FieldLogger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTranslator enables automatic translation when no variant matches.
func WithTranslator(t Translator) Option { return func(r *Resolver) { r.translator = t } }

// WithCache replaces the default in-memory LRU cache.
func WithCache(c Cache) Option { return func(r *Resolver) { r.cache = c } }

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger used for translation failures.
func WithLogger(l logrus.FieldLogger) Option { return func(r *Resolver) { r.log = l } }

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewMemoryCache(DefaultCacheSize)
	}
	if r.log == nil {
		r.log = logging.Discard()
	}
	return r
}

// Resolve returns the best explanation of q for lang:
//  1. the exact pre-translated variant,
//  2. for Traditional Chinese, the Simplified variant (zh_CN, then zh),
//  3. the default explanation, translated when lang is not English and a
//     translator is configured.
//
// Translation failures fall back to the default text. An empty default yields "".
func (r *Resolver) Resolve(ctx context.Context, q domain.Question, lang domain.Language) string {
	if text, ok := q.ExplanationFor(lang); ok {
		return text
	}
	if lang.IsTraditionalChinese() {
		for _, alt := range []domain.Language{domain.LangSimplifiedChinese, domain.LangChinese} {
			if text, ok := q.ExplanationFor(alt); ok {
				return text
			}
		}
	}

	text := q.Explanation
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if lang.IsEnglish() || r.translator == nil {
		return text
	}
	return r.translate(ctx, q.ID, text, lang)
}

func (r *Resolver) translate(ctx context.Context, questionID int, text string, lang domain.Language) string {
	log := r.log.WithFields(logrus.Fields{"question_id": questionID, "language": lang})

	cached, ok, err := r.cache.Get(ctx, text, lang)
	if err != nil {
		log.WithError(err).Debug("translation cache read failed")
	}
	if ok {
		return cached
	}

	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	translated, err := r.translator.Translate(tctx, text, lang)
	if err == nil && strings.TrimSpace(translated) == "" {
		err = errors.New("empty translation")
	}
	if err != nil {
		log.WithError(err).Warn("translation failed, showing default explanation")
		return text
	}

	if err := r.cache.Set(ctx, text, lang, translated); err != nil {
		log.WithError(err).Debug("translation cache write failed")
	}
	return translated
}

// TextHash is the stable key persistent caches use for a source text.
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
