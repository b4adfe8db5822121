package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"english-quiz-app/internal/app"
	"english-quiz-app/internal/config"
	"english-quiz-app/internal/explain"
	"english-quiz-app/internal/infra/filestore"
	"english-quiz-app/internal/infra/memory"
	"english-quiz-app/internal/infra/postgres"
	infraredis "english-quiz-app/internal/infra/redis"
	"english-quiz-app/internal/infra/sqlite"
	"english-quiz-app/internal/translate"
)

const (
	sourceFiles    = "files"
	sourcePostgres = "postgres"

	cacheMemory = "memory"
	cacheRedis  = "redis"
	cacheSQLite = "sqlite"
)

type loaderCatalog interface {
	memory.CollectionLoader
	app.Catalog
}

// stack is everything a command needs to run quiz sessions.
type stack struct {
	service *app.QuizService
	closers []func()
}

func (s *stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// buildStack wires the quiz source, caches, session store and explanation
// resolver from cfg.
func buildStack(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*stack, error) {
	s := &stack{}
	ok := false
	defer func() {
		if !ok {
			s.Close()
		}
	}()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, func() { _ = redisClient.Close() })
	}

	loader, err := buildLoader(ctx, cfg, s)
	if err != nil {
		return nil, err
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 5*time.Minute)
	var collections app.CollectionRepository
	if redisClient != nil {
		collections = infraredis.NewCollectionRepository(redisClient, loader, quizTTL, log)
	} else {
		collections = memory.NewCollectionRepository(loader, quizTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = infraredis.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute))
	} else {
		sessions = memory.NewSessionStore(memory.WithIdleTTL(config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)))
	}

	explainers, err := buildExplainers(cfg, redisClient, log, s)
	if err != nil {
		return nil, err
	}
	s.service = app.NewQuizService(sessions, collections,
		app.WithCatalog(loader),
		app.WithExplainerFactory(explainers),
		app.WithServiceLogger(log),
	)

	log.WithFields(logrus.Fields{
		"source":            cfg.Quiz.Source,
		"redis":             redisClient != nil,
		"translation":       cfg.TranslationEnabled(),
		"translation_cache": cfg.Translation.Cache,
	}).Debug("quiz stack ready")
	ok = true
	return s, nil
}

func buildLoader(ctx context.Context, cfg config.Config, s *stack) (loaderCatalog, error) {
	switch cfg.Quiz.Source {
	case "", sourceFiles:
		return filestore.NewLoader(cfg.Quiz.Dir), nil
	case sourcePostgres:
		if cfg.Postgres.URL == "" {
			return nil, fmt.Errorf("postgres url not configured")
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		return postgres.NewCollectionLoader(pool), nil
	}
	return nil, fmt.Errorf("unknown quiz source %q", cfg.Quiz.Source)
}

// buildExplainers returns a factory giving each session its own resolver.
// The translator client is shared. A memory cache is created per session;
// redis and sqlite caches are shared stores keyed by text and language.
func buildExplainers(cfg config.Config, redisClient *redis.Client, log logrus.FieldLogger, s *stack) (func() app.Explainer, error) {
	opts := []explain.Option{
		explain.WithLogger(log),
		explain.WithTimeout(config.TTLDuration(cfg.Translation.Timeout, explain.DefaultTimeout)),
	}
	size := cfg.Translation.CacheSize
	if cfg.TranslationEnabled() {
		opts = append(opts, explain.WithTranslator(translate.NewOpenAITranslator(translate.Options{
			APIKey:  cfg.Translation.APIKey,
			BaseURL: cfg.Translation.BaseURL,
			Model:   cfg.Translation.Model,
		})))
	}
	perSession := func() app.Explainer {
		memSize := size
		if memSize <= 0 {
			memSize = explain.DefaultCacheSize
		}
		return explain.NewResolver(append(opts[:len(opts):len(opts)], explain.WithCache(explain.NewMemoryCache(memSize)))...)
	}
	if !cfg.TranslationEnabled() {
		return perSession, nil
	}

	var shared explain.Cache
	switch cfg.Translation.Cache {
	case "", cacheMemory:
		return perSession, nil
	case cacheRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("translation cache %q needs redis.addr", cacheRedis)
		}
		shared = infraredis.NewTranslationCache(redisClient, config.TTLDuration(cfg.Translation.CacheTTL, 30*24*time.Hour))
	case cacheSQLite:
		if size <= 0 {
			size = sqlite.DefaultMaxEntries
		}
		cache, err := sqlite.Open(cfg.Translation.SQLitePath, size)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = cache.Close() })
		shared = cache
	default:
		return nil, fmt.Errorf("unknown translation cache %q", cfg.Translation.Cache)
	}
	opts = append(opts, explain.WithCache(shared))
	return func() app.Explainer { return explain.NewResolver(opts...) }, nil
}
