package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/logging"
	"english-quiz-app/internal/quiz"
	"english-quiz-app/internal/stats"
)

// SessionRepository abstracts how live sessions are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, bool)
	Delete(ctx context.Context, id string)
}

// CollectionRepository loads quiz content (from cache/backing store).
type CollectionRepository interface {
	GetCollection(ctx context.Context, name string) (*quiz.Collection, error)
}

// Catalog lists the collections that can be started.
type Catalog interface {
	ListCollections(ctx context.Context) ([]domain.CatalogEntry, error)
}

// Summary is the end-of-quiz report.
type Summary struct {
	Snapshot
	HasData      bool           `json:"hasData"`
	Rating       stats.Rating   `json:"rating,omitempty"`
	Topics       []stats.Bucket `json:"topics"`
	Difficulties []stats.Bucket `json:"difficulties"`
}

// CollectionReport describes a collection before any session is started.
type CollectionReport struct {
	quiz.Stats
	TopicBuckets      []stats.Bucket `json:"topicBuckets"`
	DifficultyBuckets []stats.Bucket `json:"difficultyBuckets"`
}

// Summarize builds the results view of a session.
func Summarize(s *Session) Summary {
	snap := s.Snapshot()
	outcomes := s.Outcomes()
	sum := Summary{
		Snapshot:     snap,
		Topics:       stats.ByTopic(outcomes),
		Difficulties: stats.ByDifficulty(outcomes),
	}
	if pct, ok := stats.Percent(snap.Score, snap.Answered); ok {
		sum.HasData = true
		sum.Accuracy = pct
		sum.Rating = stats.Rate(pct)
	}
	return sum
}

// QuizService contains the quiz use cases for multi-user presenters.
type QuizService struct {
	sessions     SessionRepository
	collections  CollectionRepository
	catalog      Catalog
	explainer    Explainer
	newExplainer func() Explainer
	sessionOpts  []SessionOption
	log          logrus.FieldLogger
}

// ServiceOption configures a QuizService.
type ServiceOption func(*QuizService)

// WithCatalog enables Collections.
func WithCatalog(c Catalog) ServiceOption { return func(s *QuizService) { s.catalog = c } }

// WithServiceExplainer sets the explainer handed to every new session.
func WithServiceExplainer(e Explainer) ServiceOption { return func(s *QuizService) { s.explainer = e } }

// WithExplainerFactory builds a fresh explainer for each new session, so
// sessions do not share resolver state. It takes precedence over
// WithServiceExplainer.
func WithExplainerFactory(f func() Explainer) ServiceOption {
	return func(s *QuizService) { s.newExplainer = f }
}

// WithSessionOptions appends options applied to every new session.
func WithSessionOptions(opts ...SessionOption) ServiceOption {
	return func(s *QuizService) { s.sessionOpts = append(s.sessionOpts, opts...) }
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(l logrus.FieldLogger) ServiceOption { return func(s *QuizService) { s.log = l } }

func NewQuizService(store SessionRepository, collections CollectionRepository, opts ...ServiceOption) *QuizService {
	s := &QuizService{sessions: store, collections: collections}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	return s
}

// Start loads a collection, selects questions and registers a new session.
func (s *QuizService) Start(ctx context.Context, name string, mode domain.Mode, filter string) (Snapshot, error) {
	c, err := s.collections.GetCollection(ctx, name)
	if err != nil {
		return Snapshot{}, err
	}
	questions, err := Select(c, mode, filter)
	if err != nil {
		return Snapshot{}, err
	}

	opts := append([]SessionOption(nil), s.sessionOpts...)
	switch {
	case s.newExplainer != nil:
		opts = append(opts, WithExplainer(s.newExplainer()))
	case s.explainer != nil:
		opts = append(opts, WithExplainer(s.explainer))
	}
	session, err := StartSession(questions, mode, filter, opts...)
	if err != nil {
		return Snapshot{}, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return Snapshot{}, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": session.ID(),
		"collection": name,
		"mode":       mode,
		"filter":     filter,
		"questions":  len(questions),
	}).Info("quiz session started")
	return session.Snapshot(), nil
}

// Answer submits a choice for the current question of session id.
func (s *QuizService) Answer(ctx context.Context, id string, choice int, lang domain.Language) (Feedback, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return Feedback{}, err
	}
	return session.Submit(ctx, choice, lang)
}

// Advance moves session id to its next question.
func (s *QuizService) Advance(ctx context.Context, id string) (Snapshot, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	if err := session.Advance(); err != nil {
		return Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// Quit ends session id early.
func (s *QuizService) Quit(ctx context.Context, id string) (Snapshot, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	if err := session.Quit(); err != nil {
		return Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// Restart replaces a completed session with a fresh one over the same
// questions. The returned snapshot carries the new session id.
func (s *QuizService) Restart(ctx context.Context, id string) (Snapshot, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	next, err := session.Restart()
	if err != nil {
		return Snapshot{}, err
	}
	if err := s.sessions.Save(ctx, next); err != nil {
		return Snapshot{}, err
	}
	s.sessions.Delete(ctx, id)
	return next.Snapshot(), nil
}

// Session returns the current view of session id.
func (s *QuizService) Session(ctx context.Context, id string) (Snapshot, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// Summary reports results for session id, complete or not.
func (s *QuizService) Summary(ctx context.Context, id string) (Summary, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(session), nil
}

// End drops session id. Unknown ids are ignored.
func (s *QuizService) End(ctx context.Context, id string) {
	s.sessions.Delete(ctx, id)
}

// Collections lists the startable collections.
func (s *QuizService) Collections(ctx context.Context) ([]domain.CatalogEntry, error) {
	if s.catalog == nil {
		return []domain.CatalogEntry{}, nil
	}
	return s.catalog.ListCollections(ctx)
}

// CollectionStats describes collection name.
func (s *QuizService) CollectionStats(ctx context.Context, name string) (CollectionReport, error) {
	c, err := s.collections.GetCollection(ctx, name)
	if err != nil {
		return CollectionReport{}, err
	}
	outcomes := stats.FromCollection(c.Questions())
	return CollectionReport{
		Stats:             c.Stats(),
		TopicBuckets:      stats.ByTopic(outcomes),
		DifficultyBuckets: stats.ByDifficulty(outcomes),
	}, nil
}

func (s *QuizService) get(ctx context.Context, id string) (*Session, error) {
	session, ok := s.sessions.Get(ctx, id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}
