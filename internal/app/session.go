package app

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/stats"
)

// State is the lifecycle state of a Session.
type State string

const (
	StateActive   State = "active"
	StateComplete State = "complete"
)

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Explainer resolves the explanation shown after an answer.
type Explainer interface {
	Resolve(ctx context.Context, q domain.Question, lang domain.Language) string
}

type defaultExplainer struct{}

func (defaultExplainer) Resolve(_ context.Context, q domain.Question, _ domain.Language) string {
	return q.Explanation
}

// SessionOption configures StartSession.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	shuffler  Shuffler
	now       func() time.Time
	explainer Explainer
	id        string
}

// WithShuffler injects the permutation source; tests use it for determinism.
func WithShuffler(s Shuffler) SessionOption { return func(c *sessionConfig) { c.shuffler = s } }

// WithClock injects the time source.
func WithClock(now func() time.Time) SessionOption { return func(c *sessionConfig) { c.now = now } }

// WithExplainer sets how explanations are resolved on submit.
func WithExplainer(e Explainer) SessionOption { return func(c *sessionConfig) { c.explainer = e } }

// WithID fixes the session id instead of generating one.
func WithID(id string) SessionOption { return func(c *sessionConfig) { c.id = id } }

// Session is one attempt at a fixed, shuffled question sequence. It is safe
// for concurrent use; calls are serialized.
type Session struct {
	mu sync.Mutex

	id        string
	mode      domain.Mode
	filter    string
	questions []domain.Question
	now       func() time.Time
	explainer Explainer

	current     int
	score       int
	answers     map[int]domain.AnswerRecord
	quit        bool
	startedAt   time.Time
	completedAt time.Time
}

// Feedback is the result of one submitted answer.
type Feedback struct {
	QuestionID    int    `json:"questionId"`
	Position      int    `json:"position"`
	Chosen        int    `json:"chosen"`
	Correct       bool   `json:"correct"`
	CorrectAnswer int    `json:"correctAnswer"`
	CorrectChoice string `json:"correctChoice"`
	Explanation   string `json:"explanation"`
	Score         int    `json:"score"`
	Answered      int    `json:"answered"`
}

// QuestionView is a question as shown before it is answered.
type QuestionView struct {
	ID         int      `json:"id"`
	Number     int      `json:"number"`
	Topic      string   `json:"topic"`
	Difficulty string   `json:"difficulty"`
	Passage    string   `json:"passage,omitempty"`
	Prompt     string   `json:"question"`
	Choices    []string `json:"choices"`
}

// Snapshot is a read-only view of a session for presenters.
type Snapshot struct {
	ID          string               `json:"id"`
	State       State                `json:"state"`
	Mode        domain.Mode          `json:"mode"`
	Filter      string               `json:"filter,omitempty"`
	Total       int                  `json:"total"`
	Index       int                  `json:"index"`
	Score       int                  `json:"score"`
	Answered    int                  `json:"answered"`
	Remaining   int                  `json:"remaining"`
	Accuracy    float64              `json:"accuracy"`
	Quit        bool                 `json:"quit"`
	Current     *QuestionView        `json:"current,omitempty"`
	Answer      *domain.AnswerRecord `json:"answer,omitempty"`
	StartedAt   time.Time            `json:"startedAt"`
	CompletedAt *time.Time           `json:"completedAt,omitempty"`
}

// StartSession shuffles a copy of questions and starts an active session.
func StartSession(questions []domain.Question, mode domain.Mode, filter string, opts ...SessionOption) (*Session, error) {
	if len(questions) == 0 {
		return nil, domain.ErrEmptySelection
	}
	cfg := sessionConfig{now: time.Now, explainer: defaultExplainer{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.shuffler == nil {
		cfg.shuffler = rand.New(rand.NewSource(cfg.now().UnixNano()))
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	shuffled := append([]domain.Question(nil), questions...)
	cfg.shuffler.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return newSession(cfg.id, mode, filter, shuffled, cfg.now, cfg.explainer), nil
}

func newSession(id string, mode domain.Mode, filter string, questions []domain.Question, now func() time.Time, explainer Explainer) *Session {
	return &Session{
		id:        id,
		mode:      mode,
		filter:    filter,
		questions: questions,
		now:       now,
		explainer: explainer,
		answers:   make(map[int]domain.AnswerRecord),
		startedAt: now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Submit grades choice for the current question. It does not advance.
func (s *Session) Submit(ctx context.Context, choice int, lang domain.Language) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completeLocked() {
		return Feedback{}, domain.ErrSessionComplete
	}
	if _, ok := s.answers[s.current]; ok {
		return Feedback{}, domain.ErrAlreadyAnswered
	}
	q := s.questions[s.current]
	if choice < 0 || choice >= len(q.Choices) {
		return Feedback{}, domain.ErrInvalidChoice
	}

	correct := choice == q.CorrectAnswer
	if correct {
		s.score++
	}
	record := domain.AnswerRecord{
		ChosenChoice: choice,
		IsCorrect:    correct,
		Explanation:  s.explainer.Resolve(ctx, q, lang),
		Language:     lang,
		AnsweredAt:   s.now(),
	}
	s.answers[s.current] = record

	return Feedback{
		QuestionID:    q.ID,
		Position:      s.current,
		Chosen:        choice,
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
		CorrectChoice: q.CorrectChoice(),
		Explanation:   record.Explanation,
		Score:         s.score,
		Answered:      len(s.answers),
	}, nil
}

// Advance moves to the next question and completes the session after the last one.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completeLocked() {
		return domain.ErrSessionComplete
	}
	s.current++
	if s.current == len(s.questions) {
		s.completedAt = s.now()
	}
	return nil
}

// Quit ends an active session early. Recorded answers are kept.
func (s *Session) Quit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completeLocked() {
		return domain.ErrSessionComplete
	}
	s.quit = true
	s.completedAt = s.now()
	return nil
}

// Restart returns a fresh active session over the same question order.
func (s *Session) Restart() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.completeLocked() {
		return nil, domain.ErrSessionActive
	}
	return newSession(uuid.NewString(), s.mode, s.filter, s.questions, s.now, s.explainer), nil
}

// IsComplete reports whether the session reached the end or was quit.
func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completeLocked()
}

func (s *Session) completeLocked() bool {
	return s.quit || s.current >= len(s.questions)
}

// Accuracy is score/answered as a percentage, 0 when nothing was answered.
func (s *Session) Accuracy() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accuracyLocked()
}

func (s *Session) accuracyLocked() float64 {
	if len(s.answers) == 0 {
		return 0
	}
	return float64(s.score) / float64(len(s.answers)) * 100
}

// Remaining is the number of positions not yet reached.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions) - s.current
}

// Current returns the question at the current position.
func (s *Session) Current() (domain.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completeLocked() {
		return domain.Question{}, false
	}
	return s.questions[s.current], true
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:        s.id,
		State:     StateActive,
		Mode:      s.mode,
		Filter:    s.filter,
		Total:     len(s.questions),
		Index:     s.current,
		Score:     s.score,
		Answered:  len(s.answers),
		Remaining: len(s.questions) - s.current,
		Accuracy:  s.accuracyLocked(),
		Quit:      s.quit,
		StartedAt: s.startedAt,
	}
	if s.completeLocked() {
		snap.State = StateComplete
		completed := s.completedAt
		snap.CompletedAt = &completed
		return snap
	}

	q := s.questions[s.current]
	snap.Current = &QuestionView{
		ID:         q.ID,
		Number:     s.current + 1,
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
		Passage:    q.Passage,
		Prompt:     q.Prompt,
		Choices:    append([]string(nil), q.Choices...),
	}
	if rec, ok := s.answers[s.current]; ok {
		snap.Answer = &rec
	}
	return snap
}

// Outcomes lists answered positions in order, for stats.
func (s *Session) Outcomes() []stats.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions := make([]int, 0, len(s.answers))
	for pos := range s.answers {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	out := make([]stats.Outcome, len(positions))
	for i, pos := range positions {
		q := s.questions[pos]
		out[i] = stats.Outcome{Topic: q.Topic, Difficulty: q.Difficulty, Correct: s.answers[pos].IsCorrect}
	}
	return out
}

// Answers returns a copy of the answer log keyed by position.
func (s *Session) Answers() map[int]domain.AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int]domain.AnswerRecord, len(s.answers))
	for pos, rec := range s.answers {
		out[pos] = rec
	}
	return out
}

// Questions returns the session's question order.
func (s *Session) Questions() []domain.Question {
	return append([]domain.Question(nil), s.questions...)
}
