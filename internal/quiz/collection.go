package quiz

import (
	"errors"
	"strings"

	"english-quiz-app/internal/domain"
)

// Collection is a read-only, validated set of questions plus metadata.
type Collection struct {
	meta      domain.Metadata
	questions []domain.Question
}

// Count is one group in a Stats breakdown.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarizes a collection. Groups keep first-seen order.
type Stats struct {
	Title          string  `json:"title"`
	TotalQuestions int     `json:"totalQuestions"`
	Topics         []Count `json:"topics"`
	Difficulties   []Count `json:"difficulties"`
}

// NewCollection validates every record and builds a collection. Any invalid
// record or repeated id fails the whole collection with a
// *domain.CollectionError naming every offending question id.
func NewCollection(meta domain.Metadata, records []domain.QuestionRecord) (*Collection, error) {
	return build(meta, records, true)
}

// RestoreCollection is NewCollection for documents written by Encode, such as
// a merged topic directory, where repeated ids are expected.
func RestoreCollection(meta domain.Metadata, records []domain.QuestionRecord) (*Collection, error) {
	return build(meta, records, false)
}

func build(meta domain.Metadata, records []domain.QuestionRecord, uniqueIDs bool) (*Collection, error) {
	cerr := &domain.CollectionError{Title: meta.Title}
	questions := make([]domain.Question, 0, len(records))
	seen := make(map[int]struct{}, len(records))

	for i, rec := range records {
		q, err := Validate(rec, i+1)
		if err != nil {
			var serr *domain.SchemaError
			if errors.As(err, &serr) {
				cerr.QuestionIDs = append(cerr.QuestionIDs, serr.QuestionID)
			}
			cerr.Errs = append(cerr.Errs, err)
			continue
		}
		if _, dup := seen[q.ID]; dup && uniqueIDs {
			cerr.QuestionIDs = append(cerr.QuestionIDs, q.ID)
			cerr.Errs = append(cerr.Errs, &domain.SchemaError{QuestionID: q.ID, Field: "id", Reason: "duplicate id"})
			continue
		}
		seen[q.ID] = struct{}{}
		questions = append(questions, q)
	}
	if len(cerr.Errs) > 0 {
		return nil, cerr
	}

	c := newCollection(meta, questions)
	if err := c.verifyAnswers(); err != nil {
		return nil, err
	}
	return c, nil
}

func newCollection(meta domain.Metadata, questions []domain.Question) *Collection {
	meta.TotalQuestions = len(questions)
	return &Collection{meta: meta, questions: questions}
}

// verifyAnswers re-checks the correct_answer invariant on constructed questions.
func (c *Collection) verifyAnswers() error {
	var bad []int
	for _, q := range c.questions {
		if !q.HasValidAnswer() {
			bad = append(bad, q.ID)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return &domain.CollectionError{
		Title:       c.meta.Title,
		QuestionIDs: bad,
		Errs:        []error{errors.New("some questions have invalid correct_answer indices")},
	}
}

// Merge concatenates collections in order. Question ids are not deduplicated,
// so merged topic banks may repeat ids.
func Merge(title string, collections ...*Collection) *Collection {
	var (
		meta      = domain.Metadata{Title: title}
		questions []domain.Question
		titles    []string
	)
	for _, c := range collections {
		if c == nil {
			continue
		}
		if len(titles) == 0 {
			meta.Version = c.meta.Version
			meta.CreatedDate = c.meta.CreatedDate
		}
		titles = append(titles, c.meta.Title)
		questions = append(questions, c.questions...)
	}
	if len(titles) > 0 {
		meta.Description = "Merged from: " + strings.Join(titles, ", ")
	}
	return newCollection(meta, questions)
}

// Metadata returns the collection metadata.
func (c *Collection) Metadata() domain.Metadata { return c.meta }

// Title returns the collection title.
func (c *Collection) Title() string { return c.meta.Title }

// Len returns the number of questions.
func (c *Collection) Len() int { return len(c.questions) }

// Questions returns a copy of the ordered question sequence.
func (c *Collection) Questions() []domain.Question {
	return append([]domain.Question(nil), c.questions...)
}

// FilterByTopic returns the questions whose topic matches name, ignoring case.
func (c *Collection) FilterByTopic(name string) []domain.Question {
	want := strings.ToLower(strings.TrimSpace(name))
	return c.filter(func(q domain.Question) bool {
		return strings.ToLower(q.Topic) == want
	})
}

// FilterByDifficulty returns the questions whose difficulty matches level, ignoring case.
func (c *Collection) FilterByDifficulty(level string) []domain.Question {
	want := domain.NormalizeDifficulty(level)
	return c.filter(func(q domain.Question) bool {
		return domain.NormalizeDifficulty(q.Difficulty) == want
	})
}

func (c *Collection) filter(keep func(domain.Question) bool) []domain.Question {
	out := make([]domain.Question, 0)
	for _, q := range c.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

// Topics lists distinct topics in first-seen order.
func (c *Collection) Topics() []string {
	return distinct(c.questions, func(q domain.Question) string { return q.Topic })
}

// Difficulties lists distinct difficulties with the canonical levels first.
func (c *Collection) Difficulties() []string {
	present := distinct(c.questions, func(q domain.Question) string { return q.Difficulty })
	out := make([]string, 0, len(present))
	for _, level := range domain.CanonicalDifficulties {
		for _, d := range present {
			if domain.NormalizeDifficulty(d) == level {
				out = append(out, d)
			}
		}
	}
	for _, d := range present {
		if !isCanonical(d) {
			out = append(out, d)
		}
	}
	return out
}

// Stats counts questions by topic and by difficulty.
func (c *Collection) Stats() Stats {
	return Stats{
		Title:          c.meta.Title,
		TotalQuestions: len(c.questions),
		Topics:         countBy(c.questions, func(q domain.Question) string { return q.Topic }),
		Difficulties:   countBy(c.questions, func(q domain.Question) string { return q.Difficulty }),
	}
}

func countBy(questions []domain.Question, key func(domain.Question) string) []Count {
	index := make(map[string]int)
	var out []Count
	for _, q := range questions {
		k := key(q)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Count{Name: k})
		}
		out[i].Count++
	}
	return out
}

func distinct(questions []domain.Question, key func(domain.Question) string) []string {
	var out []string
	for _, c := range countBy(questions, key) {
		out = append(out, c.Name)
	}
	return out
}

func isCanonical(d string) bool {
	n := domain.NormalizeDifficulty(d)
	for _, level := range domain.CanonicalDifficulties {
		if n == level {
			return true
		}
	}
	return false
}
