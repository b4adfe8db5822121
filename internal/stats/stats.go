// Package stats computes topic and difficulty breakdowns for a collection or a
// finished session. Every function here is pure.
package stats

import (
	"math"
	"strings"

	"english-quiz-app/internal/domain"
)

// Outcome is one counted question. For a collection every question is an
// outcome; for a session only answered positions are.
type Outcome struct {
	Topic      string
	Difficulty string
	Correct    bool
}

// Bucket holds the counts for one group.
type Bucket struct {
	Name      string `json:"name"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
	Canonical bool   `json:"canonical"`
}

// Percent is the bucket accuracy, see Percent.
func (b Bucket) Percent() (float64, bool) {
	return Percent(b.Correct, b.Total)
}

// Rating is a feedback band for a session accuracy.
type Rating string

const (
	RatingExcellent    Rating = "excellent"
	RatingGood         Rating = "good"
	RatingNotBad       Rating = "not_bad"
	RatingKeepStudying Rating = "keep_studying"
)

// FromCollection turns every question into an unanswered outcome.
func FromCollection(questions []domain.Question) []Outcome {
	out := make([]Outcome, len(questions))
	for i, q := range questions {
		out[i] = Outcome{Topic: q.Topic, Difficulty: q.Difficulty}
	}
	return out
}

// ByTopic groups outcomes by topic in first-seen order.
func ByTopic(outcomes []Outcome) []Bucket {
	var (
		index = make(map[string]int)
		out   []Bucket
	)
	for _, o := range outcomes {
		i, ok := index[o.Topic]
		if !ok {
			i = len(out)
			index[o.Topic] = i
			out = append(out, Bucket{Name: o.Topic})
		}
		out[i].add(o)
	}
	return out
}

// ByDifficulty always returns the canonical levels first, even when empty.
// Other difficulty labels follow as separate buckets in first-seen order.
func ByDifficulty(outcomes []Outcome) []Bucket {
	out := make([]Bucket, 0, len(domain.CanonicalDifficulties))
	index := make(map[string]int)
	for _, level := range domain.CanonicalDifficulties {
		index[level] = len(out)
		out = append(out, Bucket{Name: level, Canonical: true})
	}
	for _, o := range outcomes {
		key := domain.NormalizeDifficulty(o.Difficulty)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Bucket{Name: strings.TrimSpace(o.Difficulty)})
		}
		out[i].add(o)
	}
	return out
}

func (b *Bucket) add(o Outcome) {
	b.Total++
	if o.Correct {
		b.Correct++
	}
}

// Percent returns correct/total*100 rounded to one decimal. ok is false when
// total is zero, meaning there is no data to rate.
func Percent(correct, total int) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10, true
}

// Rate maps an accuracy percentage onto a feedback band.
func Rate(accuracy float64) Rating {
	switch {
	case accuracy >= 90:
		return RatingExcellent
	case accuracy >= 70:
		return RatingGood
	case accuracy >= 50:
		return RatingNotBad
	default:
		return RatingKeepStudying
	}
}
