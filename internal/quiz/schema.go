package quiz

import (
	"fmt"
	"strings"

	"english-quiz-app/internal/domain"
)

const (
	MinChoices = 2
	MaxChoices = 6
)

// Validate checks one record against the question schema. position is the
// 1-based index of the record in its document and doubles as the id when the
// record has none.
func Validate(rec domain.QuestionRecord, position int) (domain.Question, error) {
	id := position
	if rec.ID != nil {
		id = *rec.ID
	}
	fail := func(field, reason string) (domain.Question, error) {
		return domain.Question{}, &domain.SchemaError{QuestionID: id, Field: field, Reason: reason}
	}

	if rec.Topic == nil || strings.TrimSpace(*rec.Topic) == "" {
		return fail("topic", "required")
	}
	if rec.Question == nil || strings.TrimSpace(*rec.Question) == "" {
		return fail("question", "required")
	}
	if rec.Choices == nil {
		return fail("choices", "required")
	}
	if n := len(rec.Choices); n < MinChoices || n > MaxChoices {
		return fail("choices", fmt.Sprintf("expected %d-%d choices, got %d", MinChoices, MaxChoices, n))
	}
	for i, choice := range rec.Choices {
		if strings.TrimSpace(choice) == "" {
			return fail("choices", fmt.Sprintf("choice %d is empty", i))
		}
	}
	if rec.CorrectAnswer == nil {
		return fail("correct_answer", "required")
	}
	if *rec.CorrectAnswer < 0 || *rec.CorrectAnswer >= len(rec.Choices) {
		return fail("correct_answer", fmt.Sprintf("index %d out of range for %d choices", *rec.CorrectAnswer, len(rec.Choices)))
	}

	return domain.Question{
		ID:            id,
		Topic:         strings.TrimSpace(*rec.Topic),
		Difficulty:    strings.TrimSpace(rec.Difficulty),
		Prompt:        *rec.Question,
		Choices:       append([]string(nil), rec.Choices...),
		CorrectAnswer: *rec.CorrectAnswer,
		Passage:       rec.Passage,
		Explanation:   rec.Explanation,
		Explanations:  rec.LocalizedExplanations(),
		Tags:          append([]string(nil), rec.Tags...),
	}, nil
}
