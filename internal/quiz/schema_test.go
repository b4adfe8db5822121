package quiz

import (
	"errors"
	"testing"

	"english-quiz-app/internal/domain"
)

func TestValidateAcceptsCompleteRecord(t *testing.T) {
	rec := record(7, "Grammar", "medium", 1, "a", "b", "c")
	rec.Extra = map[string]any{
		"explanation_zh_TW": "繁體",
		"explanation_zh_CN": "",
		"notes":             "ignored",
	}

	q, err := Validate(rec, 1)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if q.ID != 7 || q.Topic != "Grammar" || q.CorrectAnswer != 1 {
		t.Fatalf("unexpected question %+v", q)
	}
	if !q.HasValidAnswer() {
		t.Fatalf("expected valid answer index")
	}
	if len(q.Explanations) != 1 || q.Explanations[domain.LangTraditionalChinese] != "繁體" {
		t.Fatalf("expected only the non-empty zh_TW variant, got %v", q.Explanations)
	}
}

func TestValidateUsesPositionWhenIDMissing(t *testing.T) {
	rec := record(0, "Spelling", "easy", 0, "x", "y")
	rec.ID = nil

	q, err := Validate(rec, 4)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if q.ID != 4 {
		t.Fatalf("expected id 4, got %d", q.ID)
	}
}

func TestValidateRejectsBadRecords(t *testing.T) {
	cases := []struct {
		name  string
		field string
		edit  func(*domain.QuestionRecord)
	}{
		{"missing topic", "topic", func(r *domain.QuestionRecord) { r.Topic = nil }},
		{"blank question", "question", func(r *domain.QuestionRecord) { blank := "  "; r.Question = &blank }},
		{"missing choices", "choices", func(r *domain.QuestionRecord) { r.Choices = nil }},
		{"one choice", "choices", func(r *domain.QuestionRecord) { r.Choices = []string{"only"} }},
		{"seven choices", "choices", func(r *domain.QuestionRecord) { r.Choices = []string{"1", "2", "3", "4", "5", "6", "7"} }},
		{"empty choice", "choices", func(r *domain.QuestionRecord) { r.Choices = []string{"a", ""} }},
		{"missing answer", "correct_answer", func(r *domain.QuestionRecord) { r.CorrectAnswer = nil }},
		{"answer out of range", "correct_answer", func(r *domain.QuestionRecord) { n := 3; r.CorrectAnswer = &n }},
		{"negative answer", "correct_answer", func(r *domain.QuestionRecord) { n := -1; r.CorrectAnswer = &n }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := record(2, "Grammar", "easy", 0, "a", "b", "c")
			tc.edit(&rec)

			_, err := Validate(rec, 1)
			var serr *domain.SchemaError
			if !errors.As(err, &serr) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if serr.Field != tc.field || serr.QuestionID != 2 {
				t.Fatalf("expected field %s on question 2, got %+v", tc.field, serr)
			}
		})
	}
}

func record(id int, topic, difficulty string, answer int, choices ...string) domain.QuestionRecord {
	prompt := "Pick one"
	return domain.QuestionRecord{
		ID:            &id,
		Topic:         &topic,
		Difficulty:    difficulty,
		Question:      &prompt,
		Choices:       choices,
		CorrectAnswer: &answer,
		Explanation:   "because",
	}
}
