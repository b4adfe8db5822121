package domain

import (
	"strings"
	"time"
)

// Language is a display language code such as "en" or "zh_TW".
type Language string

const (
	LangEnglish            Language = "en"
	LangTraditionalChinese Language = "zh_TW"
	LangSimplifiedChinese  Language = "zh_CN"
	LangChinese            Language = "zh"

	// DefaultExplanationLanguage is the language of a question's plain `explanation` field.
	DefaultExplanationLanguage = LangEnglish
)

// IsTraditionalChinese reports whether lang names a Traditional Chinese variant.
func (l Language) IsTraditionalChinese() bool {
	switch l {
	case LangTraditionalChinese, "zh_HK", "zh_Hant":
		return true
	}
	return false
}

// IsEnglish reports whether lang is the default explanation language (or unset).
func (l Language) IsEnglish() bool {
	return l == "" || l == LangEnglish || strings.HasPrefix(string(l), "en_")
}

// Canonical difficulty levels. Difficulty itself is free text on a question.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// CanonicalDifficulties lists the levels in display order.
var CanonicalDifficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// NormalizeDifficulty folds a difficulty label for comparisons.
func NormalizeDifficulty(d string) string {
	return strings.ToLower(strings.TrimSpace(d))
}

// Mode selects which questions a session is started with.
type Mode string

const (
	ModeFull       Mode = "full"
	ModeTopic      Mode = "topic"
	ModeDifficulty Mode = "difficulty"
)

// ParseMode maps user input onto a Mode. An empty string means ModeFull.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeFull:
		return ModeFull, nil
	case ModeTopic:
		return ModeTopic, nil
	case ModeDifficulty:
		return ModeDifficulty, nil
	}
	return "", ErrUnknownMode
}

// Question is one validated quiz item. It is never mutated after validation.
type Question struct {
	ID            int                 `json:"id"`
	Topic         string              `json:"topic"`
	Difficulty    string              `json:"difficulty"`
	Prompt        string              `json:"question"`
	Choices       []string            `json:"choices"`
	CorrectAnswer int                 `json:"correctAnswer"`
	Passage       string              `json:"passage,omitempty"`
	Explanation   string              `json:"explanation,omitempty"`
	Explanations  map[Language]string `json:"explanations,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
}

// HasValidAnswer reports whether CorrectAnswer indexes into Choices.
func (q Question) HasValidAnswer() bool {
	return q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Choices)
}

// CorrectChoice returns the text of the correct choice.
func (q Question) CorrectChoice() string {
	if !q.HasValidAnswer() {
		return ""
	}
	return q.Choices[q.CorrectAnswer]
}

// ExplanationFor returns the pre-translated explanation stored for lang, if any.
func (q Question) ExplanationFor(lang Language) (string, bool) {
	text, ok := q.Explanations[lang]
	if !ok || strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

// Metadata describes a quiz collection.
type Metadata struct {
	Title          string `json:"title"`
	Version        string `json:"version"`
	CreatedDate    string `json:"createdDate"`
	TotalQuestions int    `json:"totalQuestions"`
	Description    string `json:"description,omitempty"`
}

// AnswerRecord is what a session remembers about one answered position.
type AnswerRecord struct {
	ChosenChoice int       `json:"chosenChoice"`
	IsCorrect    bool      `json:"isCorrect"`
	Explanation  string    `json:"explanation"`
	Language     Language  `json:"language"`
	AnsweredAt   time.Time `json:"answeredAt"`
}

// CatalogEntry names a loadable collection.
type CatalogEntry struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Path  string `json:"path,omitempty"`
}
