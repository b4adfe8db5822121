package app

import (
	"fmt"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/quiz"
)

// Select picks the question sequence a session starts with.
func Select(c *quiz.Collection, mode domain.Mode, filter string) ([]domain.Question, error) {
	var questions []domain.Question
	switch mode {
	case domain.ModeFull, "":
		questions = c.Questions()
	case domain.ModeTopic:
		questions = c.FilterByTopic(filter)
	case domain.ModeDifficulty:
		questions = c.FilterByDifficulty(filter)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMode, mode)
	}
	if len(questions) == 0 {
		if filter == "" {
			return nil, fmt.Errorf("no questions for %s: %w", mode, domain.ErrEmptySelection)
		}
		return nil, fmt.Errorf("no questions for %s %q: %w", mode, filter, domain.ErrEmptySelection)
	}
	return questions, nil
}
