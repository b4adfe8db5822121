package filestore

import (
	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/quiz"
)

// SampleFileName is where `sample` writes by default.
const SampleFileName = "sample_quiz.yaml"

// Sample returns the built-in three-question English Language Arts quiz.
func Sample() *quiz.Collection {
	meta := domain.Metadata{
		Title:       "English Language Arts Sample Quiz",
		Version:     "1.0",
		CreatedDate: "2025-06-15",
		Description: "A sample quiz covering various ELA topics",
	}
	records := []domain.QuestionRecord{
		sampleRecord(1, "Reading Comprehension", "easy",
			"The quick brown fox jumps over the lazy dog. This sentence is famous because it contains every letter of the English alphabet at least once.",
			"Why is this sentence famous?",
			[]string{
				"It contains every letter of the alphabet",
				"It's the shortest sentence in English",
				"It was written by Shakespeare",
				"It contains no vowels",
			}, 0,
			"This sentence is called a pangram because it contains all 26 letters of the English alphabet.",
			"pangram", "alphabet"),
		sampleRecord(2, "Grammar", "medium", "",
			"Which sentence uses correct subject-verb agreement?",
			[]string{
				"The group of students are studying",
				"The group of students is studying",
				"The groups of student is studying",
				"The groups of student are studying",
			}, 1,
			"The subject 'group' is singular, so it takes the singular verb 'is'.",
			"subject-verb agreement", "singular", "plural"),
		sampleRecord(3, "Spelling", "easy", "",
			"Which word is spelled correctly?",
			[]string{"Recieve", "Receive", "Recive", "Receeve"}, 1,
			"Remember: 'I before E except after C' - receive follows this rule.",
			"i before e", "spelling rules"),
	}

	c, err := quiz.NewCollection(meta, records)
	if err != nil {
		panic("filestore: invalid sample quiz: " + err.Error())
	}
	return c
}

func sampleRecord(id int, topic, difficulty, passage, prompt string, choices []string, answer int, explanation string, tags ...string) domain.QuestionRecord {
	return domain.QuestionRecord{
		ID:            &id,
		Topic:         &topic,
		Difficulty:    difficulty,
		Passage:       passage,
		Question:      &prompt,
		Choices:       choices,
		CorrectAnswer: &answer,
		Explanation:   explanation,
		Tags:          tags,
	}
}
