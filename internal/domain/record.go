package domain

import "strings"

const explanationKeyPrefix = "explanation_"

// QuestionRecord is the raw shape of one entry in a quiz document's `questions`
// list. Pointer fields distinguish a missing key from a zero value.
type QuestionRecord struct {
	ID            *int     `yaml:"id,omitempty"`
	Topic         *string  `yaml:"topic,omitempty"`
	Difficulty    string   `yaml:"difficulty,omitempty"`
	Passage       string   `yaml:"passage,omitempty"`
	Question      *string  `yaml:"question,omitempty"`
	Choices       []string `yaml:"choices,omitempty"`
	CorrectAnswer *int     `yaml:"correct_answer,omitempty"`
	Explanation   string   `yaml:"explanation,omitempty"`
	Tags          []string `yaml:"tags,omitempty"`

	// Extra holds keys not declared above, including explanation_<lang> variants.
	Extra map[string]any `yaml:",inline"`
}

// LocalizedExplanations extracts the non-empty explanation_<lang> variants.
func (r QuestionRecord) LocalizedExplanations() map[Language]string {
	var out map[Language]string
	for key, raw := range r.Extra {
		if !strings.HasPrefix(key, explanationKeyPrefix) {
			continue
		}
		text, ok := raw.(string)
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		if out == nil {
			out = make(map[Language]string)
		}
		out[Language(strings.TrimPrefix(key, explanationKeyPrefix))] = text
	}
	return out
}

// RecordFromQuestion converts a validated question back into its document shape.
func RecordFromQuestion(q Question) QuestionRecord {
	id, topic, prompt, answer := q.ID, q.Topic, q.Prompt, q.CorrectAnswer
	rec := QuestionRecord{
		ID:            &id,
		Topic:         &topic,
		Difficulty:    q.Difficulty,
		Passage:       q.Passage,
		Question:      &prompt,
		Choices:       append([]string(nil), q.Choices...),
		CorrectAnswer: &answer,
		Explanation:   q.Explanation,
		Tags:          append([]string(nil), q.Tags...),
	}
	if len(q.Explanations) > 0 {
		rec.Extra = make(map[string]any, len(q.Explanations))
		for lang, text := range q.Explanations {
			rec.Extra[explanationKeyPrefix+string(lang)] = text
		}
	}
	return rec
}
