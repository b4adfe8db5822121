// Package translate turns English explanations into the supported display
// languages through an OpenAI-compatible chat completion endpoint.
package translate

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"english-quiz-app/internal/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT4oMini

var targets = map[domain.Language]string{
	domain.LangTraditionalChinese: "Traditional Chinese (zh-TW)",
	"zh_HK":                       "Traditional Chinese (zh-TW)",
	"zh_Hant":                     "Traditional Chinese (zh-TW)",
	domain.LangChinese:            "Traditional Chinese (zh-TW)",
	domain.LangSimplifiedChinese:  "Simplified Chinese (zh-CN)",
}

// Supported reports whether lang is a translation target. English is always
// supported and returned unchanged.
func Supported(lang domain.Language) bool {
	if lang.IsEnglish() {
		return true
	}
	_, ok := targets[lang]
	return ok
}

// Options configures an OpenAITranslator.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAITranslator implements explain.Translator.
type OpenAITranslator struct {
	client *openai.Client
	model  string
}

func NewOpenAITranslator(opts Options) *OpenAITranslator {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &OpenAITranslator{client: openai.NewClientWithConfig(cfg), model: model}
}

// Translate renders text in lang.
func (t *OpenAITranslator) Translate(ctx context.Context, text string, lang domain.Language) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyText
	}
	if lang.IsEnglish() {
		return text, nil
	}
	target, ok := targets[lang]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedLanguage, lang)
	}

	resp, err := t.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       t.model,
			Temperature: 0,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You translate short English grammar and vocabulary explanations for language learners. Keep quoted English words, example sentences and answer choices in English. Reply with the translation only.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf("Translate into %s:\n\n%s", target, text),
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", lang, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("translate to %s: no choices returned", lang)
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("translate to %s: empty completion", lang)
	}
	return out, nil
}
