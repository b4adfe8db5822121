package i18n

import (
	"testing"

	"english-quiz-app/internal/domain"
)

func TestTextFallbacks(t *testing.T) {
	if got := Text("score", domain.LangTraditionalChinese); got != "分數" {
		t.Fatalf("expected zh_TW text, got %q", got)
	}
	if got := Text("score", "fr"); got != "Score" {
		t.Fatalf("expected English fallback, got %q", got)
	}
	if got := Text("missing_key", domain.LangEnglish); got != "[missing_key]" {
		t.Fatalf("expected key marker, got %q", got)
	}
	if got := Textf("questions_remaining", domain.LangEnglish, 2); got != "2 questions remaining - try again to complete the full quiz!" {
		t.Fatalf("unexpected formatted text %q", got)
	}
}

func TestEveryKeyHasEnglish(t *testing.T) {
	for lang, table := range texts {
		for key := range table {
			if _, ok := texts[domain.LangEnglish][key]; !ok {
				t.Fatalf("%s key %q has no English text", lang, key)
			}
		}
	}
}

func TestDisplayName(t *testing.T) {
	if DisplayName("xx") != "繁體中文" || DisplayName(domain.LangEnglish) != "English" {
		t.Fatalf("unexpected display names")
	}
	if len(Languages()) != 2 {
		t.Fatalf("expected two interface languages")
	}
}
