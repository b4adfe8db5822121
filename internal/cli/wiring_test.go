package cli

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"english-quiz-app/internal/app"
	"english-quiz-app/internal/config"
)

func TestWarnDefaultSecret(t *testing.T) {
	log, hook := logtest.NewNullLogger()

	cfg := config.Config{}
	cfg.Server.SessionSecret = config.DefaultSessionSecret
	warnDefaultSecret(cfg, log)
	if len(hook.AllEntries()) != 1 || hook.LastEntry().Level != logrus.WarnLevel {
		t.Fatalf("expected one warning for the default secret, got %v", hook.AllEntries())
	}

	hook.Reset()
	cfg.Server.SessionSecret = "a-real-secret"
	warnDefaultSecret(cfg, log)
	if len(hook.AllEntries()) != 0 {
		t.Fatalf("expected no warning for a configured secret, got %v", hook.AllEntries())
	}
}

func TestExplainersAreBuiltPerSession(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	cfg := config.Config{}
	cfg.Translation.Cache = cacheMemory

	newExplainer, err := buildExplainers(cfg, nil, log, &stack{})
	if err != nil {
		t.Fatalf("build explainers: %v", err)
	}
	if a, b := newExplainer(), newExplainer(); a == b {
		t.Fatalf("expected a distinct resolver per session")
	}

	cfg.Translation.Enabled = true
	cfg.Translation.APIKey = "sk-test"
	withTranslation := mustExplainers(t, cfg)
	if a, b := withTranslation(), withTranslation(); a == b {
		t.Fatalf("expected a distinct resolver per session with translation on")
	}

	cfg.Translation.Cache = "bogus"
	if _, err := buildExplainers(cfg, nil, log, &stack{}); err == nil {
		t.Fatalf("expected unknown translation cache to fail")
	}
}

func mustExplainers(t *testing.T, cfg config.Config) func() app.Explainer {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	f, err := buildExplainers(cfg, nil, log, &stack{})
	if err != nil {
		t.Fatalf("build explainers: %v", err)
	}
	return f
}
