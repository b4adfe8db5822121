package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"english-quiz-app/internal/domain"
)

func TestSessionAPIFlow(t *testing.T) {
	service, store := newTestService()
	server := httptest.NewServer(NewRouter(RouterConfig{
		Sessions: NewSessionHandler(service, NewCookieStore("test-secret"), domain.LangEnglish, "sample"),
	}))
	defer server.Close()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	var out map[string]any
	if status := call(t, client, http.MethodGet, server.URL+"/api/session", nil, &out); status != http.StatusNotFound {
		t.Fatalf("expected 404 before start, got %d", status)
	}

	status := call(t, client, http.MethodPost, server.URL+"/api/session", map[string]any{"mode": "full"}, &out)
	if status != http.StatusCreated || out["total"] != float64(3) {
		t.Fatalf("unexpected start %d %v", status, out)
	}

	if status := call(t, client, http.MethodPost, server.URL+"/api/session/answer", map[string]any{"choice": 9}, &out); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid choice, got %d", status)
	}
	status = call(t, client, http.MethodPost, server.URL+"/api/session/answer", map[string]any{"choice": 0}, &out)
	if status != http.StatusOK || out["correct"] != true {
		t.Fatalf("unexpected answer %d %v", status, out)
	}
	if status := call(t, client, http.MethodPost, server.URL+"/api/session/answer", map[string]any{"choice": 0}, &out); status != http.StatusConflict {
		t.Fatalf("expected 409 for second answer, got %d", status)
	}
	if status := call(t, client, http.MethodPost, server.URL+"/api/session/restart", nil, &out); status != http.StatusConflict {
		t.Fatalf("expected 409 restarting an active session, got %d", status)
	}

	status = call(t, client, http.MethodPost, server.URL+"/api/session/quit", nil, &out)
	if status != http.StatusOK || out["quit"] != true || out["state"] != "complete" {
		t.Fatalf("unexpected quit %d %v", status, out)
	}

	status = call(t, client, http.MethodGet, server.URL+"/api/session/summary", nil, &out)
	if status != http.StatusOK || out["accuracy"] != float64(100) || out["answered"] != float64(1) {
		t.Fatalf("unexpected summary %d %v", status, out)
	}

	status = call(t, client, http.MethodPost, server.URL+"/api/session/restart", nil, &out)
	if status != http.StatusOK || out["state"] != "active" || out["answered"] != float64(0) {
		t.Fatalf("unexpected restart %d %v", status, out)
	}
	if store.Len() != 1 {
		t.Fatalf("expected restart to replace the session, have %d", store.Len())
	}

	if status := call(t, client, http.MethodDelete, server.URL+"/api/session", nil, nil); status != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", status)
	}
	if store.Len() != 0 {
		t.Fatalf("expected no sessions after delete, have %d", store.Len())
	}
}

func TestFailedStartKeepsCurrentSession(t *testing.T) {
	service, store := newTestService()
	server := httptest.NewServer(NewRouter(RouterConfig{
		Sessions: NewSessionHandler(service, NewCookieStore("test-secret"), domain.LangEnglish, "sample"),
	}))
	defer server.Close()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	var out map[string]any
	if status := call(t, client, http.MethodPost, server.URL+"/api/session", map[string]any{"mode": "full"}, &out); status != http.StatusCreated {
		t.Fatalf("unexpected start %d %v", status, out)
	}
	if status := call(t, client, http.MethodPost, server.URL+"/api/session/answer", map[string]any{"choice": 0}, &out); status != http.StatusOK {
		t.Fatalf("unexpected answer %d %v", status, out)
	}

	status := call(t, client, http.MethodPost, server.URL+"/api/session", map[string]any{"mode": "topic", "filter": "Nope"}, &out)
	if status == http.StatusCreated {
		t.Fatalf("expected start with unknown topic to fail, got %d", status)
	}

	status = call(t, client, http.MethodGet, server.URL+"/api/session", nil, &out)
	if status != http.StatusOK || out["answered"] != float64(1) || out["state"] != "active" {
		t.Fatalf("expected in-progress session to survive, got %d %v", status, out)
	}

	if status := call(t, client, http.MethodPost, server.URL+"/api/session", map[string]any{"mode": "full"}, &out); status != http.StatusCreated {
		t.Fatalf("unexpected second start %d %v", status, out)
	}
	if store.Len() != 1 {
		t.Fatalf("expected successful start to replace the session, have %d", store.Len())
	}
}

func TestCollectionEndpoints(t *testing.T) {
	service, _ := newTestService()
	server := httptest.NewServer(NewRouter(RouterConfig{
		Sessions: NewSessionHandler(service, NewCookieStore("test-secret"), domain.LangEnglish, "sample"),
	}))
	defer server.Close()

	var entries []domain.CatalogEntry
	if status := call(t, http.DefaultClient, http.MethodGet, server.URL+"/api/collections", nil, &entries); status != http.StatusOK || len(entries) != 1 {
		t.Fatalf("unexpected catalog %d %v", status, entries)
	}

	var report map[string]any
	if status := call(t, http.DefaultClient, http.MethodGet, server.URL+"/api/collections/sample/stats", nil, &report); status != http.StatusOK {
		t.Fatalf("unexpected stats status %d", status)
	}
	if status := call(t, http.DefaultClient, http.MethodGet, server.URL+"/api/collections/missing/stats", nil, &report); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if status := call(t, http.DefaultClient, http.MethodPost, server.URL+"/api/session", map[string]any{"mode": "random"}, &report); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown mode, got %d", status)
	}

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
}

func call(t *testing.T, client *http.Client, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if m, ok := out.(*map[string]any); ok {
		*m = nil
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}
