package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"english-quiz-app/internal/app"
	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/logging"
)

const (
	cookieName      = "quiz"
	cookieSessionID = "session_id"
)

// SessionHandler serves the JSON quiz API. A browser is bound to its quiz
// session by a signed cookie holding the session id.
type SessionHandler struct {
	service     *app.QuizService
	cookies     sessions.Store
	lang        domain.Language
	defaultQuiz string
}

func NewSessionHandler(service *app.QuizService, cookies sessions.Store, lang domain.Language, defaultQuiz string) *SessionHandler {
	return &SessionHandler{service: service, cookies: cookies, lang: lang, defaultQuiz: defaultQuiz}
}

// NewCookieStore builds the cookie store used by SessionHandler.
func NewCookieStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

type startRequest struct {
	Collection string `json:"collection"`
	Mode       string `json:"mode"`
	Filter     string `json:"filter"`
}

type answerRequest struct {
	Choice *int   `json:"choice"`
	Lang   string `json:"lang"`
}

func (h *SessionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Collections(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *SessionHandler) CollectionStats(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.CollectionStats(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Start begins a new session, replacing any session the cookie points at.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logging.WithContext(r.Context()).WithError(err).Warn("invalid start body")
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid request body"})
		return
	}
	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Collection == "" {
		req.Collection = h.defaultQuiz
	}

	// the previous session survives a failed start
	snap, err := h.service.Start(r.Context(), req.Collection, mode, req.Filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	cookie, _ := h.cookies.Get(r, cookieName)
	previous, _ := cookie.Values[cookieSessionID].(string)
	if err := h.bind(w, r, snap.ID); err != nil {
		h.service.End(r.Context(), snap.ID)
		writeError(w, r, err)
		return
	}
	if previous != "" && previous != snap.ID {
		h.service.End(r.Context(), previous)
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	id, err := h.sessionID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := h.service.Session(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	id, err := h.sessionID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Choice == nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "choice is required"})
		return
	}
	fb, err := h.service.Answer(r.Context(), id, *req.Choice, languageOf(r, req.Lang, h.lang))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Advance)
}

func (h *SessionHandler) Quit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Quit)
}

// Restart starts a fresh attempt at a completed session's questions and
// rebinds the cookie to it.
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	id, err := h.sessionID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := h.service.Restart(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.bind(w, r, snap.ID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *SessionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := h.sessionID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum, err := h.service.Summary(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// End drops the bound session and clears the cookie.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.cookies.Get(r, cookieName)
	if id, ok := cookie.Values[cookieSessionID].(string); ok {
		h.service.End(r.Context(), id)
	}
	delete(cookie.Values, cookieSessionID)
	if err := cookie.Save(r, w); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) transition(w http.ResponseWriter, r *http.Request, step func(ctx context.Context, id string) (app.Snapshot, error)) {
	id, err := h.sessionID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := step(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *SessionHandler) sessionID(r *http.Request) (string, error) {
	cookie, err := h.cookies.Get(r, cookieName)
	if err != nil {
		return "", domain.ErrSessionNotFound
	}
	id, ok := cookie.Values[cookieSessionID].(string)
	if !ok || id == "" {
		return "", domain.ErrSessionNotFound
	}
	return id, nil
}

func (h *SessionHandler) bind(w http.ResponseWriter, r *http.Request, id string) error {
	cookie, _ := h.cookies.Get(r, cookieName)
	cookie.Values[cookieSessionID] = id
	return cookie.Save(r, w)
}
