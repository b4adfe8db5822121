package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/logging"
)

type errorPayload struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	log := logging.WithContext(r.Context()).WithError(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed")
		writeJSON(w, status, errorPayload{Message: "internal server error"})
		return
	}
	log.Debug("request rejected")
	writeJSON(w, status, errorPayload{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidChoice),
		errors.Is(err, domain.ErrUnknownMode),
		errors.Is(err, domain.ErrEmptySelection):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrCollectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyAnswered),
		errors.Is(err, domain.ErrSessionComplete),
		errors.Is(err, domain.ErrSessionActive):
		return http.StatusConflict
	}
	var cerr *domain.CollectionError
	if errors.As(err, &cerr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// languageOf picks the explanation language: explicit value, then ?lang=,
// then fallback.
func languageOf(r *http.Request, explicit string, fallback domain.Language) domain.Language {
	if explicit != "" {
		return domain.Language(explicit)
	}
	if q := r.URL.Query().Get("lang"); q != "" {
		return domain.Language(q)
	}
	return fallback
}
