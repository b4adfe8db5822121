package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptySelection is returned when a session would start with no questions.
	ErrEmptySelection = errors.New("no questions selected")
	// ErrAlreadyAnswered is returned when the current position already has an answer.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrInvalidChoice indicates a choice index outside the question's choices.
	ErrInvalidChoice = errors.New("choice out of range")
	// ErrSessionComplete is returned for transitions that need an active session.
	ErrSessionComplete = errors.New("quiz session is complete")
	// ErrSessionActive is returned when restarting a session that has not finished.
	ErrSessionActive = errors.New("quiz session is still active")
	// ErrSessionNotFound is returned when a quiz session has not been started.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrCollectionNotFound indicates the quiz content could not be located.
	ErrCollectionNotFound = errors.New("quiz collection not found")
	// ErrUnknownMode indicates an unsupported selection mode.
	ErrUnknownMode = errors.New("unknown quiz mode")
	// ErrUnsupportedLanguage is returned by translators for targets they cannot produce.
	ErrUnsupportedLanguage = errors.New("unsupported target language")
	// ErrEmptyText is returned by translators when there is nothing to translate.
	ErrEmptyText = errors.New("empty text")
)

// SchemaError reports a question record that does not match the question schema.
type SchemaError struct {
	QuestionID int
	Field      string
	Reason     string
	Err        error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "question %d", e.QuestionID)
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error { return e.Err }

// CollectionError reports every invalid question found while building a collection.
type CollectionError struct {
	Title       string
	QuestionIDs []int
	Errs        []error
}

func (e *CollectionError) Error() string {
	ids := make([]string, len(e.QuestionIDs))
	for i, id := range e.QuestionIDs {
		ids[i] = strconv.Itoa(id)
	}
	msg := fmt.Sprintf("collection %q: invalid questions [%s]", e.Title, strings.Join(ids, ", "))
	if len(e.Errs) > 0 {
		msg += ": " + e.Errs[0].Error()
		if len(e.Errs) > 1 {
			msg += fmt.Sprintf(" (and %d more)", len(e.Errs)-1)
		}
	}
	return msg
}

func (e *CollectionError) Unwrap() []error { return e.Errs }
