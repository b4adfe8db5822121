// Package filestore reads and writes quiz documents stored as YAML files.
package filestore

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/quiz"
)

type metadataRecord struct {
	Title          string `yaml:"title"`
	Version        string `yaml:"version"`
	CreatedDate    string `yaml:"created_date"`
	TotalQuestions int    `yaml:"total_questions"`
	Description    string `yaml:"description,omitempty"`
}

type inDocument struct {
	Metadata  metadataRecord `yaml:"quiz_metadata"`
	Questions []yaml.Node    `yaml:"questions"`
}

type outDocument struct {
	Metadata  metadataRecord          `yaml:"quiz_metadata"`
	Questions []domain.QuestionRecord `yaml:"questions"`
}

// Decode parses a hand-written quiz document. fallbackTitle is used when the
// document has no title. Records whose fields have the wrong type are reported
// alongside schema failures, including repeated ids, in a single
// *domain.CollectionError.
func Decode(data []byte, fallbackTitle string) (*quiz.Collection, error) {
	return decode(data, fallbackTitle, quiz.NewCollection)
}

// DecodeStored parses a document produced by Encode. Merged collections
// repeat ids, so they are accepted here.
func DecodeStored(data []byte, fallbackTitle string) (*quiz.Collection, error) {
	return decode(data, fallbackTitle, quiz.RestoreCollection)
}

func decode(data []byte, fallbackTitle string, build func(domain.Metadata, []domain.QuestionRecord) (*quiz.Collection, error)) (*quiz.Collection, error) {
	var doc inDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse quiz document: %w", err)
	}
	meta := domain.Metadata{
		Title:       doc.Metadata.Title,
		Version:     doc.Metadata.Version,
		CreatedDate: doc.Metadata.CreatedDate,
		Description: doc.Metadata.Description,
	}
	if meta.Title == "" {
		meta.Title = fallbackTitle
	}

	var (
		records  = make([]domain.QuestionRecord, 0, len(doc.Questions))
		typeErrs []*domain.SchemaError
	)
	for i := range doc.Questions {
		node := &doc.Questions[i]
		var rec domain.QuestionRecord
		if err := node.Decode(&rec); err != nil {
			typeErrs = append(typeErrs, &domain.SchemaError{
				QuestionID: recordID(node, i+1),
				Reason:     "wrong field type",
				Err:        err,
			})
			continue
		}
		if rec.ID == nil {
			pos := i + 1
			rec.ID = &pos
		}
		records = append(records, rec)
	}

	c, err := build(meta, records)
	if len(typeErrs) == 0 {
		return c, err
	}
	return nil, mergeTypeErrors(meta.Title, typeErrs, err)
}

// recordID recovers the id of a record that failed to decode, falling back to
// its position.
func recordID(node *yaml.Node, position int) int {
	var idOnly struct {
		ID int `yaml:"id"`
	}
	if err := node.Decode(&idOnly); err == nil && idOnly.ID != 0 {
		return idOnly.ID
	}
	return position
}

func mergeTypeErrors(title string, typeErrs []*domain.SchemaError, validateErr error) error {
	out := &domain.CollectionError{Title: title}
	for _, e := range typeErrs {
		out.QuestionIDs = append(out.QuestionIDs, e.QuestionID)
		out.Errs = append(out.Errs, e)
	}
	var cerr *domain.CollectionError
	if errors.As(validateErr, &cerr) {
		out.QuestionIDs = append(out.QuestionIDs, cerr.QuestionIDs...)
		out.Errs = append(out.Errs, cerr.Errs...)
	}
	sort.Ints(out.QuestionIDs)
	return out
}

// Encode renders c as a quiz document.
func Encode(c *quiz.Collection) ([]byte, error) {
	meta := c.Metadata()
	doc := outDocument{
		Metadata: metadataRecord{
			Title:          meta.Title,
			Version:        meta.Version,
			CreatedDate:    meta.CreatedDate,
			TotalQuestions: meta.TotalQuestions,
			Description:    meta.Description,
		},
	}
	for _, q := range c.Questions() {
		doc.Questions = append(doc.Questions, domain.RecordFromQuestion(q))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode quiz document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Title reads only the metadata title of a document.
func Title(data []byte) (string, error) {
	var doc struct {
		Metadata metadataRecord `yaml:"quiz_metadata"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", err
	}
	return doc.Metadata.Title, nil
}
