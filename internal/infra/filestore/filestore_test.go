package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/quiz"
)

const grammarDoc = `quiz_metadata:
  title: Grammar Bank
  version: "2.0"
  created_date: 2025-06-15
  total_questions: 10
questions:
  - id: 1
    topic: Grammar
    difficulty: easy
    question: Pick the verb
    choices: [run, blue, fast]
    correct_answer: 0
    explanation: Run is a verb.
    explanation_zh_CN: 跑是动词。
  - id: 2
    topic: Grammar
    difficulty: Hard
    question: Pick the noun
    choices: [dog, quickly]
    correct_answer: 0
`

const spellingDoc = `quiz_metadata:
  title: Spelling Bank
questions:
  - id: 1
    topic: Spelling
    question: Which is right?
    choices: [Receive, Recieve]
    correct_answer: 0
`

func TestDecodeBuildsCollection(t *testing.T) {
	c, err := Decode([]byte(grammarDoc), "fallback")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	meta := c.Metadata()
	if meta.Title != "Grammar Bank" || meta.Version != "2.0" || meta.CreatedDate != "2025-06-15" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if meta.TotalQuestions != 2 {
		t.Fatalf("expected total recomputed to 2, got %d", meta.TotalQuestions)
	}
	q := c.Questions()[0]
	if text, ok := q.ExplanationFor(domain.LangSimplifiedChinese); !ok || text != "跑是动词。" {
		t.Fatalf("expected zh_CN variant, got %q", text)
	}
}

func TestDecodeReportsTypeErrors(t *testing.T) {
	doc := `quiz_metadata:
  title: Broken
questions:
  - id: 4
    topic: Grammar
    question: q
    choices: [a, b]
    correct_answer: two
  - id: 5
    topic: Grammar
    question: q
    choices: [a, b]
    correct_answer: 7
  - id: 6
    topic: Grammar
    question: q
    choices: [a, b]
    correct_answer: 1
`
	_, err := Decode([]byte(doc), "")
	var cerr *domain.CollectionError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CollectionError, got %v", err)
	}
	if !reflect.DeepEqual(cerr.QuestionIDs, []int{4, 5}) {
		t.Fatalf("expected ids [4 5], got %v", cerr.QuestionIDs)
	}
	var serr *domain.SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SchemaError inside %v", err)
	}
}

func TestEncodeDecodeKeepsStats(t *testing.T) {
	original := Sample()
	data, err := Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := Decode(data, "")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(original.Stats(), again.Stats()) {
		t.Fatalf("stats changed: %+v vs %+v", original.Stats(), again.Stats())
	}
	if !reflect.DeepEqual(original.Questions(), again.Questions()) {
		t.Fatalf("questions changed on round trip")
	}
}

func TestMergedCollectionSurvivesEncoding(t *testing.T) {
	grammar, err := Decode([]byte(grammarDoc), "")
	if err != nil {
		t.Fatalf("decode grammar: %v", err)
	}
	spelling, err := Decode([]byte(spellingDoc), "")
	if err != nil {
		t.Fatalf("decode spelling: %v", err)
	}
	merged := quiz.Merge("All topics", grammar, spelling)

	data, err := Encode(merged)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := DecodeStored(data, "")
	if err != nil {
		t.Fatalf("decode stored: %v", err)
	}
	if !reflect.DeepEqual(merged.Stats(), again.Stats()) {
		t.Fatalf("stats changed: %+v vs %+v", merged.Stats(), again.Stats())
	}
	if !reflect.DeepEqual(merged.Questions(), again.Questions()) {
		t.Fatalf("questions changed on round trip")
	}

	// Hand-written documents still may not repeat ids.
	var cerr *domain.CollectionError
	if _, err := Decode(data, ""); !errors.As(err, &cerr) || !reflect.DeepEqual(cerr.QuestionIDs, []int{1}) {
		t.Fatalf("expected duplicate id 1 from Decode, got %v", err)
	}
}

func TestSampleQuiz(t *testing.T) {
	c := Sample()
	if c.Len() != 3 || c.Title() != "English Language Arts Sample Quiz" {
		t.Fatalf("unexpected sample %+v", c.Metadata())
	}
	if got := c.Questions()[2].CorrectChoice(); got != "Receive" {
		t.Fatalf("expected Receive, got %q", got)
	}
}

func TestLoaderResolvesFilesAndTopicDirs(t *testing.T) {
	dir := t.TempDir()
	if err := Save(filepath.Join(dir, SampleFileName), Sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	writeFile(t, filepath.Join(dir, "banks", "01_grammar.yaml"), grammarDoc)
	writeFile(t, filepath.Join(dir, "banks", "02_spelling.yml"), spellingDoc)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	loader := NewLoader(dir)
	ctx := context.Background()

	sample, err := loader.LoadCollection(ctx, "sample_quiz")
	if err != nil || sample.Len() != 3 {
		t.Fatalf("load sample: %v", err)
	}

	banks, err := loader.LoadCollection(ctx, "banks")
	if err != nil {
		t.Fatalf("load banks: %v", err)
	}
	if banks.Len() != 3 || banks.Title() != "banks" {
		t.Fatalf("unexpected merged collection %+v", banks.Metadata())
	}
	if got := banks.Topics(); !reflect.DeepEqual(got, []string{"Grammar", "Spelling"}) {
		t.Fatalf("unexpected topics %v", got)
	}

	for _, name := range []string{"missing", "../etc", ""} {
		if _, err := loader.LoadCollection(ctx, name); !errors.Is(err, domain.ErrCollectionNotFound) {
			t.Fatalf("expected not found for %q, got %v", name, err)
		}
	}

	entries, err := loader.ListCollections(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []domain.CatalogEntry{
		{Name: "banks", Title: "banks (2 topics)", Path: filepath.Join(dir, "banks")},
		{Name: "sample_quiz", Title: "English Language Arts Sample Quiz", Path: filepath.Join(dir, SampleFileName)},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("unexpected catalog %+v", entries)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
