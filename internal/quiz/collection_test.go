package quiz

import (
	"errors"
	"reflect"
	"testing"

	"english-quiz-app/internal/domain"
)

func TestNewCollectionRecomputesTotal(t *testing.T) {
	c, err := NewCollection(domain.Metadata{Title: "ELA", TotalQuestions: 99}, sampleRecords())
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	if c.Metadata().TotalQuestions != 4 || c.Len() != 4 {
		t.Fatalf("expected 4 questions, got meta=%d len=%d", c.Metadata().TotalQuestions, c.Len())
	}
	if got := c.Stats().TotalQuestions; got != c.Len() {
		t.Fatalf("stats total %d != len %d", got, c.Len())
	}
}

func TestNewCollectionListsEveryInvalidID(t *testing.T) {
	records := sampleRecords()
	records[1].Topic = nil
	bad := 9
	records[3].CorrectAnswer = &bad

	_, err := NewCollection(domain.Metadata{Title: "ELA"}, records)
	var cerr *domain.CollectionError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CollectionError, got %v", err)
	}
	if !reflect.DeepEqual(cerr.QuestionIDs, []int{2, 4}) {
		t.Fatalf("expected ids [2 4], got %v", cerr.QuestionIDs)
	}
	var serr *domain.SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected wrapped SchemaError")
	}
}

func TestNewCollectionRejectsDuplicateIDs(t *testing.T) {
	records := sampleRecords()
	one := 1
	records[2].ID = &one

	_, err := NewCollection(domain.Metadata{Title: "ELA"}, records)
	var cerr *domain.CollectionError
	if !errors.As(err, &cerr) || !reflect.DeepEqual(cerr.QuestionIDs, []int{1}) {
		t.Fatalf("expected duplicate id 1 to be reported, got %v", err)
	}
}

func TestRestoreCollectionKeepsRepeatedIDs(t *testing.T) {
	records := sampleRecords()
	one := 1
	records[2].ID = &one

	c, err := RestoreCollection(domain.Metadata{Title: "ELA"}, records)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if c.Len() != len(records) {
		t.Fatalf("expected %d questions, got %d", len(records), c.Len())
	}

	bad := 9
	records[3].CorrectAnswer = &bad
	if _, err := RestoreCollection(domain.Metadata{Title: "ELA"}, records); err == nil {
		t.Fatalf("expected schema errors to still fail restore")
	}
}

func TestFiltersAreCaseInsensitiveAndIdempotent(t *testing.T) {
	c := mustCollection(t)

	first := c.FilterByTopic("grammar")
	second := c.FilterByTopic("grammar")
	if len(first) != 2 {
		t.Fatalf("expected 2 grammar questions, got %d", len(first))
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("filter is not idempotent")
	}

	easy := c.FilterByDifficulty(" EASY ")
	if len(easy) != 2 || easy[0].ID != 1 || easy[1].ID != 3 {
		t.Fatalf("unexpected easy questions %+v", easy)
	}

	none := c.FilterByTopic("Poetry")
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", none)
	}
}

func TestStatsKeepFirstSeenOrder(t *testing.T) {
	stats := mustCollection(t).Stats()

	wantTopics := []Count{{"Reading Comprehension", 1}, {"Grammar", 2}, {"Spelling", 1}}
	if !reflect.DeepEqual(stats.Topics, wantTopics) {
		t.Fatalf("topics %+v", stats.Topics)
	}
	wantDiff := []Count{{"easy", 2}, {"hard", 1}, {"Expert", 1}}
	if !reflect.DeepEqual(stats.Difficulties, wantDiff) {
		t.Fatalf("difficulties %+v", stats.Difficulties)
	}
}

func TestDifficultiesPutCanonicalLevelsFirst(t *testing.T) {
	got := mustCollection(t).Difficulties()
	if !reflect.DeepEqual(got, []string{"easy", "hard", "Expert"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestMergeKeepsDuplicateIDs(t *testing.T) {
	a := mustCollection(t)
	b := mustCollection(t)

	merged := Merge("All topics", a, nil, b)
	if merged.Len() != a.Len()+b.Len() {
		t.Fatalf("expected %d questions, got %d", a.Len()+b.Len(), merged.Len())
	}
	if merged.Metadata().TotalQuestions != merged.Len() {
		t.Fatalf("total not recomputed")
	}
	qs := merged.Questions()
	if qs[0].ID != qs[a.Len()].ID {
		t.Fatalf("expected ids to repeat across merged collections")
	}
	if merged.Title() != "All topics" || merged.Metadata().Version != "1.0" {
		t.Fatalf("unexpected metadata %+v", merged.Metadata())
	}
}

func TestQuestionsReturnsCopy(t *testing.T) {
	c := mustCollection(t)
	qs := c.Questions()
	qs[0] = domain.Question{}
	if c.Questions()[0].ID != 1 {
		t.Fatalf("collection was mutated through Questions()")
	}
}

func mustCollection(t *testing.T) *Collection {
	t.Helper()
	c, err := NewCollection(domain.Metadata{Title: "ELA", Version: "1.0"}, sampleRecords())
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}
	return c
}

func sampleRecords() []domain.QuestionRecord {
	return []domain.QuestionRecord{
		record(1, "Reading Comprehension", "easy", 0, "a", "b"),
		record(2, "Grammar", "hard", 1, "a", "b", "c"),
		record(3, "grammar", "Easy", 2, "a", "b", "c", "d"),
		record(4, "Spelling", "Expert", 0, "a", "b"),
	}
}
