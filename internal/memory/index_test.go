package memory

import (
	"strings"
	"testing"
)

func TestIndexAddAndSearch(t *testing.T) {
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	defer idx.Close()

	id, err := idx.Add(ResearchRecord{
		Query:      "history of the go programming language",
		Summary:    "Go was designed at Google in 2007 by Griesemer, Pike and Thompson.",
		SourceURLs: []string{"https://go.dev"},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id == "" {
		t.Fatal("expected an assigned ID")
	}
	if _, err := idx.Add(ResearchRecord{
		Query:   "weather in bergen",
		Summary: "It rains a lot in Bergen, Norway.",
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	hits, err := idx.Search("golang google", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("expected at least one hit")
	}
	if hits[0].ID != id {
		t.Fatalf("top hit = %+v", hits[0])
	}
	if hits[0].Rank != 1 {
		t.Fatalf("rank = %d", hits[0].Rank)
	}
}

func TestIndexSearchNoMatches(t *testing.T) {
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	defer idx.Close()

	hits, err := idx.Search("anything", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("hits = %v", hits)
	}
}

func TestSnippetTruncates(t *testing.T) {
	long := strings.Repeat("a", 500)
	got := snippet(long)
	if len(got) != 243 || !strings.HasSuffix(got, "...") {
		t.Fatalf("len = %d", len(got))
	}
}
