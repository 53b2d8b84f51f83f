package curation

import (
	"testing"

	"github.com/samvad-hq/samvad-news-curator/internal/domain"
)

func TestClassifyKeepsKeywordMatches(t *testing.T) {
	articles := []domain.Article{
		{ID: "1", Title: "Train DERAILMENT in the north"},
		{ID: "2", Title: "Local bakery opens", Description: "an outbreak of croissants"},
		{ID: "3", Title: "Sunny weekend ahead"},
	}

	got := Classify(articles, []string{"derailment", "outbreak"}, nil)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("unexpected classification %#v", got)
	}
}

func TestClassifyBlocklistWins(t *testing.T) {
	articles := []domain.Article{
		{ID: "1", Title: "War drama tops Netflix Series chart"},
		{ID: "2", Title: "War escalates"},
	}

	got := Classify(articles, []string{"war"}, []string{"netflix series"})
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected only the unblocked article, got %#v", got)
	}
}

func TestClassifyMatchesInsideWords(t *testing.T) {
	// "war" is a substring of "award"; substring matching keeps it.
	a := domain.Article{Title: "Baker wins award"}
	if !Relevant(a, []string{"war"}, nil) {
		t.Fatalf("expected substring match inside a longer word")
	}
}

func TestClassifyMixedCaseTerms(t *testing.T) {
	a := domain.Article{Title: "Crash report", Description: "Flash Update on the crash"}
	if Relevant(a, []string{"CRASH"}, []string{"Flash Update"}) {
		t.Fatalf("expected mixed-case blocked term to reject the article")
	}
	if !Relevant(domain.Article{Title: "Crash report"}, []string{"CRASH"}, []string{"Flash Update"}) {
		t.Fatalf("expected mixed-case keyword to match")
	}
}

func TestClassifyEmptyInputs(t *testing.T) {
	if got := Classify(nil, []string{"war"}, nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %#v", got)
	}
	if got := Classify([]domain.Article{{Title: "war"}}, nil, nil); len(got) != 0 {
		t.Fatalf("expected nothing to pass without keywords, got %#v", got)
	}
}
