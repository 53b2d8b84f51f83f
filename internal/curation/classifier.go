package curation

import (
	"strings"

	"github.com/samvad-hq/samvad-news-curator/internal/domain"
)

// Classify keeps articles whose title or description mentions at least one keyword
// and none of the blocked terms. Matching is plain case-insensitive substring search,
// so terms also match inside longer words.
func Classify(articles []domain.Article, keywords, blocked []string) []domain.Article {
	kw := lowerAll(keywords)
	bl := lowerAll(blocked)

	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if matches(searchText(a), kw, bl) {
			out = append(out, a)
		}
	}
	return out
}

// Relevant reports whether a single article passes classification.
func Relevant(a domain.Article, keywords, blocked []string) bool {
	return matches(searchText(a), lowerAll(keywords), lowerAll(blocked))
}

func matches(text string, keywords, blocked []string) bool {
	if !containsAny(text, keywords) {
		return false
	}
	// blocklist wins over any keyword hit
	return !containsAny(text, blocked)
}

func searchText(a domain.Article) string {
	return strings.ToLower(a.Title + " " + a.Description)
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func lowerAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}
