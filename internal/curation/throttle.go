package curation

import (
	"strings"

	"github.com/samvad-hq/samvad-news-curator/internal/domain"
)

// Throttle keeps at most max articles whose resolved domain contains source, in
// their original order. Non-matching articles are always kept.
func Throttle(articles []domain.Article, source string, max int) []domain.Article {
	out := make([]domain.Article, 0, len(articles))
	count := 0

	for _, a := range articles {
		if !strings.Contains(ResolveDomain(a.Link).Domain, source) {
			out = append(out, a)
			continue
		}
		if count < max {
			out = append(out, a)
			count++
		}
	}
	return out
}
