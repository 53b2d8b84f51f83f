package curation

import (
	"sort"

	"github.com/samvad-hq/samvad-news-curator/internal/domain"
)

// SortByRecency returns a copy of articles ordered by publication time, newest first.
// Equal timestamps keep their input order.
func SortByRecency(articles []domain.Article) []domain.Article {
	out := append([]domain.Article(nil), articles...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PubDate.After(out[j].PubDate)
	})
	return out
}

type pooled struct {
	article domain.Article
	domain  string
}

// Interleave reorders a recency-sorted list so that articles from the same domain
// are at least spacing positions apart. Each step places the earliest pooled article
// whose domain is eligible; when none is, the front of the pool is dropped
// (OverflowDrop) or placed anyway (OverflowDefer).
func Interleave(articles []domain.Article, spacing int, policy OverflowPolicy) []domain.Article {
	pool := make([]pooled, len(articles))
	for i, a := range articles {
		pool[i] = pooled{article: a, domain: ResolveDomain(a.Link).Domain}
	}

	out := make([]domain.Article, 0, len(articles))
	lastAt := make(map[string]int, len(articles))

	place := func(p pooled) {
		out = append(out, p.article)
		lastAt[p.domain] = len(out) - 1
	}

	for len(pool) > 0 {
		placed := false
		for i, p := range pool {
			last, seen := lastAt[p.domain]
			if !seen || len(out)-last >= spacing {
				place(p)
				pool = append(pool[:i], pool[i+1:]...)
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		if policy == OverflowDefer {
			place(pool[0])
		}
		pool = pool[1:]
	}

	return out
}
