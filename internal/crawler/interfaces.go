package crawler

import (
	"context"

	"github.com/samvad-hq/samvad-news-curator/internal/domain"
	"github.com/samvad-hq/samvad-news-curator/pkg/providers"
)

// ArticleScraper enriches crawled articles with metadata (e.g., OG tags).
type ArticleScraper interface {
	Enrich(ctx context.Context, cfg providers.Provider, articles []domain.Article) []domain.Article
}

// QuakeFetcher retrieves the earthquake event feed.
type QuakeFetcher interface {
	Fetch(ctx context.Context) ([]domain.EarthquakeEvent, error)
}
