package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-news-curator/internal/feed"
)

var testCuratedAt = time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)

func sampleArticleEvent() Event {
	return NewArticleEvent("run-1", 0, feed.ArticleItem{
		ID:         "a1",
		ProviderID: "provider-1",
		Title:      "Quake hits coast",
		Link:       "https://www.bbc.co.uk/news/1",
		Domain:     "bbc.co.uk",
		SourceName: "bbc",
	}, testCuratedAt)
}
