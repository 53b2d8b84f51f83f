package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-news-curator/internal/feed"
)

const (
	EventTypeArticle    = "article"
	EventTypeEarthquake = "earthquake"
)

// Event represents one curated item published downstream. Exactly one of
// Article or Earthquake is set, matching Type.
type Event struct {
	Type       string            `json:"type"`
	RunID      string            `json:"run_id"`
	Position   int               `json:"position"`
	CuratedAt  time.Time         `json:"curated_at"`
	ProviderID string            `json:"provider_id,omitempty"`
	Article    *feed.ArticleItem `json:"article,omitempty"`
	Earthquake *feed.QuakeItem   `json:"earthquake,omitempty"`
}

// NewArticleEvent wraps a curated article at its feed position.
func NewArticleEvent(runID string, position int, item feed.ArticleItem, curatedAt time.Time) Event {
	return Event{
		Type:       EventTypeArticle,
		RunID:      runID,
		Position:   position,
		CuratedAt:  curatedAt.UTC(),
		ProviderID: item.ProviderID,
		Article:    &item,
	}
}

// NewEarthquakeEvent wraps an earthquake list entry at its rank.
func NewEarthquakeEvent(runID string, position int, item feed.QuakeItem, curatedAt time.Time) Event {
	return Event{
		Type:       EventTypeEarthquake,
		RunID:      runID,
		Position:   position,
		CuratedAt:  curatedAt.UTC(),
		Earthquake: &item,
	}
}

// Key identifies the published item across runs: the article link (or id when
// the link is empty) or the earthquake id.
func (e Event) Key() string {
	switch {
	case e.Article != nil:
		if e.Article.Link != "" {
			return EventTypeArticle + ":" + e.Article.Link
		}
		return EventTypeArticle + ":" + e.Article.ID
	case e.Earthquake != nil:
		return EventTypeEarthquake + ":" + e.Earthquake.ID
	default:
		return ""
	}
}

// attributes are attached as message metadata by queue publishers.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"event_type": e.Type,
		"run_id":     e.RunID,
	}
	if e.ProviderID != "" {
		attrs["provider_id"] = e.ProviderID
	}
	return attrs
}
