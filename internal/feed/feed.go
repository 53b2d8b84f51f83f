package feed

import (
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-news-curator/internal/curation"
	"github.com/samvad-hq/samvad-news-curator/internal/domain"
	"github.com/samvad-hq/samvad-news-curator/pkg/earthquakes"
)

// Package feed turns curated records into the view models handed to renderers
// and downstream sinks.

const (
	// PlaceholderLogo is used when an article link has no resolvable host.
	PlaceholderLogo = "images/placeholder.png"
	faviconEndpoint = "https://www.google.com/s2/favicons"
	faviconSize     = "128"
)

// ArticleItem is the render-ready form of a curated article.
type ArticleItem struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"provider_id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Domain      string    `json:"domain"`
	SourceName  string    `json:"source_name"`
	Age         string    `json:"age"`
	ImageURL    string    `json:"image_url,omitempty"`
	LogoURL     string    `json:"logo_url"`
	PublishedAt time.Time `json:"published_at"`
}

// QuakeItem is the render-ready form of an earthquake event.
type QuakeItem struct {
	ID        string    `json:"id"`
	Magnitude string    `json:"magnitude"`
	Value     float64   `json:"magnitude_value"`
	Region    string    `json:"region"`
	Place     string    `json:"place"`
	Age       string    `json:"age"`
	URL       string    `json:"url"`
	Time      time.Time `json:"time"`
}

// Builder produces view models relative to a clock. Fallback image picks use
// the injected random source so output is reproducible in tests.
type Builder struct {
	fallbackImages []string
	now            func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBuilder returns a Builder. A nil rng is seeded from the clock and a nil
// now defaults to time.Now.
func NewBuilder(fallbackImages []string, rng *rand.Rand, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	images := make([]string, 0, len(fallbackImages))
	for _, img := range fallbackImages {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	return &Builder{fallbackImages: images, now: now, rng: rng}
}

// Articles maps curated articles to view items, preserving order. All ages are
// computed against a single reading of the clock.
func (b *Builder) Articles(articles []domain.Article) []ArticleItem {
	now := b.now()
	out := make([]ArticleItem, 0, len(articles))
	for _, a := range articles {
		info := curation.ResolveDomain(a.Link)
		out = append(out, ArticleItem{
			ID:          a.ID,
			ProviderID:  a.ProviderID,
			Title:       a.Title,
			Link:        a.Link,
			Domain:      info.Domain,
			SourceName:  info.DisplayName,
			Age:         curation.TimeAgo(a.PubDate, now),
			ImageURL:    b.imageFor(a),
			LogoURL:     LogoURL(a.Link),
			PublishedAt: a.PubDate,
		})
	}
	return out
}

// Earthquakes returns the n strongest events as view items.
func (b *Builder) Earthquakes(events []domain.EarthquakeEvent, n int) []QuakeItem {
	top := earthquakes.Top(events, n)
	if len(top) == 0 {
		return nil
	}
	now := b.now()
	out := make([]QuakeItem, 0, len(top))
	for _, e := range top {
		out = append(out, QuakeItem{
			ID:        e.ID,
			Magnitude: earthquakes.Magnitude(e.Magnitude),
			Value:     e.Magnitude,
			Region:    earthquakes.Region(e.Place),
			Place:     e.Place,
			Age:       curation.TimeAgo(e.Time, now),
			URL:       e.URL,
			Time:      e.Time,
		})
	}
	return out
}

// FallbackImage picks one of the configured fallback images, or "" when none
// are configured.
func (b *Builder) FallbackImage() string {
	if len(b.fallbackImages) == 0 {
		return ""
	}
	b.mu.Lock()
	i := b.rng.Intn(len(b.fallbackImages))
	b.mu.Unlock()
	return b.fallbackImages[i]
}

func (b *Builder) imageFor(a domain.Article) string {
	if img := strings.TrimSpace(a.Thumbnail); img != "" {
		return img
	}
	if img := strings.TrimSpace(a.EnclosureLink); img != "" {
		return img
	}
	return b.FallbackImage()
}

// LogoURL returns a favicon URL for the article's host, or PlaceholderLogo
// when the link cannot be parsed.
func LogoURL(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || !u.IsAbs() || u.Hostname() == "" {
		return PlaceholderLogo
	}
	q := url.Values{}
	q.Set("domain", u.Hostname())
	q.Set("sz", faviconSize)
	return faviconEndpoint + "?" + q.Encode()
}
