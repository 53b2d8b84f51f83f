package providers

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/samvad-hq/samvad-news-curator/internal/domain"
)

// rssFetcher implements Fetcher for plain RSS/Atom/JSON feeds parsed with gofeed.
type rssFetcher struct {
	client HTTPClient
}

func NewRSSFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &rssFetcher{client: client}
}

func (f *rssFetcher) ID() string {
	return ProviderTypeRSS
}

func (f *rssFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.Article, error) {
	if strings.TrimSpace(cfg.SourceURL) == "" {
		return nil, fmt.Errorf("provider %q source_url is empty", cfg.ID)
	}

	raw, err := fetchBody(ctx, f.client, cfg.SourceURL, cfg.ID, "feed", Headers(cfg))
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s feed: %w", cfg.ID, err)
	}

	return buildArticlesFromFeed(cfg.ID, feed), nil
}

func buildArticlesFromFeed(providerID string, feed *gofeed.Feed) []domain.Article {
	if feed == nil {
		return nil
	}

	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		link := strings.TrimSpace(item.Link)

		articles = append(articles, domain.Article{
			ID:            articleID(providerID, link, item.GUID, title),
			ProviderID:    providerID,
			Title:         title,
			Description:   strings.TrimSpace(item.Description),
			Link:          link,
			PubDate:       itemTime(item),
			Thumbnail:     extractImageURL(item),
			EnclosureLink: firstEnclosure(item),
			Keywords:      item.Categories,
		})
	}
	return articles
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return parsePublicationDate(item.Published)
}

// extractImageURL picks the best image in order: item image, media:thumbnail,
// media:content with medium=image, then an image/* enclosure.
func extractImageURL(item *gofeed.Item) string {
	if item.Image != nil && isImageURL(item.Image.URL) {
		return item.Image.URL
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, thumb := range media["thumbnail"] {
			if u := thumb.Attrs["url"]; isImageURL(u) {
				return u
			}
		}
		for _, content := range media["content"] {
			if content.Attrs["medium"] != "image" {
				continue
			}
			if u := content.Attrs["url"]; isImageURL(u) {
				return u
			}
		}
	}

	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && isImageURL(enc.URL) {
			return enc.URL
		}
	}
	return ""
}

func firstEnclosure(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc != nil && isHTTPURL(enc.URL) {
			return strings.TrimSpace(enc.URL)
		}
	}
	return ""
}

func isImageURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
