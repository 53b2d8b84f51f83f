package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/samvad-hq/samvad-news-curator/internal/domain"
)

const defaultRSS2JSONEndpoint = "https://api.rss2json.com/v1/api.json"

// rss2jsonFetcher reads feeds through the rss2json conversion service.
type rss2jsonFetcher struct {
	client HTTPClient
}

func NewRSS2JSONFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &rss2jsonFetcher{client: client}
}

func (f *rss2jsonFetcher) ID() string {
	return ProviderTypeRSS2JSON
}

type rss2jsonResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Items   []rss2jsonItem `json:"items"`
}

type rss2jsonItem struct {
	Title       string   `json:"title"`
	PubDate     string   `json:"pubDate"`
	Link        string   `json:"link"`
	GUID        string   `json:"guid"`
	Thumbnail   string   `json:"thumbnail"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Enclosure   struct {
		Link string `json:"link"`
		Type string `json:"type"`
	} `json:"enclosure"`
}

func (f *rss2jsonFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.Article, error) {
	if strings.TrimSpace(cfg.SourceURL) == "" {
		return nil, fmt.Errorf("provider %q source_url is empty", cfg.ID)
	}

	raw, err := fetchBody(ctx, f.client, rss2jsonURL(cfg), cfg.ID, "rss2json", Headers(cfg))
	if err != nil {
		return nil, err
	}

	var resp rss2jsonResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode %s rss2json response: %w", cfg.ID, err)
	}
	if !strings.EqualFold(resp.Status, "ok") {
		return nil, fmt.Errorf("%s rss2json status %q: %s", cfg.ID, resp.Status, resp.Message)
	}

	return buildArticlesFromRSS2JSON(cfg.ID, resp.Items), nil
}

func rss2jsonURL(cfg Provider) string {
	endpoint := ConfigString(cfg, ConfigAPIURLKey, defaultRSS2JSONEndpoint)
	q := url.Values{}
	q.Set("rss_url", cfg.SourceURL)
	if key := ConfigString(cfg, ConfigAPIKeyKey, ""); key != "" {
		q.Set("api_key", key)
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + q.Encode()
}

func buildArticlesFromRSS2JSON(providerID string, items []rss2jsonItem) []domain.Article {
	articles := make([]domain.Article, 0, len(items))
	for _, item := range items {
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
			PubDate:       parsePublicationDate(item.PubDate),
			Thumbnail:     strings.TrimSpace(item.Thumbnail),
			EnclosureLink: strings.TrimSpace(item.Enclosure.Link),
			Keywords:      item.Categories,
		})
	}
	return articles
}
