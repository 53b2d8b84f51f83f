package providers

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-news-curator/internal/domain"
)

const maxSitemapDepth = 3

// googleNewsFetcher implements Fetcher for Google News sitemap providers.
type googleNewsFetcher struct {
	client HTTPClient
}

func NewGoogleNewsFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &googleNewsFetcher{client: client}
}

func (f *googleNewsFetcher) ID() string {
	return ProviderTypeGoogleNews
}

func (f *googleNewsFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.Article, error) {
	if !strings.EqualFold(cfg.Type, ProviderTypeGoogleNews) {
		return nil, fmt.Errorf("google news fetcher received incompatible provider type %q", cfg.Type)
	}
	if strings.TrimSpace(cfg.SourceURL) == "" {
		return nil, fmt.Errorf("provider %q source_url is empty", cfg.ID)
	}

	urls, err := f.fetchGoogleNewsURLs(ctx, cfg, cfg.SourceURL, nil, Headers(cfg))
	if err != nil {
		return nil, err
	}

	articles := buildArticlesFromSitemap(cfg.ID, urls)
	if len(articles) == 0 {
		return nil, fmt.Errorf("%s sitemap returned no records", cfg.ID)
	}
	return articles, nil
}

// fetchGoogleNewsURLs follows sitemap indexes up to maxSitemapDepth and
// collects the url entries of every leaf sitemap.
func (f *googleNewsFetcher) fetchGoogleNewsURLs(ctx context.Context, cfg Provider, url string, seen map[string]struct{}, headers map[string]string) ([]googleNewsURL, error) {
	if seen == nil {
		seen = make(map[string]struct{})
	}
	return f.walkSitemap(ctx, cfg, url, seen, headers, 0)
}

func (f *googleNewsFetcher) walkSitemap(ctx context.Context, cfg Provider, url string, seen map[string]struct{}, headers map[string]string, depth int) ([]googleNewsURL, error) {
	if _, ok := seen[url]; ok || depth > maxSitemapDepth {
		return nil, nil
	}
	seen[url] = struct{}{}

	raw, err := fetchSitemap(ctx, f.client, url, cfg.ID, headers)
	if err != nil {
		return nil, err
	}

	if !isSitemapIndex(raw) {
		urls, err := parseGoogleNewsSitemap(raw)
		if err != nil {
			return nil, fmt.Errorf("decode google news sitemap: %w", err)
		}
		return urls, nil
	}

	children, err := parseSitemapIndex(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s sitemap index: %w", cfg.ID, err)
	}
	var out []googleNewsURL
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		urls, err := f.walkSitemap(ctx, cfg, child, seen, headers, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, urls...)
	}
	return out, nil
}

func fetchSitemap(ctx context.Context, client HTTPClient, url, providerID string, headers map[string]string) ([]byte, error) {
	return fetchBody(ctx, client, url, providerID, "sitemap", headers)
}

type googleNewsSitemap struct {
	URLs []googleNewsURL `xml:"url"`
}

type googleNewsURL struct {
	Loc  string `xml:"loc"`
	News struct {
		PublicationDate string `xml:"publication_date"`
		Keywords        string `xml:"keywords"`
		Title           string `xml:"title"`
	} `xml:"news"`
	Image struct {
		Loc string `xml:"loc"`
	} `xml:"image"`
}

type sitemapIndex struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

func isSitemapIndex(data []byte) bool {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return false
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local == "sitemapindex"
		}
	}
}

func parseSitemapIndex(data []byte) ([]string, error) {
	var idx sitemapIndex
	if err := xml.Unmarshal(data, &idx); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(idx.Sitemaps))
	for _, s := range idx.Sitemaps {
		if loc := strings.TrimSpace(s.Loc); loc != "" {
			out = append(out, loc)
		}
	}
	return out, nil
}

func parseGoogleNewsSitemap(data []byte) ([]googleNewsURL, error) {
	var sitemap googleNewsSitemap
	if err := xml.Unmarshal(data, &sitemap); err != nil {
		return nil, err
	}
	return sitemap.URLs, nil
}

func buildArticlesFromSitemap(providerID string, urls []googleNewsURL) []domain.Article {
	articles := make([]domain.Article, 0, len(urls))
	for _, entry := range urls {
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" {
			continue
		}

		articles = append(articles, domain.Article{
			ID:         hashURL(loc),
			ProviderID: providerID,
			Title:      strings.TrimSpace(entry.News.Title),
			Link:       loc,
			PubDate:    parsePublicationDate(entry.News.PublicationDate),
			Thumbnail:  strings.TrimSpace(entry.Image.Loc),
			Keywords:   parseKeywords(entry.News.Keywords),
		})
	}
	return articles
}
