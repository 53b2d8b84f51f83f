package providers

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-curator/pkg/httpclient"
)

const (
	ProviderTypeRSS        = "rss"
	ProviderTypeRSS2JSON   = "rss2json"
	ProviderTypeGoogleNews = "google_news_sitemap"
)

// fetcherRegistry resolves a provider to its fetcher. It is read-only once built.
type fetcherRegistry struct {
	byID   map[string]Fetcher
	byType map[string]Fetcher
}

// NewFetcherRegistry builds a registry of provider-specific fetchers keyed by their ID.
func NewFetcherRegistry(fetchers ...Fetcher) FetcherRegistry {
	return NewTypeFetcherRegistry(nil, fetchers...)
}

// NewTypeFetcherRegistry builds a registry from generic fetchers keyed by provider
// type plus provider-specific fetchers keyed by their ID. Blank keys and nil
// fetchers are ignored.
func NewTypeFetcherRegistry(typeFetchers map[string]Fetcher, fetchers ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{
		byID:   make(map[string]Fetcher, len(fetchers)),
		byType: make(map[string]Fetcher, len(typeFetchers)),
	}
	for _, f := range fetchers {
		if f == nil {
			continue
		}
		if key := registryKey(f.ID()); key != "" {
			reg.byID[key] = f
		}
	}
	for typ, f := range typeFetchers {
		if key := registryKey(typ); key != "" && f != nil {
			reg.byType[key] = f
		}
	}
	return reg
}

func registryKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FetcherFor prefers a fetcher registered for the provider's ID and falls back
// to the one registered for its type.
func (r *fetcherRegistry) FetcherFor(cfg Provider) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	id := registryKey(cfg.ID)
	if id == "" {
		return nil, fmt.Errorf("provider id is empty")
	}

	if f, ok := r.byID[id]; ok {
		return f, nil
	}
	if f, ok := r.byType[registryKey(cfg.Type)]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no fetcher registered for provider %q (type %q)", cfg.ID, cfg.Type)
}

// DefaultHTTPClient returns the resty client used when none is injected.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(15 * time.Second) }

// DefaultFetcherRegistry serves every built-in provider type over client.
func DefaultFetcherRegistry(client HTTPClient) FetcherRegistry {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return NewTypeFetcherRegistry(map[string]Fetcher{
		ProviderTypeRSS:        NewRSSFetcher(client),
		ProviderTypeRSS2JSON:   NewRSS2JSONFetcher(client),
		ProviderTypeGoogleNews: NewGoogleNewsFetcher(client),
	})
}
