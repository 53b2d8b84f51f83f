package httpclient

import "context"

// Response exposes the parts of a reply that feed parsers need.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client is the GET-only transport shared by feed fetchers, the article page
// scraper and the earthquake feed client.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
