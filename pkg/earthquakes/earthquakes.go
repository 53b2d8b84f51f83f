package earthquakes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-curator/internal/domain"
	"github.com/samvad-hq/samvad-news-curator/pkg/httpclient"
)

// Package earthquakes reads the USGS GeoJSON summary feed.

// DefaultFeedURL lists every event of the past day.
const DefaultFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson"

// UnknownRegion labels events whose place carries no usable region.
const UnknownRegion = "Unknown Location"

// Client fetches earthquake events from a GeoJSON summary endpoint.
type Client struct {
	http    httpclient.Client
	feedURL string
}

// NewClient returns a Client for feedURL (DefaultFeedURL when empty).
func NewClient(client httpclient.Client, feedURL string) *Client {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second)
	}
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return &Client{http: client, feedURL: feedURL}
}

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string `json:"id"`
	Properties struct {
		Mag   *float64 `json:"mag"`
		Place string   `json:"place"`
		Time  int64    `json:"time"`
		URL   string   `json:"url"`
	} `json:"properties"`
}

// Fetch retrieves the feed and converts its features. Features without a
// magnitude are skipped.
func (c *Client) Fetch(ctx context.Context) ([]domain.EarthquakeEvent, error) {
	if c == nil || c.http == nil {
		return nil, errors.New("earthquake client is nil")
	}

	resp, err := c.http.Get(ctx, c.feedURL, map[string]string{"Accept": "application/geo+json, application/json"})
	if err != nil {
		return nil, fmt.Errorf("fetch earthquake feed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("earthquake feed returned status %d", resp.StatusCode())
	}

	return parseFeed(resp.Body())
}

func parseFeed(body []byte) ([]domain.EarthquakeEvent, error) {
	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, fmt.Errorf("decode earthquake feed: %w", err)
	}

	events := make([]domain.EarthquakeEvent, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Properties.Mag == nil {
			continue
		}
		events = append(events, domain.EarthquakeEvent{
			ID:        f.ID,
			Magnitude: *f.Properties.Mag,
			Place:     strings.TrimSpace(f.Properties.Place),
			Time:      time.UnixMilli(f.Properties.Time).UTC(),
			URL:       strings.TrimSpace(f.Properties.URL),
		})
	}
	return events, nil
}

// Top returns up to n events ordered by magnitude, strongest first. Equal
// magnitudes keep their feed order. The input is not modified.
func Top(events []domain.EarthquakeEvent, n int) []domain.EarthquakeEvent {
	if n <= 0 || len(events) == 0 {
		return nil
	}
	out := make([]domain.EarthquakeEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Magnitude > out[j].Magnitude })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Region simplifies a place such as "10 km SW of Tomatlan, Mexico" to its last
// comma-separated part.
func Region(place string) string {
	parts := strings.Split(place, ",")
	if last := strings.TrimSpace(parts[len(parts)-1]); last != "" {
		return last
	}
	return UnknownRegion
}

// Magnitude formats a magnitude for display, e.g. "M4.5".
func Magnitude(mag float64) string {
	return fmt.Sprintf("M%.1f", mag)
}
