package domain

import "time"

// Domain contains core models shared across packages.

// Article is a single feed entry as delivered by a provider. Curation treats it as
// read-only: records are reordered and filtered, never rewritten.
type Article struct {
	ID            string    `json:"id"`
	ProviderID    string    `json:"provider_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Link          string    `json:"link"`
	PubDate       time.Time `json:"pub_date"`
	Thumbnail     string    `json:"thumbnail,omitempty"`
	EnclosureLink string    `json:"enclosure_link,omitempty"`
	Keywords      []string  `json:"keywords,omitempty"`
}

// EarthquakeEvent is one entry of the geospatial event feed. It never enters the
// article pipeline.
type EarthquakeEvent struct {
	ID        string    `json:"id"`
	Magnitude float64   `json:"magnitude"`
	Place     string    `json:"place"`
	Time      time.Time `json:"time"`
	URL       string    `json:"url"`
}
