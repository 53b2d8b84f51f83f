package curation

import (
	"errors"
	"fmt"
	"strings"
)

// OverflowPolicy decides what the interleaver does when no pooled article can be
// placed without violating the spacing.
type OverflowPolicy string

const (
	// OverflowDrop discards the article at the front of the pool.
	OverflowDrop OverflowPolicy = "drop"
	// OverflowDefer places the article at the front of the pool regardless of spacing.
	OverflowDefer OverflowPolicy = "defer"

	DefaultSpacing = 3
)

// Configuration validation errors.
var (
	ErrNoKeywords      = errors.New("at least one keyword is required")
	ErrInvalidSpacing  = errors.New("min_spacing must be non-negative")
	ErrInvalidThrottle = errors.New("throttle rules require a source and a non-negative max")
	ErrInvalidOverflow = errors.New("overflow_policy must be 'drop' or 'defer'")
)

// ThrottleRule caps how many articles whose domain contains Source survive curation.
type ThrottleRule struct {
	Source string `json:"source" yaml:"source"`
	Max    int    `json:"max" yaml:"max"`
}

// Config is the process-wide curation configuration. It is read once at startup and
// passed by value into every run.
type Config struct {
	Keywords        []string       `json:"keywords" yaml:"keywords"`
	BlockedKeywords []string       `json:"blocked_keywords" yaml:"blocked_keywords"`
	Throttles       []ThrottleRule `json:"throttles" yaml:"throttles"`
	MinSpacing      int            `json:"min_spacing" yaml:"min_spacing"`
	OverflowPolicy  OverflowPolicy `json:"overflow_policy" yaml:"overflow_policy"`
	FallbackImages  []string       `json:"fallback_images" yaml:"fallback_images"`
}

// DefaultConfig returns the built-in keyword lists, throttles and fallback images.
func DefaultConfig() Config {
	return Config{
		Keywords: []string{
			"disaster", "tragedy", "crisis", "emergency", "catastrophe", "accident",
			"collision", "crash", "wreck", "derailment", "failure", "collapse",
			"explosion", "bomb", "attack", "massacre", "shooting", "terrorism", "riot",
			"war", "conflict", "death", "injured", "epidemic", "pandemic", "outbreak",
			"disease", "pollution", "danger", "killed in deadly",
		},
		BlockedKeywords: []string{
			"netflix series", "Assessment", "hulu", "disney+", "prime video", "streaming",
			"tv show", "spoilers", "movie review", "tobacco", "celebrity gossip",
			"album release", "video game", "gaming console", "Twisty Ending", "Update #",
			"Years after", "seasonal monitor", "Iraq: ISHM", "Annunciation", "lauded",
			"situation report", "summary report", "canoe trip", "3W Mapping",
			"Locust Bulletin", "Flash Update", "Howard Stern", "Country Brief",
			"Apple's iPhone", "Apple has unveiled",
		},
		Throttles: []ThrottleRule{
			{Source: "reliefweb.int", Max: 2},
		},
		MinSpacing:     DefaultSpacing,
		OverflowPolicy: OverflowDrop,
		FallbackImages: []string{
			"newsfb/F1.jpg",
			"newsfb/F2.jpg",
			"newsfb/F3.jpg",
			"newsfb/F4.jpg",
			"newsfb/F5.jpg",
			"newsfb/F6.jpg",
		},
	}
}

// Normalize lowercases and trims match terms, drops blanks and defaults the
// overflow policy. MinSpacing is kept as given; 0 and 1 both disable spacing.
func (c Config) Normalize() Config {
	c.Keywords = normalizeTerms(c.Keywords)
	c.BlockedKeywords = normalizeTerms(c.BlockedKeywords)

	if len(c.Throttles) > 0 {
		rules := make([]ThrottleRule, 0, len(c.Throttles))
		for _, r := range c.Throttles {
			r.Source = strings.ToLower(strings.TrimSpace(r.Source))
			rules = append(rules, r)
		}
		c.Throttles = rules
	}

	c.OverflowPolicy = OverflowPolicy(strings.ToLower(strings.TrimSpace(string(c.OverflowPolicy))))
	if c.OverflowPolicy == "" {
		c.OverflowPolicy = OverflowDrop
	}

	images := make([]string, 0, len(c.FallbackImages))
	for _, img := range c.FallbackImages {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	c.FallbackImages = images

	return c
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if len(c.Keywords) == 0 {
		return ErrNoKeywords
	}
	if c.MinSpacing < 0 {
		return ErrInvalidSpacing
	}
	for i, r := range c.Throttles {
		if r.Source == "" || r.Max < 0 {
			return fmt.Errorf("throttles[%d]: %w", i, ErrInvalidThrottle)
		}
	}
	switch c.OverflowPolicy {
	case OverflowDrop, OverflowDefer:
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidOverflow, c.OverflowPolicy)
	}
	return nil
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
