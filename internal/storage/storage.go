package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage keeps the delivery ledger: which items were already
// published, so later runs do not publish them again.

// Ledger records delivered item keys for a bounded retention window.
type Ledger interface {
	Close() error
	Delivered(key string) (bool, error)
	MarkDelivered(key string) error
}

// Options controls retention characteristics for concrete ledger implementations.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

const (
	TypeBBolt = "bbolt"
	TypeNone  = "none"

	defaultTTL             = 5 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured ledger backend.
func NewStore(typ, path string, opts Options) (Ledger, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopLedger{}, nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

type noopLedger struct{}

func (noopLedger) Close() error                   { return nil }
func (noopLedger) Delivered(string) (bool, error) { return false, nil }
func (noopLedger) MarkDelivered(string) error     { return nil }
