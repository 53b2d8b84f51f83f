package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-news-curator/internal/feed"
	"github.com/samvad-hq/samvad-news-curator/internal/logger"
	"github.com/samvad-hq/samvad-news-curator/pkg/publishers"
)

// Sink publishes one event to every downstream publisher and reports how many
// accepted it.
type Sink interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Ledger remembers which event keys were already delivered.
type Ledger interface {
	Delivered(key string) (bool, error)
	MarkDelivered(key string) error
}

// Run is one curated result ready for delivery.
type Run struct {
	ID          string
	CuratedAt   time.Time
	Articles    []feed.ArticleItem
	Earthquakes []feed.QuakeItem
}

// Report summarizes a delivery pass.
type Report struct {
	Published int
	Skipped   int
	Failed    int
}

// Dispatcher publishes new curated items and records them in the ledger.
type Dispatcher struct {
	sink   Sink
	ledger Ledger
	log    logger.Logger
}

// NewDispatcher wires a dispatcher. A nil ledger disables de-duplication.
func NewDispatcher(sink Sink, ledger Ledger, log logger.Logger) *Dispatcher {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Dispatcher{sink: sink, ledger: ledger, log: log}
}

// Deliver publishes the run's articles in feed order, then its earthquakes.
// Items already in the ledger are skipped. An item is marked delivered once at
// least one publisher accepted it. Errors are joined and returned after every
// item was attempted.
func (d *Dispatcher) Deliver(ctx context.Context, run Run) (Report, error) {
	var report Report
	if d == nil || d.sink == nil {
		return report, nil
	}

	events := make([]publishers.Event, 0, len(run.Articles)+len(run.Earthquakes))
	for i, item := range run.Articles {
		events = append(events, publishers.NewArticleEvent(run.ID, i, item, run.CuratedAt))
	}
	for i, item := range run.Earthquakes {
		events = append(events, publishers.NewEarthquakeEvent(run.ID, i, item, run.CuratedAt))
	}

	var errs []error
	for _, evt := range events {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		key := evt.Key()
		if d.alreadyDelivered(key) {
			report.Skipped++
			continue
		}

		accepted, err := d.sink.Publish(ctx, evt)
		if err != nil {
			errs = append(errs, fmt.Errorf("deliver %s: %w", key, err))
		}
		if accepted == 0 {
			report.Failed++
			continue
		}
		report.Published++

		if d.ledger != nil {
			if err := d.ledger.MarkDelivered(key); err != nil {
				errs = append(errs, fmt.Errorf("mark %s delivered: %w", key, err))
			}
		}
	}

	d.log.InfoObj("delivery finished", "delivery_report", map[string]any{
		"run_id":    run.ID,
		"published": report.Published,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
	})
	return report, errors.Join(errs...)
}

// alreadyDelivered treats ledger lookup failures as "not delivered" so a broken
// ledger causes duplicates rather than silent loss.
func (d *Dispatcher) alreadyDelivered(key string) bool {
	if d.ledger == nil || key == "" {
		return false
	}
	delivered, err := d.ledger.Delivered(key)
	if err != nil {
		d.log.WarnObj("delivery ledger lookup failed", "ledger_error", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	return delivered
}
