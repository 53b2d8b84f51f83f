package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samvad-hq/samvad-news-curator/internal/curation"
	"github.com/samvad-hq/samvad-news-curator/internal/domain"
	"github.com/samvad-hq/samvad-news-curator/internal/logger"
	"github.com/samvad-hq/samvad-news-curator/pkg/providers"
)

const (
	defaultTimeout     = 20 * time.Second
	defaultConcurrency = 8
)

// Options tunes a collection pass.
type Options struct {
	// Timeout bounds each source task, enrichment included.
	Timeout     time.Duration
	Concurrency int
}

// Collection is the fan-in result of one pass: one batch per provider, in
// provider order, plus the earthquake feed outcome.
type Collection struct {
	Batches       []curation.SourceBatch
	Earthquakes   []domain.EarthquakeEvent
	EarthquakeErr error
}

// Service coordinates crawling across multiple providers.
type Service struct {
	registry providers.FetcherRegistry
	scraper  ArticleScraper
	quakes   QuakeFetcher
	log      logger.Logger
	opts     Options
}

// NewService wires a crawler with the provider fetcher registry. scraper and
// quakes are optional.
func NewService(reg providers.FetcherRegistry, scraper ArticleScraper, quakes QuakeFetcher, log logger.Logger, opts Options) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Service{
		registry: reg,
		scraper:  scraper,
		quakes:   quakes,
		log:      log,
		opts:     opts,
	}
}

// Collect retrieves every provider and the earthquake feed concurrently and
// waits for all of them. A failing source never aborts the others; its error is
// carried on its batch.
func (s *Service) Collect(ctx context.Context, cfgs []providers.Provider) (Collection, error) {
	if s == nil || s.registry == nil {
		return Collection{}, fmt.Errorf("crawler service is not initialized")
	}

	col := Collection{Batches: make([]curation.SourceBatch, len(cfgs))}

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)

	for i, cfg := range cfgs {
		g.Go(func() error {
			col.Batches[i] = s.collectProvider(ctx, cfg)
			return nil
		})
	}

	if s.quakes != nil {
		g.Go(func() error {
			col.Earthquakes, col.EarthquakeErr = s.collectEarthquakes(ctx)
			return nil
		})
	}

	_ = g.Wait()
	return col, nil
}

func (s *Service) collectProvider(ctx context.Context, cfg providers.Provider) (batch curation.SourceBatch) {
	batch.SourceID = cfg.ID

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			batch.Articles = nil
			batch.Err = fmt.Errorf("provider %s panicked: %v", cfg.ID, r)
		}
		if batch.Err != nil {
			s.log.ErrorObj("provider crawl failed", "provider_error", map[string]any{
				"provider_id": cfg.ID,
				"error":       batch.Err.Error(),
			})
		}
	}()

	articles, err := s.runProvider(ctx, cfg)
	if err != nil {
		batch.Err = err
		return batch
	}
	batch.Articles = articles

	s.log.InfoObj("provider crawl completed", "provider_result", map[string]any{
		"provider_id":        cfg.ID,
		"articles_collected": len(articles),
	})
	return batch
}

func (s *Service) runProvider(ctx context.Context, cfg providers.Provider) ([]domain.Article, error) {
	fetcher, err := s.registry.FetcherFor(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve fetcher for provider %s: %w", cfg.ID, err)
	}

	articles, err := fetcher.Fetch(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("fetch provider %s: %w", cfg.ID, err)
	}

	if s.scraper != nil && providers.ConfigBool(cfg, providers.ConfigEnrichKey, false) {
		articles = s.scraper.Enrich(ctx, cfg, articles)
	}
	return articles, nil
}

func (s *Service) collectEarthquakes(ctx context.Context) (events []domain.EarthquakeEvent, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			events = nil
			err = fmt.Errorf("earthquake feed panicked: %v", r)
		}
		if err != nil {
			s.log.WarnObj("earthquake feed unavailable", "earthquake_error", map[string]any{
				"error":     err.Error(),
				"timed_out": errors.Is(err, context.DeadlineExceeded),
			})
		}
	}()

	return s.quakes.Fetch(ctx)
}
