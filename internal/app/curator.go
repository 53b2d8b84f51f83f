package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/samvad-news-curator/internal/config"
	"github.com/samvad-hq/samvad-news-curator/internal/crawler"
	"github.com/samvad-hq/samvad-news-curator/internal/curation"
	"github.com/samvad-hq/samvad-news-curator/internal/delivery"
	"github.com/samvad-hq/samvad-news-curator/internal/feed"
	"github.com/samvad-hq/samvad-news-curator/internal/logger"
	"github.com/samvad-hq/samvad-news-curator/internal/storage"
	"github.com/samvad-hq/samvad-news-curator/pkg/earthquakes"
	"github.com/samvad-hq/samvad-news-curator/pkg/httpclient"
	"github.com/samvad-hq/samvad-news-curator/pkg/providers"
	"github.com/samvad-hq/samvad-news-curator/pkg/publishers"
)

// Collector gathers one batch per provider plus the earthquake feed.
type Collector interface {
	Collect(ctx context.Context, cfgs []providers.Provider) (crawler.Collection, error)
}

// Deliverer hands a curated run to downstream sinks.
type Deliverer interface {
	Deliver(ctx context.Context, run delivery.Run) (delivery.Report, error)
}

// Result is the outcome of one curation run.
type Result struct {
	RunID       string             `json:"run_id"`
	CuratedAt   time.Time          `json:"curated_at"`
	Articles    []feed.ArticleItem `json:"articles"`
	Earthquakes []feed.QuakeItem   `json:"earthquakes"`
}

// Curator represents the news curation runtime. It runs the collect, curate,
// render and deliver cycle once or on an interval.
type Curator struct {
	providers []providers.Provider
	collector Collector
	curation  curation.Config
	builder   *feed.Builder
	deliverer Deliverer
	snapshot  string
	interval  time.Duration
	quakeTopN int
	now       func() time.Time
	newRunID  func() string
	log       logger.Logger
	closers   []func() error
}

// NewCurator builds a curator runtime from config files.
func NewCurator(ctx context.Context, cfg *config.Config, log logger.Logger) (*Curator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	providerReg, err := providers.LoadRegistry(cfg.ProvidersFile)
	if err != nil {
		return nil, fmt.Errorf("load providers registry: %w", err)
	}
	enabledProviders := providerReg.Enabled()
	providerIDs := make([]string, 0, len(enabledProviders))
	for _, p := range enabledProviders {
		providerIDs = append(providerIDs, p.ID)
	}
	log.InfoObj("providers registry loaded", "providers_meta", map[string]any{
		"count": len(providerIDs),
		"ids":   providerIDs,
	})

	curationCfg, err := config.LoadCuration(cfg.CurationFile)
	if err != nil {
		return nil, fmt.Errorf("load curation config: %w", err)
	}
	log.InfoObj("curation config loaded", "curation_meta", map[string]any{
		"keywords":        len(curationCfg.Keywords),
		"blocked":         len(curationCfg.BlockedKeywords),
		"throttles":       curationCfg.Throttles,
		"min_spacing":     curationCfg.MinSpacing,
		"overflow_policy": curationCfg.OverflowPolicy,
	})

	client := httpclient.NewRestyClient(cfg.HTTPTimeout,
		httpclient.WithHostLimiter(httpclient.NewHostLimiter(cfg.HostRateInterval)))

	var quakes crawler.QuakeFetcher
	if cfg.EarthquakeTopN > 0 {
		quakes = earthquakes.NewClient(client, cfg.EarthquakeFeedURL)
	}

	collector := crawler.NewService(
		providers.DefaultFetcherRegistry(client),
		crawler.NewScraper(client, log),
		quakes,
		log,
		crawler.Options{Timeout: cfg.FetchTimeout, Concurrency: cfg.FetchConcurrency},
	)

	c := &Curator{
		providers: enabledProviders,
		collector: collector,
		curation:  curationCfg,
		builder:   feed.NewBuilder(curationCfg.FallbackImages, nil, nil),
		snapshot:  cfg.FeedOutputFile,
		interval:  cfg.CurateInterval,
		quakeTopN: cfg.EarthquakeTopN,
		now:       time.Now,
		newRunID:  uuid.NewString,
		log:       log,
	}

	if err := c.initDelivery(ctx, cfg); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// initDelivery wires publishers and the delivery ledger. Without a publishers
// file or enabled publishers, curated runs are not delivered anywhere.
func (c *Curator) initDelivery(ctx context.Context, cfg *config.Config) error {
	if cfg.PublishersFile == "" {
		c.log.WarnObj("no publishers file configured; delivery disabled", "publishers_file", cfg.PublishersFile)
		return nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		c.log.WarnObj("no publishers enabled; delivery disabled", "publishers_file", cfg.PublishersFile)
		return nil
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, c.log)
	if err != nil {
		return fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	c.closers = append(c.closers, fanout.Close)

	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	c.log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      fanout.Size(),
		"publishers": publisherSummaries,
	})

	ledger, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		TTL:             cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	c.closers = append(c.closers, ledger.Close)
	c.log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"ttl_seconds":              int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	c.deliverer = delivery.NewDispatcher(fanout, ledger, c.log)
	return nil
}

// Run executes one curation when no interval is configured, otherwise it
// curates immediately and then on every tick until the context is cancelled.
func (c *Curator) Run(ctx context.Context) error {
	if c == nil || c.collector == nil {
		return fmt.Errorf("curator is not initialized")
	}

	if c.interval <= 0 {
		_, err := c.RunOnce(ctx)
		if errors.Is(err, curation.ErrNoContent) {
			return nil
		}
		return err
	}

	c.log.InfoObj("curator loop starting", "curator_state", map[string]any{
		"providers_count": len(c.providers),
		"curate_interval": c.interval.String(),
	})

	if _, err := c.RunOnce(ctx); err != nil && !errors.Is(err, curation.ErrNoContent) {
		c.log.ErrorObj("initial curation failed", "error", err.Error())
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.InfoObj("curator loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if _, err := c.RunOnce(ctx); err != nil && !errors.Is(err, curation.ErrNoContent) {
				c.log.ErrorObj("scheduled curation failed", "error", err.Error())
			}
		}
	}
}

// RunOnce collects every source, curates the articles and delivers the
// result. curation.ErrNoContent is returned when nothing survived.
func (c *Curator) RunOnce(ctx context.Context) (Result, error) {
	start := c.now()
	runID := c.newRunID()
	c.log.InfoObj("curation started", "curation_run", map[string]any{
		"run_id":          runID,
		"providers_count": len(c.providers),
		"started_at":      start.UTC(),
	})

	col, err := c.collector.Collect(ctx, c.providers)
	if err != nil {
		return Result{}, fmt.Errorf("collect sources: %w", err)
	}

	articles, err := curation.Curate(col.Batches, c.curation, c.log)
	switch {
	case errors.Is(err, curation.ErrNoContent):
		c.log.WarnObj("curation produced no articles", "curation_run", map[string]any{
			"run_id":  runID,
			"sources": len(col.Batches),
		})
		return Result{}, err
	case err != nil:
		c.log.ErrorObj("failed to load news", "curation_error", map[string]any{
			"run_id": runID,
			"error":  err.Error(),
		})
		return Result{}, err
	}

	res := Result{
		RunID:       runID,
		CuratedAt:   c.now(),
		Articles:    c.builder.Articles(articles),
		Earthquakes: c.builder.Earthquakes(col.Earthquakes, c.quakeTopN),
	}

	if c.snapshot != "" {
		if err := writeSnapshot(c.snapshot, res); err != nil {
			c.log.ErrorObj("feed snapshot write failed", "snapshot_error", map[string]any{
				"path":  c.snapshot,
				"error": err.Error(),
			})
		}
	}

	if c.deliverer != nil {
		report, err := c.deliverer.Deliver(ctx, delivery.Run{
			ID:          res.RunID,
			CuratedAt:   res.CuratedAt,
			Articles:    res.Articles,
			Earthquakes: res.Earthquakes,
		})
		if err != nil {
			c.log.ErrorObj("delivery incomplete", "delivery_error", map[string]any{
				"run_id": runID,
				"failed": report.Failed,
				"error":  err.Error(),
			})
		}
	}

	c.log.InfoObj("curation completed", "curation_run", map[string]any{
		"run_id":      runID,
		"articles":    len(res.Articles),
		"earthquakes": len(res.Earthquakes),
		"elapsed_ms":  c.now().Sub(start).Milliseconds(),
	})
	return res, nil
}

// Close releases publishers and the delivery ledger.
func (c *Curator) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
