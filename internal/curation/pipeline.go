package curation

import (
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-news-curator/internal/domain"
)

var (
	// ErrNoContent reports a run that completed but kept no articles.
	ErrNoContent = errors.New("no articles survived curation")
	// ErrPipelineFailed reports an unexpected failure while transforming articles.
	ErrPipelineFailed = errors.New("curation pipeline failed")
)

// SourceBatch is the outcome of retrieving one source. A non-nil Err means the
// source contributes nothing to the run.
type SourceBatch struct {
	SourceID string
	Articles []domain.Article
	Err      error
}

// Curate runs classification, throttling, recency sorting and interleaving over the
// articles of every healthy batch. Failed batches are logged and skipped. An empty
// result yields ErrNoContent; a panic during transformation is recovered and
// reported as ErrPipelineFailed.
func Curate(batches []SourceBatch, cfg Config, log Logger) (out []domain.Article, err error) {
	log = ensureLogger(log)

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %v", ErrPipelineFailed, r)
		}
	}()

	articles := gather(batches, log)
	total := len(articles)

	articles = Classify(articles, cfg.Keywords, cfg.BlockedKeywords)
	classified := len(articles)

	for _, rule := range cfg.Throttles {
		articles = Throttle(articles, rule.Source, rule.Max)
	}
	throttled := len(articles)

	articles = SortByRecency(articles)
	articles = Interleave(articles, cfg.MinSpacing, cfg.OverflowPolicy)

	log.DebugObj("curation finished", "curation_stats", map[string]any{
		"sources":     len(batches),
		"collected":   total,
		"classified":  classified,
		"throttled":   throttled,
		"interleaved": len(articles),
	})

	if len(articles) == 0 {
		return nil, ErrNoContent
	}
	return articles, nil
}

func gather(batches []SourceBatch, log Logger) []domain.Article {
	var all []domain.Article
	for _, b := range batches {
		if b.Err != nil {
			log.WarnObj("source retrieval failed", "source_error", map[string]any{
				"source_id": b.SourceID,
				"error":     b.Err.Error(),
			})
			continue
		}
		if len(b.Articles) == 0 {
			log.DebugObj("source returned no articles", "source_id", b.SourceID)
			continue
		}
		all = append(all, b.Articles...)
	}
	return all
}
