package curation

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-curator/internal/domain"
)

// recordingLogger keeps warn messages for assertions.
type recordingLogger struct {
	noopLogger
	mu    sync.Mutex
	warns []string
}

func (r *recordingLogger) WarnObj(msg, _ string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, msg)
}

func TestCurateEndToEnd(t *testing.T) {
	cfg := Config{
		Keywords:   []string{"war", "crash", "crisis", "outbreak", "explosion"},
		Throttles:  []ThrottleRule{{Source: "reliefweb.int", Max: 1}},
		MinSpacing: DefaultSpacing,
	}.Normalize()

	batches := []SourceBatch{
		{SourceID: "bbc", Articles: []domain.Article{
			articleAt("bbc1", "https://www.bbc.co.uk/1", 1*time.Hour),
			articleAt("bbc2", "https://www.bbc.co.uk/2", 5*time.Hour),
		}},
		{SourceID: "reliefweb", Articles: []domain.Article{
			articleAt("rw1", "https://reliefweb.int/1", 2*time.Hour),
			articleAt("rw2", "https://reliefweb.int/2", 3*time.Hour),
		}},
		{SourceID: "empty"},
		{SourceID: "npr", Articles: []domain.Article{
			articleAt("npr1", "https://www.npr.org/1", 4*time.Hour),
		}},
		{SourceID: "down", Err: errors.New("connection refused")},
	}
	titles := map[string]string{
		"bbc1": "War in the region", "bbc2": "Bus crash", "rw1": "Food crisis",
		"rw2": "Cholera outbreak", "npr1": "Factory explosion",
	}
	for i := range batches {
		for j := range batches[i].Articles {
			batches[i].Articles[j].Title = titles[batches[i].Articles[j].ID]
		}
	}

	log := &recordingLogger{}
	got, err := Curate(batches, cfg, log)
	if err != nil {
		t.Fatalf("Curate: %v", err)
	}

	assertIDs(t, got, "bbc1", "rw1", "npr1", "bbc2")
	if len(log.warns) != 1 || log.warns[0] != "source retrieval failed" {
		t.Fatalf("expected one retrieval warning, got %v", log.warns)
	}
}

func TestCurateReportsNoContent(t *testing.T) {
	cfg := Config{Keywords: []string{"war"}, BlockedKeywords: []string{"netflix series"}}.Normalize()
	batches := []SourceBatch{
		{SourceID: "a", Articles: []domain.Article{{Title: "War drama is the new Netflix Series"}}},
		{SourceID: "b", Err: errors.New("timeout")},
	}

	got, err := Curate(batches, cfg, nil)
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil articles, got %v", got)
	}
}

func TestCurateWithoutSources(t *testing.T) {
	if _, err := Curate(nil, DefaultConfig().Normalize(), nil); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestCurateAppliesThrottlesInOrder(t *testing.T) {
	cfg := Config{
		Keywords: []string{"war"},
		Throttles: []ThrottleRule{
			{Source: "a.com", Max: 1},
			{Source: "b.com", Max: 0},
		},
		MinSpacing: 1,
	}.Normalize()

	batches := []SourceBatch{{SourceID: "mixed", Articles: []domain.Article{
		{ID: "a1", Title: "war", Link: "https://a.com/1", PubDate: baseTime},
		{ID: "a2", Title: "war", Link: "https://a.com/2", PubDate: baseTime.Add(-time.Minute)},
		{ID: "b1", Title: "war", Link: "https://b.com/1", PubDate: baseTime.Add(-2 * time.Minute)},
		{ID: "c1", Title: "war", Link: "https://c.com/1", PubDate: baseTime.Add(-3 * time.Minute)},
	}}}

	got, err := Curate(batches, cfg, nil)
	if err != nil {
		t.Fatalf("Curate: %v", err)
	}
	assertIDs(t, got, "a1", "c1")
}

func TestCurateDoesNotMutateInput(t *testing.T) {
	cfg := Config{Keywords: []string{"war"}}.Normalize()
	arts := []domain.Article{
		articleAt("old", "https://a.com/1", 2*time.Hour),
		articleAt("new", "https://b.com/1", time.Hour),
	}
	arts[0].Title, arts[1].Title = "war", "war"

	if _, err := Curate([]SourceBatch{{SourceID: "s", Articles: arts}}, cfg, nil); err != nil {
		t.Fatalf("Curate: %v", err)
	}
	assertIDs(t, arts, "old", "new")
}

// panickyLogger fails while the pipeline reports its stats.
type panickyLogger struct{ noopLogger }

func (panickyLogger) DebugObj(string, string, interface{}) { panic("boom") }

func TestCurateRecoversPanic(t *testing.T) {
	cfg := Config{Keywords: []string{"war"}}.Normalize()
	batches := []SourceBatch{{SourceID: "a", Articles: []domain.Article{
		articleAt("a1", "https://a.com/1", time.Hour),
	}}}
	batches[0].Articles[0].Title = "war"

	got, err := Curate(batches, cfg, panickyLogger{})
	if !errors.Is(err, ErrPipelineFailed) {
		t.Fatalf("expected ErrPipelineFailed, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil articles after a failure, got %v", got)
	}
}

func TestCurateZeroSpacingKeepsRecencyOrder(t *testing.T) {
	cfg := Config{Keywords: []string{"war"}, MinSpacing: 0}.Normalize()
	arts := []domain.Article{
		articleAt("a1", "https://a.com/1", time.Hour),
		articleAt("a2", "https://a.com/2", 2*time.Hour),
		articleAt("b1", "https://b.com/1", 3*time.Hour),
	}
	for i := range arts {
		arts[i].Title = "war"
	}

	got, err := Curate([]SourceBatch{{SourceID: "s", Articles: arts}}, cfg, nil)
	if err != nil {
		t.Fatalf("Curate: %v", err)
	}
	assertIDs(t, got, "a1", "a2", "b1")
}
