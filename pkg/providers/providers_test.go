package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRegistryYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "providers.yaml")
	content := `
providers:
  - id: bbc-world
    name: BBC World
    type: RSS
    source_url: https://feeds.bbci.co.uk/news/world/rss.xml
    request_delay_ms: 750
    config:
      enrich_metadata: true
      user_agent: curator-test
  - id: reliefweb
    name: ReliefWeb
    type: rss2json
    source_url: https://reliefweb.int/updates/rss.xml
    enabled: false
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write providers file: %v", err)
	}

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}

	if got := len(reg.All()); got != 2 {
		t.Fatalf("expected 2 providers, got %d", got)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "bbc-world" {
		t.Fatalf("unexpected enabled providers: %+v", enabled)
	}

	p, ok := reg.ByID("bbc-world")
	if !ok {
		t.Fatalf("expected provider id bbc-world to be loaded")
	}
	if p.Type != ProviderTypeRSS {
		t.Fatalf("type should be normalized, got %q", p.Type)
	}
	if p.RequestDelay() != 750*time.Millisecond {
		t.Fatalf("unexpected request delay: %v", p.RequestDelay())
	}
	if !ConfigBool(p, ConfigEnrichKey, false) {
		t.Fatalf("expected enrich_metadata to be true")
	}
	if h := Headers(p); h["User-Agent"] != "curator-test" || len(h) != 1 {
		t.Fatalf("unexpected headers: %#v", h)
	}

	other, _ := reg.ByID("reliefweb")
	if other.RequestDelay() != 500*time.Millisecond {
		t.Fatalf("expected default request delay, got %v", other.RequestDelay())
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "providers.json")
	content := `{"providers":[{"id":"npr","name":"NPR","type":"rss","source_url":"https://feeds.npr.org/1004/rss.xml"}]}`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write providers file: %v", err)
	}

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if _, ok := reg.ByID("npr"); !ok {
		t.Fatalf("expected npr provider")
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "providers.yaml")
	content := `
providers:
  - id: duplicate
    name: Provider One
    type: rss
    source_url: https://p1.example
  - id: duplicate
    name: Provider Two
    type: rss
    source_url: https://p2.example
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write providers file: %v", err)
	}

	if _, err := LoadRegistry(file); err == nil {
		t.Fatalf("expected duplicate provider error, got nil")
	}
}

func TestLoadRegistryValidation(t *testing.T) {
	cases := map[string][]Provider{
		"empty":        nil,
		"missing id":   {{Name: "x", Type: "rss", SourceURL: "https://x"}},
		"missing type": {{ID: "x", Name: "x", SourceURL: "https://x"}},
		"missing url":  {{ID: "x", Name: "x", Type: "rss"}},
	}
	for name, list := range cases {
		if _, err := NewRegistry(list); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}

	if _, err := LoadRegistry(" "); err == nil {
		t.Errorf("expected error for empty path")
	}
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestConfigBool(t *testing.T) {
	p := Provider{Config: map[string]any{"a": "yes", "b": "off", "c": 3}}
	if !ConfigBool(p, "a", false) {
		t.Errorf("string yes should be true")
	}
	if !ConfigBool(p, "b", true) {
		t.Errorf("unrecognized string should return fallback")
	}
	if ConfigBool(p, "c", false) {
		t.Errorf("non-bool value should return fallback")
	}
	if ConfigBool(Provider{}, "a", false) {
		t.Errorf("nil config should return fallback")
	}
}
