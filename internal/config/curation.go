package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samvad-hq/samvad-news-curator/internal/curation"
	"gopkg.in/yaml.v3"
)

// LoadCuration reads the curation rules from a YAML or JSON file. An empty path
// yields the built-in defaults. Lists omitted from the file keep their defaults.
func LoadCuration(path string) (curation.Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return finishCuration(curation.DefaultConfig())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return curation.Config{}, fmt.Errorf("read curation file: %w", err)
	}

	cfg, err := parseCuration(raw, filepath.Ext(path))
	if err != nil {
		return curation.Config{}, err
	}
	return finishCuration(cfg)
}

func parseCuration(data []byte, ext string) (curation.Config, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		// decode over defaults so absent keys fall back
		cfg := curation.DefaultConfig()
		if err := d.fn(data, &cfg); err != nil {
			lastErr = fmt.Errorf("decode %s curation: %w", d.name, err)
			continue
		}
		return cfg, nil
	}

	if lastErr != nil {
		return curation.Config{}, lastErr
	}
	return curation.Config{}, errors.New("curation file format not recognized (expected YAML or JSON)")
}

func finishCuration(cfg curation.Config) (curation.Config, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return curation.Config{}, fmt.Errorf("invalid curation config: %w", err)
	}
	return cfg, nil
}
