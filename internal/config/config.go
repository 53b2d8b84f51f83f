package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultEarthquakeFeed = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson"

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	ProvidersFile  string `mapstructure:"providers_file"`
	PublishersFile string `mapstructure:"publishers_file"`
	CurationFile   string `mapstructure:"curation_file"`

	CurateIntervalSeconds int64         `mapstructure:"curate_interval"`
	CurateInterval        time.Duration `mapstructure:"-"`

	FetchTimeoutSeconds int64         `mapstructure:"fetch_timeout_seconds"`
	FetchTimeout        time.Duration `mapstructure:"-"`
	FetchConcurrency    int           `mapstructure:"fetch_concurrency"`
	HTTPTimeoutSeconds  int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout         time.Duration `mapstructure:"-"`
	HostRateIntervalMs  int64         `mapstructure:"host_rate_interval_ms"`
	HostRateInterval    time.Duration `mapstructure:"-"`

	EarthquakeFeedURL string `mapstructure:"earthquake_feed_url"`
	EarthquakeTopN    int    `mapstructure:"earthquake_top_n"`

	// FeedOutputFile receives a JSON snapshot of each curated feed; empty disables it.
	FeedOutputFile string `mapstructure:"feed_output_file"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "samvad-news-curator")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("providers_file", "./configs/providers.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("curation_file", "./configs/curation.yaml")
	v.SetDefault("curate_interval", 0) // seconds; 0 runs once
	v.SetDefault("fetch_timeout_seconds", 20)
	v.SetDefault("fetch_concurrency", 8)
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("host_rate_interval_ms", 0)
	v.SetDefault("earthquake_feed_url", defaultEarthquakeFeed)
	v.SetDefault("earthquake_top_n", 5)
	v.SetDefault("feed_output_file", "")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/deliveries.db")
	v.SetDefault("storage_ttl_seconds", int64((5*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CurateIntervalSeconds < 0 {
		return nil, fmt.Errorf("invalid curate_interval (must be zero or positive seconds)")
	}
	cfg.CurateInterval = time.Duration(cfg.CurateIntervalSeconds) * time.Second

	if cfg.FetchTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid fetch_timeout_seconds (must be positive seconds)")
	}
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	if cfg.FetchConcurrency <= 0 {
		return nil, fmt.Errorf("invalid fetch_concurrency (must be positive)")
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.HostRateIntervalMs < 0 {
		return nil, fmt.Errorf("invalid host_rate_interval_ms (must be zero or positive)")
	}
	cfg.HostRateInterval = time.Duration(cfg.HostRateIntervalMs) * time.Millisecond

	if cfg.EarthquakeTopN < 0 {
		return nil, fmt.Errorf("invalid earthquake_top_n (must be zero or positive)")
	}

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
