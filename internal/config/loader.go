package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("ADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("adscout")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".adscout"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("collector.max_articles_per_run", cfg.Collector.MaxArticlesPerRun)
	v.SetDefault("collector.concurrency", cfg.Collector.Concurrency)
	v.SetDefault("collector.dedup_enabled", cfg.Collector.DedupEnabled)
	v.SetDefault("collector.output_dir", cfg.Collector.OutputDir)
	v.SetDefault("collector.state_dir", cfg.Collector.StateDir)

	v.SetDefault("search.request_delay", cfg.Search.RequestDelay)

	v.SetDefault("relevance.keywords", cfg.Relevance.Keywords)
	v.SetDefault("relevance.title_multiplier", cfg.Relevance.TitleMultiplier)
	v.SetDefault("relevance.normalization", cfg.Relevance.Normalization)
	v.SetDefault("relevance.high_threshold", cfg.Relevance.HighThreshold)
	v.SetDefault("relevance.medium_threshold", cfg.Relevance.MediumThreshold)
	v.SetDefault("relevance.top_limit", cfg.Relevance.TopLimit)

	v.SetDefault("fetcher.timeout", cfg.Fetcher.Timeout)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.user_agents", cfg.Fetcher.UserAgents)

	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.mongo_database", cfg.Storage.MongoDatabase)
	v.SetDefault("storage.mongo_collection", cfg.Storage.MongoCollection)

	v.SetDefault("schedule.cron", cfg.Schedule.Cron)
	v.SetDefault("schedule.metrics_enabled", cfg.Schedule.MetricsEnabled)
	v.SetDefault("schedule.metrics_port", cfg.Schedule.MetricsPort)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
}
