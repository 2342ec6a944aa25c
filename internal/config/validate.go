package config

import (
	"fmt"
	"net/url"

	"adscout/internal/types"
)

var validSources = map[string]bool{
	"google": true, "bing": true, "duckduckgo": true,
}

// Validate checks the configuration for invalid values. Any error here
// is fatal: the run aborts before doing any work.
func Validate(cfg *Config) error {
	if cfg.Collector.MaxArticlesPerRun < 1 {
		return types.NewConfigError("collector.max_articles_per_run",
			fmt.Errorf("must be >= 1, got %d", cfg.Collector.MaxArticlesPerRun))
	}
	if cfg.Collector.Concurrency < 1 {
		return types.NewConfigError("collector.concurrency",
			fmt.Errorf("must be >= 1, got %d", cfg.Collector.Concurrency))
	}
	if cfg.Collector.Concurrency > 64 {
		return types.NewConfigError("collector.concurrency",
			fmt.Errorf("must be <= 64, got %d", cfg.Collector.Concurrency))
	}

	if len(cfg.Search.Queries) == 0 {
		return types.NewConfigError("search.queries", fmt.Errorf("at least one query required"))
	}
	for i, q := range cfg.Search.Queries {
		if len(q.Keywords) == 0 {
			return types.NewConfigError(fmt.Sprintf("search.queries[%d].keywords", i),
				fmt.Errorf("must not be empty"))
		}
		if len(q.Sources) == 0 {
			return types.NewConfigError(fmt.Sprintf("search.queries[%d].sources", i),
				types.ErrNoProviders)
		}
		for _, src := range q.Sources {
			if !validSources[src] {
				return types.NewConfigError(fmt.Sprintf("search.queries[%d].sources", i),
					fmt.Errorf("unknown provider %q (valid: google, bing, duckduckgo)", src))
			}
		}
	}

	if len(cfg.Relevance.Keywords) == 0 {
		return types.NewConfigError("relevance.keywords", types.ErrEmptyKeywords)
	}
	for kw, w := range cfg.Relevance.Keywords {
		if w <= 0 {
			return types.NewConfigError("relevance.keywords",
				fmt.Errorf("keyword %q has non-positive weight %g", kw, w))
		}
	}
	if cfg.Relevance.Normalization <= 0 {
		return types.NewConfigError("relevance.normalization", fmt.Errorf("must be > 0"))
	}
	high, medium := cfg.Relevance.HighThreshold, cfg.Relevance.MediumThreshold
	if medium <= 0 || high <= medium || high > 100 {
		return types.NewConfigError("relevance",
			fmt.Errorf("thresholds must satisfy 0 < medium < high <= 100, got medium=%d high=%d", medium, high))
	}
	if cfg.Relevance.TopLimit < 1 {
		return types.NewConfigError("relevance.top_limit", fmt.Errorf("must be >= 1"))
	}

	if cfg.Fetcher.Timeout <= 0 {
		return types.NewConfigError("fetcher.timeout", fmt.Errorf("must be > 0"))
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return types.NewConfigError("fetcher.max_body_size", fmt.Errorf("must be > 0"))
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return types.NewConfigError("fetcher.max_redirects", fmt.Errorf("must be >= 0"))
	}

	switch cfg.Storage.Backend {
	case "json":
	case "mongo":
		if cfg.Storage.MongoURI == "" {
			return types.NewConfigError("storage.mongo_uri", fmt.Errorf("required for mongo backend"))
		}
	default:
		return types.NewConfigError("storage.backend",
			fmt.Errorf("%q is not supported (valid: json, mongo)", cfg.Storage.Backend))
	}

	if cfg.Notify.WebhookURL != "" {
		if _, err := url.ParseRequestURI(cfg.Notify.WebhookURL); err != nil {
			return types.NewConfigError("notify.webhook_url", fmt.Errorf("invalid URL: %w", err))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return types.NewConfigError("logging.level",
			fmt.Errorf("must be debug/info/warn/error, got %q", cfg.Logging.Level))
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return types.NewConfigError("logging.format",
			fmt.Errorf("must be 'text' or 'json', got %q", cfg.Logging.Format))
	}

	if cfg.Schedule.MetricsEnabled {
		if cfg.Schedule.MetricsPort < 1 || cfg.Schedule.MetricsPort > 65535 {
			return types.NewConfigError("schedule.metrics_port",
				fmt.Errorf("must be 1-65535, got %d", cfg.Schedule.MetricsPort))
		}
	}

	return nil
}
