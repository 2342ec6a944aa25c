package config

import (
	"errors"
	"testing"

	"adscout/internal/types"
)

func TestValidateDefaults(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty keywords", func(c *Config) { c.Relevance.Keywords = nil }},
		{"negative weight", func(c *Config) { c.Relevance.Keywords = map[string]float64{"x": -1} }},
		{"zero max articles", func(c *Config) { c.Collector.MaxArticlesPerRun = 0 }},
		{"zero concurrency", func(c *Config) { c.Collector.Concurrency = 0 }},
		{"no queries", func(c *Config) { c.Search.Queries = nil }},
		{"query without keywords", func(c *Config) { c.Search.Queries[0].Keywords = nil }},
		{"unknown provider", func(c *Config) { c.Search.Queries[0].Sources = []string{"altavista"} }},
		{"inverted thresholds", func(c *Config) { c.Relevance.HighThreshold = 20 }},
		{"threshold above 100", func(c *Config) { c.Relevance.HighThreshold = 150 }},
		{"bad storage backend", func(c *Config) { c.Storage.Backend = "parquet" }},
		{"mongo without uri", func(c *Config) { c.Storage.Backend = "mongo" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad webhook url", func(c *Config) { c.Notify.WebhookURL = "::not-a-url" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var cfgErr *types.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigError, got %T: %v", err, err)
			}
		})
	}
}

func TestValidateEmptyKeywordsIsSentinel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Relevance.Keywords = map[string]float64{}
	if err := Validate(cfg); !errors.Is(err, types.ErrEmptyKeywords) {
		t.Errorf("expected ErrEmptyKeywords, got %v", err)
	}
}
