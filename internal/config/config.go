package config

import (
	"time"

	"adscout/internal/relevance"
	"adscout/internal/types"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for adscout.
type Config struct {
	Collector CollectorConfig `mapstructure:"collector" yaml:"collector"`
	Search    SearchConfig    `mapstructure:"search"    yaml:"search"`
	Relevance RelevanceConfig `mapstructure:"relevance" yaml:"relevance"`
	Fetcher   FetcherConfig   `mapstructure:"fetcher"   yaml:"fetcher"`
	Storage   StorageConfig   `mapstructure:"storage"   yaml:"storage"`
	Notify    NotifyConfig    `mapstructure:"notify"    yaml:"notify"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"  yaml:"schedule"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// CollectorConfig controls the collection run itself.
type CollectorConfig struct {
	MaxArticlesPerRun int    `mapstructure:"max_articles_per_run" yaml:"max_articles_per_run"`
	Concurrency       int    `mapstructure:"concurrency"          yaml:"concurrency"`
	DedupEnabled      bool   `mapstructure:"dedup_enabled"        yaml:"dedup_enabled"`
	OutputDir         string `mapstructure:"output_dir"           yaml:"output_dir"`
	StateDir          string `mapstructure:"state_dir"            yaml:"state_dir"`
}

// SearchConfig controls what is searched and where.
type SearchConfig struct {
	Queries        []types.Query `mapstructure:"queries"         yaml:"queries"`
	TargetSites    []string      `mapstructure:"target_sites"    yaml:"target_sites"`
	ExcludeDomains []string      `mapstructure:"exclude_domains" yaml:"exclude_domains"`
	RequestDelay   time.Duration `mapstructure:"request_delay"   yaml:"request_delay"`
}

// RelevanceConfig controls scoring and bucketing.
type RelevanceConfig struct {
	Keywords        map[string]float64 `mapstructure:"keywords"         yaml:"keywords"`
	TitleMultiplier float64            `mapstructure:"title_multiplier" yaml:"title_multiplier"`
	Normalization   float64            `mapstructure:"normalization"    yaml:"normalization"`
	HighThreshold   int                `mapstructure:"high_threshold"   yaml:"high_threshold"`
	MediumThreshold int                `mapstructure:"medium_threshold" yaml:"medium_threshold"`
	TopLimit        int                `mapstructure:"top_limit"        yaml:"top_limit"`
}

// Thresholds returns the bucket boundaries as a relevance.Thresholds.
func (c RelevanceConfig) Thresholds() relevance.Thresholds {
	return relevance.Thresholds{High: c.HighThreshold, Medium: c.MediumThreshold}
}

// FetcherConfig controls the HTTP fetcher shared by search and parsing.
type FetcherConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"       yaml:"timeout"`
	MaxBodySize  int64         `mapstructure:"max_body_size" yaml:"max_body_size"`
	MaxRedirects int           `mapstructure:"max_redirects" yaml:"max_redirects"`
	UserAgents   []string      `mapstructure:"user_agents"   yaml:"user_agents"`
}

// StorageConfig selects the article archive backend.
type StorageConfig struct {
	Backend         string `mapstructure:"backend"          yaml:"backend"`
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// NotifyConfig controls the webhook notification. WebhookURL usually
// comes from the ADSCOUT_NOTIFY_WEBHOOK_URL environment variable.
type NotifyConfig struct {
	WebhookURL    string `mapstructure:"webhook_url"     yaml:"webhook_url"`
	ReportBaseURL string `mapstructure:"report_base_url" yaml:"report_base_url"`
}

// ScheduleConfig controls the in-process cron daemon.
type ScheduleConfig struct {
	Cron           string `mapstructure:"cron"            yaml:"cron"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled" yaml:"metrics_enabled"`
	MetricsPort    int    `mapstructure:"metrics_port"    yaml:"metrics_port"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Collector: CollectorConfig{
			MaxArticlesPerRun: 50,
			Concurrency:       4,
			DedupEnabled:      true,
			OutputDir:         "./outputs",
			StateDir:          "./state",
		},
		Search: SearchConfig{
			Queries: []types.Query{
				{
					Keywords:   []string{"ad fraud", "scam ads"},
					MaxResults: 20,
					Sources:    []string{"google", "bing", "duckduckgo"},
				},
			},
			RequestDelay: 3 * time.Second,
		},
		Relevance: RelevanceConfig{
			Keywords:        relevance.DefaultKeywordWeights(),
			TitleMultiplier: relevance.DefaultTitleMultiplier,
			Normalization:   relevance.DefaultNormalization,
			HighThreshold:   relevance.DefaultThresholds.High,
			MediumThreshold: relevance.DefaultThresholds.Medium,
			TopLimit:        10,
		},
		Fetcher: FetcherConfig{
			Timeout:      15 * time.Second,
			MaxBodySize:  5 * 1024 * 1024, // 5MB
			MaxRedirects: 10,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Storage: StorageConfig{
			Backend:         "json",
			MongoDatabase:   "adscout",
			MongoCollection: "articles",
		},
		Schedule: ScheduleConfig{
			Cron:        "0 7 * * *",
			MetricsPort: 9090,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
