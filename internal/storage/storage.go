// Package storage archives collected articles and run summaries.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"adscout/internal/config"
	"adscout/internal/report"
	"adscout/internal/types"
)

// Archive is the interface for article archive backends.
type Archive interface {
	// SaveArticles appends a batch of articles to the archive.
	SaveArticles(ctx context.Context, articles []types.Article) error

	// ExportDaily writes a dated snapshot of the run's articles and
	// returns its location.
	ExportDaily(ctx context.Context, articles []types.Article, date time.Time) (string, error)

	// SaveRunSummary appends a run summary to the run history.
	SaveRunSummary(ctx context.Context, summary *report.RunSummary) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the backend identifier.
	Name() string
}

// New creates the archive backend selected in the configuration.
func New(cfg *config.Config, logger *slog.Logger) (Archive, error) {
	switch cfg.Storage.Backend {
	case "json":
		return NewJSONArchive(cfg.Collector.OutputDir, logger)
	case "mongo":
		return NewMongoArchive(cfg.Storage.MongoURI, cfg.Storage.MongoDatabase,
			cfg.Storage.MongoCollection, logger)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}
