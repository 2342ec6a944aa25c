package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"adscout/internal/report"
	"adscout/internal/types"
)

const (
	articlesFile = "articles.json"
	runsFile     = "runs.json"
)

// JSONArchive persists articles and run history as JSON files under the
// output directory. Writes go through a temp file and rename so a crash
// mid-write never corrupts the archive.
type JSONArchive struct {
	dir    string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewJSONArchive creates a JSON file archive rooted at dir.
func NewJSONArchive(dir string, logger *slog.Logger) (*JSONArchive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &JSONArchive{
		dir:    dir,
		logger: logger.With("component", "json_archive"),
	}, nil
}

func (a *JSONArchive) Name() string { return "json" }

// SaveArticles appends the batch to articles.json. A missing or
// unreadable file starts a fresh archive rather than failing the run.
func (a *JSONArchive) SaveArticles(_ context.Context, articles []types.Article) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := filepath.Join(a.dir, articlesFile)

	var existing []types.Article
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &existing); err != nil {
			a.logger.Warn("existing archive unreadable, starting fresh", "path", path, "error", err)
			existing = nil
		}
	}

	existing = append(existing, articles...)
	if err := a.writeJSON(path, existing); err != nil {
		return &types.StorageError{Backend: a.Name(), Err: err}
	}

	a.logger.Info("articles archived", "new", len(articles), "total", len(existing))
	return nil
}

type dailyExport struct {
	Date     string          `json:"date"`
	Count    int             `json:"count"`
	Articles []types.Article `json:"articles"`
}

// ExportDaily writes articles_YYYY-MM-DD.json for the run's articles.
func (a *JSONArchive) ExportDaily(_ context.Context, articles []types.Article, date time.Time) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := filepath.Join(a.dir, "articles_"+date.Format("2006-01-02")+".json")
	export := dailyExport{
		Date:     date.Format(time.RFC3339),
		Count:    len(articles),
		Articles: articles,
	}
	if err := a.writeJSON(path, export); err != nil {
		return "", &types.StorageError{Backend: a.Name(), Err: err}
	}

	a.logger.Info("daily export written", "path", path, "articles", len(articles))
	return path, nil
}

// SaveRunSummary appends the summary to runs.json.
func (a *JSONArchive) SaveRunSummary(_ context.Context, summary *report.RunSummary) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := filepath.Join(a.dir, runsFile)

	var runs []report.RunSummary
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &runs); err != nil {
			a.logger.Warn("run history unreadable, starting fresh", "path", path, "error", err)
			runs = nil
		}
	}

	runs = append(runs, *summary)
	if err := a.writeJSON(path, runs); err != nil {
		return &types.StorageError{Backend: a.Name(), Err: err}
	}
	return nil
}

func (a *JSONArchive) Close() error { return nil }

func (a *JSONArchive) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
