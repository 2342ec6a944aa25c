// Package observability exposes collector counters for the schedule
// daemon in Prometheus text exposition format.
package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Metrics tracks operational metrics across scheduled collection runs.
type Metrics struct {
	RunsTotal     atomic.Int64
	RunsFailed    atomic.Int64
	RunsSkipped   atomic.Int64
	ArticlesFound atomic.Int64
	ArticlesNew   atomic.Int64
	Duplicates    atomic.Int64
	Errors        atomic.Int64
	LastRunUnix   atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// RecordRun updates counters after a completed run.
func (m *Metrics) RecordRun(found, fresh, duplicates, errs int) {
	m.RunsTotal.Add(1)
	m.ArticlesFound.Add(int64(found))
	m.ArticlesNew.Add(int64(fresh))
	m.Duplicates.Add(int64(duplicates))
	m.Errors.Add(int64(errs))
	m.LastRunUnix.Store(time.Now().Unix())
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"adscout_runs_total", "Total collection runs", m.RunsTotal.Load()},
		{"adscout_runs_failed_total", "Total failed runs", m.RunsFailed.Load()},
		{"adscout_runs_skipped_total", "Runs skipped because one was in progress", m.RunsSkipped.Load()},
		{"adscout_articles_found_total", "Total search hits across runs", m.ArticlesFound.Load()},
		{"adscout_articles_new_total", "Total new articles collected", m.ArticlesNew.Load()},
		{"adscout_duplicates_total", "Total hits dropped as duplicates", m.Duplicates.Load()},
		{"adscout_errors_total", "Total per-article and per-provider errors", m.Errors.Load()},
		{"adscout_last_run_timestamp", "Unix time of the last completed run", m.LastRunUnix.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server in the background.
func (m *Metrics) StartServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()
}
