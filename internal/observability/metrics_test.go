package observability

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics(slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.RecordRun(12, 5, 6, 1)
	m.RecordRun(8, 3, 5, 0)

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %s", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"adscout_runs_total 2",
		"adscout_articles_found_total 20",
		"adscout_articles_new_total 8",
		"adscout_duplicates_total 11",
		"adscout_errors_total 1",
		"# TYPE adscout_runs_total counter",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
