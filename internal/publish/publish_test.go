package publish

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeReport(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("<html>report</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPublishCopiesAndIndexes(t *testing.T) {
	outputs := t.TempDir()
	docs := t.TempDir()
	writeReport(t, outputs, "report_2025-11-01.html")
	writeReport(t, outputs, "report_2025-11-03.html")
	writeReport(t, outputs, "not_a_report.html")

	p := New(outputs, docs, testLogger())
	copied, err := p.Publish()
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if copied != 2 {
		t.Errorf("copied = %d, want 2", copied)
	}

	if _, err := os.Stat(filepath.Join(docs, "not_a_report.html")); !os.IsNotExist(err) {
		t.Error("non-report file was copied")
	}

	data, err := os.ReadFile(filepath.Join(docs, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	index := string(data)
	if !strings.Contains(index, "report_2025-11-03.html") || !strings.Contains(index, "November 3, 2025") {
		t.Error("index missing newest report")
	}
	// Newest first.
	if strings.Index(index, "report_2025-11-03.html") > strings.Index(index, "report_2025-11-01.html") {
		t.Error("reports not sorted newest first")
	}
}

func TestPublishIsIdempotent(t *testing.T) {
	outputs := t.TempDir()
	docs := t.TempDir()
	writeReport(t, outputs, "report_2025-11-01.html")

	p := New(outputs, docs, testLogger())
	if _, err := p.Publish(); err != nil {
		t.Fatal(err)
	}
	copied, err := p.Publish()
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if copied != 0 {
		t.Errorf("second publish copied %d, want 0", copied)
	}
}

func TestPublishMissingOutputDir(t *testing.T) {
	docs := t.TempDir()
	p := New(filepath.Join(t.TempDir(), "missing"), docs, testLogger())
	copied, err := p.Publish()
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if copied != 0 {
		t.Errorf("copied = %d", copied)
	}
	if _, err := os.Stat(filepath.Join(docs, "index.html")); err != nil {
		t.Error("index.html not generated for empty site")
	}
}
