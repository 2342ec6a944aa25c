package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"adscout/internal/config"
	"adscout/internal/notify"
	"adscout/internal/report"
	"adscout/internal/search"
	"adscout/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeProvider struct {
	name string
	hits []types.RawHit
	err  error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Search(_ context.Context, _ types.Query) ([]types.RawHit, error) {
	return p.hits, p.err
}

// fakeParser marks articles parsed without fetching. URLs in failURLs
// return an error instead.
type fakeParser struct {
	failURLs map[string]bool
}

func (p *fakeParser) Parse(_ context.Context, art *types.Article) error {
	if p.failURLs[art.URL] {
		return &types.FetchError{URL: art.URL, StatusCode: 503, Err: errors.New("unavailable")}
	}
	art.Status = types.StatusParsed
	return nil
}

type fakeNotifier struct {
	enabled  bool
	payloads []*notify.Payload
}

func (n *fakeNotifier) Enabled() bool { return n.enabled }

func (n *fakeNotifier) Send(_ context.Context, p *notify.Payload) error {
	n.payloads = append(n.payloads, p)
	return nil
}

type fakeRenderer struct{ calls int }

func (r *fakeRenderer) Render(_ []types.Article, _ time.Time) (string, error) {
	r.calls++
	return "outputs/report_test.html", nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Collector.OutputDir = t.TempDir()
	cfg.Collector.StateDir = t.TempDir()
	cfg.Collector.Concurrency = 2
	cfg.Search.RequestDelay = 0
	cfg.Search.Queries = []types.Query{{
		Keywords:   []string{"ad fraud"},
		MaxResults: 20,
		Sources:    []string{"google"},
	}}
	return cfg
}

func newTestCollector(t *testing.T, cfg *config.Config, providers []search.Provider) *Collector {
	t.Helper()
	c, err := New(cfg, testLogger())
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	c.SetProviders(providers)
	c.SetParser(&fakeParser{})
	c.SetRenderer(&fakeRenderer{})
	c.SetNotifier(&fakeNotifier{})
	return c
}

func hitsN(n int) []types.RawHit {
	hits := make([]types.RawHit, n)
	for i := range hits {
		hits[i] = types.RawHit{
			URL:        fmt.Sprintf("https://example.com/story-%d", i),
			Title:      fmt.Sprintf("Story %d", i),
			Snippet:    "coverage of ad fraud in the industry",
			SourceSite: "google",
		}
	}
	return hits
}

func TestRunHappyPath(t *testing.T) {
	cfg := testConfig(t)
	c := newTestCollector(t, cfg, []search.Provider{
		&fakeProvider{name: "google", hits: hitsN(3)},
	})
	notifier := &fakeNotifier{enabled: true}
	c.SetNotifier(notifier)

	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.TotalFound != 3 || summary.NewCount != 3 || summary.DuplicateCount != 0 {
		t.Errorf("summary: total=%d new=%d dup=%d",
			summary.TotalFound, summary.NewCount, summary.DuplicateCount)
	}
	if summary.ErrorCount != 0 {
		t.Errorf("errors = %v", summary.Errors)
	}
	// Every article matched "ad fraud" and scored identically.
	for _, art := range summary.TopArticles {
		if art.RelevanceScore == 0 || len(art.MatchedKeywords) == 0 {
			t.Errorf("article not scored: %+v", art)
		}
	}
	if len(notifier.payloads) != 1 {
		t.Errorf("got %d notifications, want 1", len(notifier.payloads))
	}
}

func TestRunIsolatesArticleFailures(t *testing.T) {
	cfg := testConfig(t)
	c := newTestCollector(t, cfg, []search.Provider{
		&fakeProvider{name: "google", hits: hitsN(5)},
	})
	c.SetParser(&fakeParser{failURLs: map[string]bool{
		"https://example.com/story-2": true,
	}})

	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.TotalFound != 5 {
		t.Errorf("total found = %d", summary.TotalFound)
	}
	if summary.NewCount != 4 {
		t.Errorf("new count = %d, want 4", summary.NewCount)
	}
	if summary.ErrorCount != 1 {
		t.Errorf("error count = %d, want 1", summary.ErrorCount)
	}
}

func TestRunIsolatesProviderFailures(t *testing.T) {
	cfg := testConfig(t)
	cfg.Search.Queries[0].Sources = []string{"google", "bing"}
	c := newTestCollector(t, cfg, []search.Provider{
		&fakeProvider{name: "google", err: &types.SearchError{Provider: "google", Err: errors.New("blocked")}},
		&fakeProvider{name: "bing", hits: hitsN(2)},
	})

	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.NewCount != 2 {
		t.Errorf("new count = %d, want 2", summary.NewCount)
	}
	if summary.ErrorCount != 1 {
		t.Errorf("error count = %d, want 1", summary.ErrorCount)
	}
}

func TestRunDedupsAcrossRuns(t *testing.T) {
	cfg := testConfig(t)
	provider := &fakeProvider{name: "google", hits: hitsN(3)}

	c := newTestCollector(t, cfg, []search.Provider{provider})
	first, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.NewCount != 3 {
		t.Fatalf("first run new = %d", first.NewCount)
	}

	// Fresh collector, same state dir: the store must carry over.
	c2 := newTestCollector(t, cfg, []search.Provider{provider})
	second, err := c2.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.NewCount != 0 {
		t.Errorf("second run new = %d, want 0", second.NewCount)
	}
	if second.DuplicateCount != 3 {
		t.Errorf("second run duplicates = %d, want 3", second.DuplicateCount)
	}
	if second.TotalFound != 3 {
		t.Errorf("second run total = %d, want 3", second.TotalFound)
	}
}

func TestRunDedupsWithinRun(t *testing.T) {
	cfg := testConfig(t)
	hits := hitsN(2)
	// Same article reported by a second provider with tracking params.
	dup := hits[0]
	dup.URL = hits[0].URL + "?utm_source=newsletter"
	c := newTestCollector(t, cfg, []search.Provider{
		&fakeProvider{name: "google", hits: append(hits, dup)},
	})

	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.TotalFound != 3 || summary.NewCount != 2 || summary.DuplicateCount != 1 {
		t.Errorf("summary: total=%d new=%d dup=%d",
			summary.TotalFound, summary.NewCount, summary.DuplicateCount)
	}
}

func TestRunCapKeepsHighestScores(t *testing.T) {
	cfg := testConfig(t)
	cfg.Collector.MaxArticlesPerRun = 2

	hits := []types.RawHit{
		{URL: "https://example.com/weak", Title: "Weak", Snippet: "social engineering mention", SourceSite: "google"},
		{URL: "https://example.com/strong-1", Title: "Strong One", Snippet: "malvertising and ad fraud exposed", SourceSite: "google"},
		{URL: "https://example.com/strong-2", Title: "Strong Two", Snippet: "scam ads and ad fraud investigation", SourceSite: "google"},
	}
	c := newTestCollector(t, cfg, []search.Provider{
		&fakeProvider{name: "google", hits: hits},
	})

	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.NewCount != 2 {
		t.Fatalf("new count = %d, want 2", summary.NewCount)
	}
	for _, art := range summary.TopArticles {
		if art.URL == "https://example.com/weak" {
			t.Error("cap kept the weakest article")
		}
	}

	// The capped-out article was never recorded as seen, so it can
	// surface again in a later run.
	c2 := newTestCollector(t, cfg, []search.Provider{
		&fakeProvider{name: "google", hits: hits},
	})
	second, err := c2.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.NewCount != 1 {
		t.Errorf("second run new = %d, want 1 (the capped-out article)", second.NewCount)
	}
}

func TestRunLockPreventsOverlap(t *testing.T) {
	cfg := testConfig(t)
	c := newTestCollector(t, cfg, []search.Provider{
		&fakeProvider{name: "google", hits: hitsN(1)},
	})

	lock, err := acquireLock(cfg.Collector.StateDir)
	if err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	defer lock.Release()

	if _, err := c.Run(context.Background()); !errors.Is(err, types.ErrRunInProgress) {
		t.Errorf("expected ErrRunInProgress, got %v", err)
	}
}

func TestClearLock(t *testing.T) {
	dir := t.TempDir()
	if _, err := acquireLock(dir); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := ClearLock(dir); err != nil {
		t.Fatalf("clear: %v", err)
	}
	lock, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("reacquire after clear: %v", err)
	}
	lock.Release()
	if err := ClearLock(dir); err != nil {
		t.Errorf("clearing absent lock should succeed: %v", err)
	}
}

func TestRunWritesRunHistory(t *testing.T) {
	cfg := testConfig(t)
	c := newTestCollector(t, cfg, []search.Provider{
		&fakeProvider{name: "google", hits: hitsN(1)},
	})

	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Collector.OutputDir, "runs.json"))
	if err != nil {
		t.Fatalf("read runs.json: %v", err)
	}
	var runs []report.RunSummary
	if err := json.Unmarshal(data, &runs); err != nil {
		t.Fatalf("unmarshal runs.json: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("runs.json entries = %d, want 1", len(runs))
	}
}
