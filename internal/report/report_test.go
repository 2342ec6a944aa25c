package report

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"adscout/internal/relevance"
	"adscout/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestSortRanked(t *testing.T) {
	articles := []types.Article{
		{URL: "https://b.example.com", RelevanceScore: 40},
		{URL: "https://a.example.com", RelevanceScore: 40},
		{URL: "https://c.example.com", RelevanceScore: 80},
		{URL: "https://d.example.com", RelevanceScore: 40, PublishedAt: ts("2025-11-01")},
		{URL: "https://e.example.com", RelevanceScore: 40, PublishedAt: ts("2025-11-05")},
	}
	SortRanked(articles)

	want := []string{
		"https://c.example.com", // highest score
		"https://e.example.com", // newer date
		"https://d.example.com",
		"https://a.example.com", // dateless, URL order
		"https://b.example.com",
	}
	for i, w := range want {
		if articles[i].URL != w {
			t.Errorf("position %d: got %s, want %s", i, articles[i].URL, w)
		}
	}
}

func TestAssembleCounts(t *testing.T) {
	articles := []types.Article{
		{URL: "https://x.example.com/1", RelevanceScore: 75},
		{URL: "https://x.example.com/2", RelevanceScore: 60},
		{URL: "https://x.example.com/3", RelevanceScore: 45},
		{URL: "https://x.example.com/4", RelevanceScore: 29},
	}
	started := time.Date(2025, 11, 3, 7, 0, 0, 0, time.UTC)
	finished := started.Add(90 * time.Second)

	s := Assemble("run-1", started, finished, articles, 9, 3,
		[]string{"google: timeout"}, relevance.DefaultThresholds, 10)

	if s.TotalFound != 9 || s.NewCount != 4 || s.DuplicateCount != 3 {
		t.Errorf("counts: total=%d new=%d dup=%d", s.TotalFound, s.NewCount, s.DuplicateCount)
	}
	if s.HighCount != 2 || s.MediumCount != 1 || s.LowCount != 1 {
		t.Errorf("buckets: high=%d medium=%d low=%d", s.HighCount, s.MediumCount, s.LowCount)
	}
	if s.ErrorCount != 1 {
		t.Errorf("error count = %d", s.ErrorCount)
	}
	if s.DurationMS != 90_000 {
		t.Errorf("duration = %d", s.DurationMS)
	}
	if s.TopArticles[0].RelevanceScore != 75 {
		t.Errorf("top article score = %d", s.TopArticles[0].RelevanceScore)
	}
}

func TestAssembleCapsTopArticles(t *testing.T) {
	var articles []types.Article
	for i := 0; i < 15; i++ {
		articles = append(articles, types.Article{
			URL:            "https://x.example.com/" + string(rune('a'+i)),
			RelevanceScore: i,
		})
	}
	s := Assemble("run-2", time.Now(), time.Now(), articles, 15, 0, nil,
		relevance.DefaultThresholds, 10)
	if len(s.TopArticles) != 10 {
		t.Fatalf("got %d top articles, want 10", len(s.TopArticles))
	}
	if s.TopArticles[0].RelevanceScore != 14 {
		t.Errorf("best article not first: %d", s.TopArticles[0].RelevanceScore)
	}
}

func TestRenderWritesReport(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, relevance.DefaultThresholds, testLogger())

	articles := []types.Article{
		{
			URL:             "https://example.com/fraud",
			Title:           "Ad Fraud Ring Busted",
			Source:          "google",
			Summary:         "A major ad fraud operation was shut down.",
			RelevanceScore:  82,
			MatchedKeywords: []string{"ad fraud", "malvertising"},
			PublishedAt:     ts("2025-11-03"),
		},
		{
			URL:            "https://example.com/minor",
			Title:          "Minor Story",
			RelevanceScore: 10,
		},
	}

	date := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	path, err := r.Render(articles, date)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if filepath.Base(path) != "report_2025-11-03.html" {
		t.Errorf("filename = %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := string(data)

	for _, want := range []string{
		"Ad Fraud Ring Busted",
		"https://example.com/fraud",
		"ad fraud",
		"82%",
		"November 3, 2025",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
	// High-scoring article must come first.
	if strings.Index(html, "Ad Fraud Ring Busted") > strings.Index(html, "Minor Story") {
		t.Error("articles not ranked best-first")
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, relevance.DefaultThresholds, testLogger())

	articles := []types.Article{{
		URL:            "https://example.com/xss",
		Title:          `<script>alert("x")</script>`,
		RelevanceScore: 50,
	}}
	path, err := r.Render(articles, time.Now())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), `<script>alert`) {
		t.Error("title not escaped")
	}
}
