package parse

import (
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>fallback title</title>
	<meta property="og:title" content="Ad Fraud Network Dismantled">
	<meta property="og:description" content="Investigators took down a botnet generating fake ad impressions.">
	<meta property="article:published_time" content="2025-11-03T08:30:00Z">
	<meta name="author" content="Jordan Reyes">
</head>
<body>
	<article>
		<h1>Ad Fraud Network Dismantled</h1>
		<p>Investigators announced on Monday that a large botnet responsible for
		generating fake ad impressions has been taken offline. The operation ran
		for over two years and siphoned millions from advertisers.</p>
		<p>Industry groups welcomed the action and called for stronger controls
		on programmatic advertising supply chains.</p>
	</article>
</body>
</html>`

func TestExtractMetadata(t *testing.T) {
	ext, err := extract([]byte(samplePage), "https://example.com/ad-fraud-network")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if ext.Title != "Ad Fraud Network Dismantled" {
		t.Errorf("title = %q", ext.Title)
	}
	if ext.Summary != "Investigators took down a botnet generating fake ad impressions." {
		t.Errorf("summary = %q", ext.Summary)
	}
	if ext.Author != "Jordan Reyes" {
		t.Errorf("author = %q", ext.Author)
	}
	if ext.PublishedAt == nil {
		t.Fatal("expected published time")
	}
	if got := ext.PublishedAt.UTC().Format("2006-01-02"); got != "2025-11-03" {
		t.Errorf("published = %s", got)
	}
	if !strings.Contains(ext.Content, "botnet") {
		t.Errorf("content missing body text: %q", ext.Content)
	}
}

func TestExtractWithoutMetadata(t *testing.T) {
	page := `<html><head><title>Plain Page</title></head><body>
	<article><p>Short body about scam ads with no meta tags at all. It still
	needs enough text for the extractor to consider it content worth keeping,
	so this paragraph rambles on for a little while longer than usual.</p></article>
	</body></html>`

	ext, err := extract([]byte(page), "https://example.com/plain")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if ext.PublishedAt != nil {
		t.Error("expected nil published time")
	}
}

func TestSummarizeShortText(t *testing.T) {
	if got := summarize("short text"); got != "short text" {
		t.Errorf("got %q", got)
	}
}

func TestSummarizeSentenceBoundary(t *testing.T) {
	first := strings.Repeat("a", 200) + "."
	text := first + " " + strings.Repeat("b", 200)
	got := summarize(text)
	if got != first {
		t.Errorf("expected cut at sentence boundary, got %d chars", len(got))
	}
}

func TestSummarizeWordBoundary(t *testing.T) {
	text := strings.Repeat("word ", 100)
	got := summarize(text)
	if len(got) > summaryMaxLen+3 {
		t.Errorf("summary too long: %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis, got %q", got)
	}
	if strings.Contains(got, "wor ") {
		t.Errorf("cut mid-word: %q", got)
	}
}

func TestSummarizeCollapsesWhitespace(t *testing.T) {
	got := summarize("line one\n\n  line two\t end")
	if got != "line one line two end" {
		t.Errorf("got %q", got)
	}
}
