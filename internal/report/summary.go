// Package report assembles run summaries and renders the HTML report.
package report

import (
	"sort"
	"time"

	"adscout/internal/relevance"
	"adscout/internal/types"
)

// RunSummary is the record of one collection run. It feeds the HTML
// report, the webhook notification, and the run history file.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`

	TotalFound     int `json:"total_found"`
	NewCount       int `json:"new_count"`
	HighCount      int `json:"high_count"`
	MediumCount    int `json:"medium_count"`
	LowCount       int `json:"low_count"`
	DuplicateCount int `json:"duplicate_count"`
	ErrorCount     int `json:"error_count"`

	TopArticles []types.Article `json:"top_articles"`
	Errors      []string        `json:"errors,omitempty"`
}

// Assemble builds a RunSummary from the scored articles of a run.
// Articles are ranked best-first and the top list is capped at topLimit.
func Assemble(runID string, started, finished time.Time, articles []types.Article,
	totalFound, duplicates int, runErrors []string, thresholds relevance.Thresholds, topLimit int) *RunSummary {

	s := &RunSummary{
		RunID:          runID,
		StartedAt:      started,
		FinishedAt:     finished,
		DurationMS:     finished.Sub(started).Milliseconds(),
		TotalFound:     totalFound,
		NewCount:       len(articles),
		DuplicateCount: duplicates,
		ErrorCount:     len(runErrors),
		Errors:         runErrors,
	}

	for _, art := range articles {
		switch thresholds.For(art.RelevanceScore) {
		case relevance.BucketHigh:
			s.HighCount++
		case relevance.BucketMedium:
			s.MediumCount++
		default:
			s.LowCount++
		}
	}

	ranked := make([]types.Article, len(articles))
	copy(ranked, articles)
	SortRanked(ranked)
	if topLimit > 0 && len(ranked) > topLimit {
		ranked = ranked[:topLimit]
	}
	s.TopArticles = ranked
	return s
}

// SortRanked orders articles best-first: higher score, then more recent
// publication date (unknown dates last), then URL for a stable order.
func SortRanked(articles []types.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i], articles[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		switch {
		case a.PublishedAt != nil && b.PublishedAt == nil:
			return true
		case a.PublishedAt == nil && b.PublishedAt != nil:
			return false
		case a.PublishedAt != nil && b.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt):
			return a.PublishedAt.After(*b.PublishedAt)
		}
		return a.URL < b.URL
	})
}
