package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Status tracks an article's position in the collection lifecycle.
type Status string

const (
	StatusNew       Status = "new"
	StatusParsed    Status = "parsed"
	StatusFailed    Status = "failed"
	StatusDuplicate Status = "duplicate"
)

// Article is the canonical record for a collected article. It is created
// from a search hit, enriched by the parser, and scored by the relevance
// scorer. RelevanceScore is derived — callers never set it directly.
type Article struct {
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Source       string    `json:"source"`
	DiscoveredAt time.Time `json:"discovered_at"`

	Summary     string     `json:"summary,omitempty"`
	Content     string     `json:"content,omitempty"`
	Author      string     `json:"author,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	RelevanceScore  int      `json:"relevance_score"`

	Status       Status `json:"status"`
	IsNew        bool   `json:"is_new"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewArticle creates an Article in the new state from a search hit.
func NewArticle(url, title, source string) *Article {
	return &Article{
		URL:          url,
		Title:        title,
		Source:       source,
		DiscoveredAt: time.Now(),
		Status:       StatusNew,
	}
}

// Text returns the title and body text used for relevance scoring.
// The summary stands in for the body when parsing produced no content.
func (a *Article) Text() (title, body string) {
	body = a.Content
	if body == "" {
		body = a.Summary
	}
	return a.Title, body
}

// URLHash returns a short content-addressable hash of the article URL.
func (a *Article) URLHash() string {
	h := sha256.Sum256([]byte(a.URL))
	return hex.EncodeToString(h[:6])
}

// RawHit is a single untreated result from a search provider.
type RawHit struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet,omitempty"`
	SourceSite string `json:"source_site"`
}

// Query describes one search operation across one or more providers.
// Sites restricts results to the given domains; when empty the global
// target site list applies.
type Query struct {
	Keywords   []string `mapstructure:"keywords"    yaml:"keywords"    json:"keywords"`
	MaxResults int      `mapstructure:"max_results" yaml:"max_results" json:"max_results"`
	Sources    []string `mapstructure:"sources"     yaml:"sources"     json:"sources"`
	Sites      []string `mapstructure:"sites"       yaml:"sites"       json:"sites,omitempty"`
}
