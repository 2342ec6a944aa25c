// Package parse turns fetched article pages into structured content:
// readable body text, metadata from Open Graph tags, and a summary.
package parse

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/araddon/dateparse"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"adscout/internal/fetch"
	"adscout/internal/types"
)

const summaryMaxLen = 300

// Fetcher is the subset of the HTTP fetcher the parser needs.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*fetch.Result, error)
}

// Parser fetches and extracts article pages.
type Parser struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func New(f Fetcher, logger *slog.Logger) *Parser {
	return &Parser{
		fetcher: f,
		logger:  logger.With("component", "parser"),
	}
}

// Parse fetches the article page and fills in content, metadata, and
// summary. The article keeps its search-result title and snippet when
// the page itself yields nothing better.
func (p *Parser) Parse(ctx context.Context, art *types.Article) error {
	res, err := p.fetcher.Get(ctx, art.URL)
	if err != nil {
		return err
	}

	ext, err := extract(res.Body, art.URL)
	if err != nil {
		return &types.ParseError{URL: art.URL, Err: err}
	}

	if ext.Title != "" {
		art.Title = ext.Title
	}
	art.Content = ext.Content
	if ext.Summary != "" {
		art.Summary = ext.Summary
	} else if art.Summary == "" {
		art.Summary = summarize(ext.Content)
	}
	art.Author = ext.Author
	art.PublishedAt = ext.PublishedAt
	art.Status = types.StatusParsed

	p.logger.Debug("parsed article",
		"url", art.URL,
		"title", art.Title,
		"content_len", len(art.Content),
	)
	return nil
}

type extracted struct {
	Title       string
	Content     string
	Summary     string
	Author      string
	PublishedAt *time.Time
}

// extract pulls readable text and metadata out of an HTML page.
func extract(body []byte, pageURL string) (*extracted, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	ext := &extracted{}

	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err == nil {
		ext.Title = strings.TrimSpace(article.Title)
		ext.Content = strings.TrimSpace(article.TextContent)
		ext.Author = strings.TrimSpace(article.Byline)
		ext.Summary = strings.TrimSpace(article.Excerpt)
	}

	// Open Graph metadata is usually more reliable than heuristics.
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		if ext.Content == "" {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		return ext, nil
	}

	if v := metaContent(doc, "og:title"); v != "" {
		ext.Title = v
	}
	if v := metaContent(doc, "og:description"); v != "" {
		ext.Summary = v
	}
	if ext.Author == "" {
		if v := metaContent(doc, "article:author"); v != "" {
			ext.Author = v
		} else if node := htmlquery.FindOne(doc, `//meta[@name='author']`); node != nil {
			ext.Author = strings.TrimSpace(htmlquery.SelectAttr(node, "content"))
		}
	}
	if v := metaContent(doc, "article:published_time"); v != "" {
		if t, err := dateparse.ParseAny(v); err == nil {
			ext.PublishedAt = &t
		}
	}

	if len(ext.Summary) > summaryMaxLen {
		ext.Summary = summarize(ext.Summary)
	}
	return ext, nil
}

func metaContent(doc *html.Node, property string) string {
	node := htmlquery.FindOne(doc, fmt.Sprintf(`//meta[@property='%s']`, property))
	if node == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.SelectAttr(node, "content"))
}

// summarize trims text to roughly summaryMaxLen characters, breaking at
// a sentence boundary when one is close enough.
func summarize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= summaryMaxLen {
		return text
	}
	cut := text[:summaryMaxLen]
	if idx := strings.LastIndexAny(cut, ".!?"); idx > summaryMaxLen/2 {
		return cut[:idx+1]
	}
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
