package search

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"adscout/internal/types"
)

// BingNews searches Bing News via its RSS feed, which is far more
// stable than scraping the HTML result page.
type BingNews struct {
	fetcher Fetcher
	parser  *gofeed.Parser
}

func NewBingNews(f Fetcher) *BingNews {
	return &BingNews{fetcher: f, parser: gofeed.NewParser()}
}

func (b *BingNews) Name() string { return "bing" }

func (b *BingNews) Search(ctx context.Context, q types.Query) ([]types.RawHit, error) {
	query := BuildQuery(q.Keywords, q.Sites)
	feedURL := "https://www.bing.com/news/search?" + url.Values{
		"q":      {query},
		"format": {"rss"},
	}.Encode()

	res, err := b.fetcher.Get(ctx, feedURL)
	if err != nil {
		return nil, &types.SearchError{Provider: b.Name(), Err: err}
	}

	feed, err := b.parser.Parse(bytes.NewReader(res.Body))
	if err != nil {
		return nil, &types.SearchError{Provider: b.Name(), Err: err}
	}

	hits := make([]types.RawHit, 0, len(feed.Items))
	for _, item := range feed.Items {
		link := unwrapBingLink(strings.TrimSpace(item.Link))
		title := strings.TrimSpace(item.Title)
		if link == "" || title == "" {
			continue
		}
		hits = append(hits, types.RawHit{
			URL:        link,
			Title:      title,
			Snippet:    strings.TrimSpace(item.Description),
			SourceSite: "bing",
		})
	}
	return capHits(hits, q.MaxResults), nil
}

// unwrapBingLink resolves Bing's apiclick redirect wrapper to the
// destination article URL.
func unwrapBingLink(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	if strings.Contains(u.Host, "bing.com") && strings.Contains(u.Path, "apiclick") {
		if target := u.Query().Get("url"); target != "" {
			return target
		}
	}
	return link
}
