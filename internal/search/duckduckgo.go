package search

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"adscout/internal/types"
)

// DuckDuckGo searches the no-JavaScript HTML endpoint, which returns a
// stable markup that does not require a headless browser.
type DuckDuckGo struct {
	fetcher Fetcher
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

func (d *DuckDuckGo) Search(ctx context.Context, q types.Query) ([]types.RawHit, error) {
	query := BuildQuery(q.Keywords, q.Sites)
	searchURL := "https://html.duckduckgo.com/html/?" + url.Values{
		"q": {query},
	}.Encode()

	res, err := d.fetcher.Get(ctx, searchURL)
	if err != nil {
		return nil, &types.SearchError{Provider: d.Name(), Err: err}
	}

	hits, err := parseDuckDuckGoResults(res.Body)
	if err != nil {
		return nil, &types.SearchError{Provider: d.Name(), Err: err}
	}
	return capHits(hits, q.MaxResults), nil
}

func parseDuckDuckGoResults(body []byte) ([]types.RawHit, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var hits []types.RawHit
	doc.Find("div.result").Each(func(_ int, s *goquery.Selection) {
		anchor := s.Find("a.result__a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}
		href = unwrapDuckDuckGoLink(href)
		title := strings.TrimSpace(anchor.Text())
		snippet := strings.TrimSpace(s.Find("a.result__snippet").First().Text())
		if hit, ok := newHit(href, title, snippet, "duckduckgo"); ok {
			hits = append(hits, hit)
		}
	})
	return hits, nil
}

// unwrapDuckDuckGoLink resolves the uddg redirect wrapper
// (//duckduckgo.com/l/?uddg=<encoded>) to the destination URL.
func unwrapDuckDuckGoLink(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.Contains(u.Host, "duckduckgo.com") {
		// Query() already percent-decodes the wrapped URL.
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}
