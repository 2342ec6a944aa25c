package search

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"adscout/internal/types"
)

// GoogleNews searches the Google News vertical (tbm=nws) and falls back
// to regular web results when the news layout yields nothing.
type GoogleNews struct {
	fetcher Fetcher
}

func (g *GoogleNews) Name() string { return "google" }

func (g *GoogleNews) Search(ctx context.Context, q types.Query) ([]types.RawHit, error) {
	query := BuildQuery(q.Keywords, q.Sites)
	searchURL := "https://www.google.com/search?" + url.Values{
		"q":   {query},
		"tbm": {"nws"},
		"num": {"30"},
		"hl":  {"en"},
	}.Encode()

	res, err := g.fetcher.Get(ctx, searchURL)
	if err != nil {
		return nil, &types.SearchError{Provider: g.Name(), Err: err}
	}

	hits, err := parseGoogleResults(res.Body)
	if err != nil {
		return nil, &types.SearchError{Provider: g.Name(), Err: err}
	}
	return capHits(hits, q.MaxResults), nil
}

func parseGoogleResults(body []byte) ([]types.RawHit, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var hits []types.RawHit

	// News card layout.
	doc.Find("div.SoaBEf").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Find("a").First().Attr("href")
		if !ok {
			return
		}
		title := strings.TrimSpace(s.Find("div.n0jPhd, div.MBeuO").First().Text())
		snippet := strings.TrimSpace(s.Find("div.GI74Re").First().Text())
		if hit, ok := newHit(href, title, snippet, "google"); ok {
			hits = append(hits, hit)
		}
	})

	// Plain web result layout, used when the news cards are absent.
	if len(hits) == 0 {
		doc.Find("div.g").Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Find("a").First().Attr("href")
			if !ok {
				return
			}
			title := strings.TrimSpace(s.Find("h3").First().Text())
			snippet := strings.TrimSpace(s.Find("div.VwiC3b").First().Text())
			if hit, ok := newHit(href, title, snippet, "google"); ok {
				hits = append(hits, hit)
			}
		})
	}

	return hits, nil
}

// newHit validates an extracted result. Google sometimes emits relative
// tracking links ("/url?q=...") which we unwrap, and anchors with no
// title which we drop.
func newHit(href, title, snippet, source string) (types.RawHit, bool) {
	if strings.HasPrefix(href, "/url?") {
		if u, err := url.Parse(href); err == nil {
			if target := u.Query().Get("q"); target != "" {
				href = target
			}
		}
	}
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return types.RawHit{}, false
	}
	if title == "" {
		return types.RawHit{}, false
	}
	return types.RawHit{
		URL:        href,
		Title:      title,
		Snippet:    snippet,
		SourceSite: source,
	}, true
}
