// Package search implements the news search providers. Each provider
// turns a query into a list of raw hits (URL, title, snippet) which the
// collection pipeline dedups, fetches, and scores.
package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"adscout/internal/fetch"
	"adscout/internal/types"
)

// Fetcher is the subset of the HTTP fetcher providers need.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*fetch.Result, error)
}

// Provider searches one engine for articles matching a query.
type Provider interface {
	Name() string
	Search(ctx context.Context, q types.Query) ([]types.RawHit, error)
}

// Factory builds a provider bound to a fetcher.
type Factory func(f Fetcher) Provider

var factories = map[string]Factory{
	"google":     func(f Fetcher) Provider { return &GoogleNews{fetcher: f} },
	"bing":       func(f Fetcher) Provider { return NewBingNews(f) },
	"duckduckgo": func(f Fetcher) Provider { return &DuckDuckGo{fetcher: f} },
}

// Providers resolves provider names into instances. Unknown names are
// rejected here so a typo fails the run before any network work.
func Providers(names []string, f Fetcher) ([]Provider, error) {
	if len(names) == 0 {
		return nil, types.ErrNoProviders
	}
	out := make([]Provider, 0, len(names))
	for _, name := range names {
		factory, ok := factories[name]
		if !ok {
			return nil, fmt.Errorf("unknown search provider %q", name)
		}
		out = append(out, factory(f))
	}
	return out, nil
}

// BuildQuery assembles the search string sent to an engine: keywords
// quoted and OR-joined, optionally restricted to the target sites.
func BuildQuery(keywords, targetSites []string) string {
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(kw, " ") {
			quoted = append(quoted, `"`+kw+`"`)
		} else {
			quoted = append(quoted, kw)
		}
	}
	q := strings.Join(quoted, " OR ")

	if len(targetSites) > 0 {
		sites := make([]string, 0, len(targetSites))
		for _, s := range targetSites {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			sites = append(sites, "site:"+s)
		}
		if len(sites) > 0 {
			q = "(" + q + ") (" + strings.Join(sites, " OR ") + ")"
		}
	}
	return q
}

// FilterExcluded drops hits whose host matches (or is a subdomain of)
// one of the excluded domains.
func FilterExcluded(hits []types.RawHit, excluded []string) []types.RawHit {
	if len(excluded) == 0 {
		return hits
	}
	out := hits[:0]
	for _, hit := range hits {
		u, err := url.Parse(hit.URL)
		if err != nil {
			continue
		}
		host := strings.ToLower(u.Hostname())
		skip := false
		for _, domain := range excluded {
			domain = strings.ToLower(strings.TrimSpace(domain))
			if domain == "" {
				continue
			}
			if host == domain || strings.HasSuffix(host, "."+domain) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, hit)
		}
	}
	return out
}

func capHits(hits []types.RawHit, max int) []types.RawHit {
	if max > 0 && len(hits) > max {
		return hits[:max]
	}
	return hits
}
