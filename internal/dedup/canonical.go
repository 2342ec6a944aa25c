// Package dedup tracks article URLs already processed in any prior run.
// The same canonical form is used at both check and record time; changing
// the canonicalization rules silently un-deduplicates history, so they
// are fixed here and documented on Canonicalize.
package dedup

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParams are query parameters that vary per click without
// changing the document, and are dropped before comparison.
var trackingParams = map[string]bool{
	"gclid":       true,
	"fbclid":      true,
	"msclkid":     true,
	"mc_cid":      true,
	"mc_eid":      true,
	"ref":         true,
	"ref_src":     true,
	"igshid":      true,
	"yclid":       true,
	"_hsenc":      true,
	"_hsmi":       true,
	"cmpid":       true,
	"s_cid":       true,
	"ns_mchannel": true,
}

// Canonicalize normalizes a URL for deduplication:
//   - lowercases scheme and host
//   - removes the fragment
//   - removes default ports (80 for http, 443 for https)
//   - drops tracking query parameters (utm_*, gclid, fbclid, ...)
//   - sorts the remaining query parameters
//   - removes the trailing slash (except root)
//
// Unparseable input is returned unchanged so it still dedups against
// byte-identical occurrences.
func Canonicalize(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	host := u.Hostname()
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		u.Host = host
	}

	if u.RawQuery != "" {
		params := u.Query()
		keys := make([]string, 0, len(params))
		for k := range params {
			if isTrackingParam(k) {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var sorted []string
		for _, k := range keys {
			vals := params[k]
			sort.Strings(vals)
			for _, v := range vals {
				sorted = append(sorted, url.QueryEscape(k)+"="+url.QueryEscape(v))
			}
		}
		u.RawQuery = strings.Join(sorted, "&")
	}

	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
	}
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

func isTrackingParam(key string) bool {
	lower := strings.ToLower(key)
	if strings.HasPrefix(lower, "utm_") {
		return true
	}
	return trackingParams[lower]
}
