// Package relevance computes deterministic keyword-weighted relevance
// scores for collected articles and classifies them into report buckets.
package relevance

import (
	"math"
	"sort"
	"strings"

	"adscout/internal/types"
)

// Scorer scores article text against a configured keyword-weight table.
// Scoring is a pure function of the inputs: the same text and the same
// table always produce the same score and matched set.
type Scorer struct {
	weights         map[string]float64
	lowered         []scoredPattern
	titleMultiplier float64
	normalization   float64
}

type scoredPattern struct {
	pattern string
	lower   string
	weight  float64
}

// Option tweaks scorer construction.
type Option func(*Scorer)

// WithTitleMultiplier sets the weight multiplier applied when a keyword
// appears in the article title. Values <= 1 disable the bonus.
func WithTitleMultiplier(m float64) Option {
	return func(s *Scorer) {
		if m > 0 {
			s.titleMultiplier = m
		}
	}
}

// WithNormalization sets the saturating normalization constant:
// score = min(100, round(100 * raw / normalization)).
func WithNormalization(n float64) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.normalization = n
		}
	}
}

// NewScorer builds a Scorer from a keyword-weight table. It fails with a
// ConfigError when the table is empty or contains non-positive weights.
func NewScorer(weights map[string]float64, opts ...Option) (*Scorer, error) {
	if len(weights) == 0 {
		return nil, types.NewConfigError("relevance.keywords", types.ErrEmptyKeywords)
	}

	s := &Scorer{
		weights:         make(map[string]float64, len(weights)),
		lowered:         make([]scoredPattern, 0, len(weights)),
		titleMultiplier: DefaultTitleMultiplier,
		normalization:   DefaultNormalization,
	}

	for pattern, weight := range weights {
		trimmed := strings.TrimSpace(pattern)
		if trimmed == "" {
			return nil, types.NewConfigError("relevance.keywords", errBlankPattern)
		}
		if weight <= 0 {
			return nil, types.NewConfigError("relevance.keywords", errNonPositiveWeight(pattern, weight))
		}
		s.weights[trimmed] = weight
		s.lowered = append(s.lowered, scoredPattern{
			pattern: trimmed,
			lower:   strings.ToLower(trimmed),
			weight:  weight,
		})
	}

	// Fixed iteration order keeps scoring reproducible.
	sort.Slice(s.lowered, func(i, j int) bool { return s.lowered[i].pattern < s.lowered[j].pattern })

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Score computes the relevance score in [0,100] and the matched keyword
// set for an article. Each pattern counts at most once no matter how many
// times it occurs — repeated keyword stuffing does not inflate the score.
func (s *Scorer) Score(title, body string) (int, []string) {
	lowTitle := strings.ToLower(title)
	full := strings.TrimSpace(lowTitle + " " + strings.ToLower(body))
	if full == "" {
		return 0, nil
	}

	var raw float64
	var matched []string

	for _, p := range s.lowered {
		if !strings.Contains(full, p.lower) {
			continue
		}
		matched = append(matched, p.pattern)

		w := p.weight
		if s.titleMultiplier > 1 && strings.Contains(lowTitle, p.lower) {
			w *= s.titleMultiplier
		}
		// Longer phrases are more specific, reward them.
		switch words := len(strings.Fields(p.pattern)); {
		case words >= 3:
			w *= 1.3
		case words == 2:
			w *= 1.1
		}
		raw += w
	}

	if len(matched) == 0 {
		return 0, nil
	}

	score := int(math.Round(100 * raw / s.normalization))
	if score > 100 {
		score = 100
	}

	// Most important keywords first; ties broken alphabetically so the
	// ordering is a total order.
	sort.SliceStable(matched, func(i, j int) bool {
		wi, wj := s.weights[matched[i]], s.weights[matched[j]]
		if wi != wj {
			return wi > wj
		}
		return matched[i] < matched[j]
	})

	return score, matched
}
