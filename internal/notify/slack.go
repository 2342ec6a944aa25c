// Package notify posts run summaries to a Slack-compatible webhook
// using Block Kit formatted messages.
package notify

import (
	"fmt"
	"strings"

	"adscout/internal/relevance"
	"adscout/internal/report"
)

const (
	maxTitleLen    = 50
	maxListedHits  = 10
	maxKeywordTags = 3
)

// Block is one Slack Block Kit block.
type Block struct {
	Type     string `json:"type"`
	Text     *Text  `json:"text,omitempty"`
	Elements []Text `json:"elements,omitempty"`
}

// Text is a Block Kit text object.
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Payload is the webhook message body.
type Payload struct {
	Blocks []Block `json:"blocks"`
}

// BuildPayload formats a run summary as a Block Kit message: a header,
// the bucket counts, the top articles with tier markers and matched
// keywords, and optional report/error footers.
func BuildPayload(s *report.RunSummary, reportRef string, thresholds relevance.Thresholds) *Payload {
	p := &Payload{
		Blocks: []Block{
			{
				Type: "header",
				Text: &Text{Type: "plain_text", Text: "\U0001F514 Ad Intelligence Daily"},
			},
			{
				Type: "section",
				Text: &Text{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*%d new articles* found (%d total processed)\n"+
						"\U0001F7E2 High relevance: %d  |  \U0001F7E1 Medium: %d",
						s.NewCount, s.TotalFound, s.HighCount, s.MediumCount),
				},
			},
			{Type: "divider"},
		},
	}

	if len(s.TopArticles) > 0 {
		var lines []string
		for i, art := range s.TopArticles {
			if i >= maxListedHits {
				break
			}
			emoji := tierEmoji(thresholds.For(art.RelevanceScore))

			title := art.Title
			if len(title) > maxTitleLen {
				title = title[:maxTitleLen] + "..."
			}

			line := fmt.Sprintf("%s *%d%%* <%s|%s>", emoji, art.RelevanceScore, art.URL, title)
			if len(art.MatchedKeywords) > 0 {
				kws := art.MatchedKeywords
				if len(kws) > maxKeywordTags {
					kws = kws[:maxKeywordTags]
				}
				line += " `" + strings.Join(kws, ", ") + "`"
			}
			lines = append(lines, line)
		}
		p.Blocks = append(p.Blocks, Block{
			Type: "section",
			Text: &Text{
				Type: "mrkdwn",
				Text: "*Top Articles by Relevance:*\n" + strings.Join(lines, "\n"),
			},
		})
	}

	if reportRef != "" {
		p.Blocks = append(p.Blocks, Block{
			Type: "context",
			Elements: []Text{{
				Type: "mrkdwn",
				Text: "\U0001F4C4 Full HTML report: `" + reportRef + "`",
			}},
		})
	}

	if s.ErrorCount > 0 {
		p.Blocks = append(p.Blocks, Block{
			Type: "context",
			Elements: []Text{{
				Type: "mrkdwn",
				Text: fmt.Sprintf("⚠️ %d errors occurred during collection", s.ErrorCount),
			}},
		})
	}

	return p
}

func tierEmoji(b relevance.Bucket) string {
	switch b {
	case relevance.BucketHigh:
		return "\U0001F7E2"
	case relevance.BucketMedium:
		return "\U0001F7E1"
	default:
		return "⚪"
	}
}
