package report

import (
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"adscout/internal/relevance"
	"adscout/internal/types"
)

const maxKeywordTags = 6

// Renderer writes the daily HTML report.
type Renderer struct {
	outputDir  string
	thresholds relevance.Thresholds
	title      string
	logger     *slog.Logger
	tmpl       *template.Template
}

func NewRenderer(outputDir string, thresholds relevance.Thresholds, logger *slog.Logger) *Renderer {
	return &Renderer{
		outputDir:  outputDir,
		thresholds: thresholds,
		title:      "Ad Intelligence Daily Report",
		logger:     logger.With("component", "report"),
		tmpl:       template.Must(template.New("report").Parse(reportTemplate)),
	}
}

type reportRow struct {
	Rank     int
	Score    int
	Class    string
	Color    string
	URL      string
	Title    string
	Summary  string
	Keywords []string
	Source   string
	Author   string
	Date     string
}

type reportData struct {
	Title       string
	Date        string
	GeneratedAt string
	Total       int
	High        int
	Medium      int
	Low         int
	Rows        []reportRow
}

// Render writes report_YYYY-MM-DD.html for the given articles and
// returns the file path. Articles are ranked best-first.
func (r *Renderer) Render(articles []types.Article, date time.Time) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	ranked := make([]types.Article, len(articles))
	copy(ranked, articles)
	SortRanked(ranked)

	data := reportData{
		Title:       r.title,
		Date:        date.Format("January 2, 2006"),
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Total:       len(ranked),
	}

	for i, art := range ranked {
		bucket := r.thresholds.For(art.RelevanceScore)
		switch bucket {
		case relevance.BucketHigh:
			data.High++
		case relevance.BucketMedium:
			data.Medium++
		default:
			data.Low++
		}

		summary := art.Summary
		if summary == "" {
			summary = art.Content
		}
		if summary == "" {
			summary = "No summary available"
		}
		if len(summary) > 200 {
			summary = summary[:200] + "..."
		}

		keywords := art.MatchedKeywords
		if len(keywords) > maxKeywordTags {
			keywords = keywords[:maxKeywordTags]
		}

		row := reportRow{
			Rank:     i + 1,
			Score:    art.RelevanceScore,
			Class:    string(bucket),
			Color:    bucketColor(bucket),
			URL:      art.URL,
			Title:    art.Title,
			Summary:  summary,
			Keywords: keywords,
			Source:   art.Source,
		}
		if row.Source == "" {
			row.Source = "Unknown"
		}
		row.Author = art.Author
		if art.PublishedAt != nil {
			row.Date = art.PublishedAt.Format("Jan 2, 2006")
		}
		data.Rows = append(data.Rows, row)
	}

	path := filepath.Join(r.outputDir, ReportFilename(date))
	var buf strings.Builder
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	r.logger.Info("generated HTML report", "path", path, "articles", len(ranked))
	return path, nil
}

// ReportFilename returns the report file name for a date.
func ReportFilename(date time.Time) string {
	return "report_" + date.Format("2006-01-02") + ".html"
}

func bucketColor(b relevance.Bucket) string {
	switch b {
	case relevance.BucketHigh:
		return "#22c55e"
	case relevance.BucketMedium:
		return "#f59e0b"
	default:
		return "#94a3b8"
	}
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - {{.Date}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
            background: #0f172a;
            color: #e2e8f0;
            line-height: 1.6;
            padding: 20px;
        }
        .container { max-width: 1200px; margin: 0 auto; }
        header {
            text-align: center;
            padding: 40px 20px;
            background: linear-gradient(135deg, #1e293b 0%, #0f172a 100%);
            border-radius: 16px;
            margin-bottom: 30px;
            border: 1px solid #334155;
        }
        h1 {
            font-size: 2.5rem;
            margin-bottom: 10px;
            background: linear-gradient(90deg, #60a5fa, #a78bfa);
            -webkit-background-clip: text;
            -webkit-text-fill-color: transparent;
        }
        .date { color: #94a3b8; font-size: 1.1rem; }
        .stats {
            display: flex;
            justify-content: center;
            gap: 30px;
            margin-top: 20px;
            flex-wrap: wrap;
        }
        .stat {
            background: #1e293b;
            padding: 15px 25px;
            border-radius: 10px;
            border: 1px solid #334155;
        }
        .stat-value { font-size: 2rem; font-weight: bold; }
        .stat-value.high { color: #22c55e; }
        .stat-value.medium { color: #f59e0b; }
        .stat-value.low { color: #94a3b8; }
        .stat-value.total { color: #60a5fa; }
        .stat-label { color: #94a3b8; font-size: 0.9rem; }
        table {
            width: 100%;
            border-collapse: collapse;
            background: #1e293b;
            border-radius: 12px;
            overflow: hidden;
            border: 1px solid #334155;
        }
        th {
            background: #334155;
            padding: 15px;
            text-align: left;
            font-weight: 600;
            color: #e2e8f0;
        }
        td { padding: 15px; border-bottom: 1px solid #334155; vertical-align: top; }
        .rank { width: 50px; text-align: center; font-weight: bold; color: #60a5fa; }
        .score { width: 120px; }
        .score-bar {
            height: 8px;
            background: #334155;
            border-radius: 4px;
            overflow: hidden;
            margin-bottom: 5px;
        }
        .score-fill { height: 100%; border-radius: 4px; }
        .score-value { font-size: 0.9rem; font-weight: 600; }
        .title {
            color: #60a5fa;
            text-decoration: none;
            font-weight: 600;
            font-size: 1.1rem;
            display: block;
            margin-bottom: 8px;
        }
        .title:hover { color: #93c5fd; text-decoration: underline; }
        .summary { color: #94a3b8; font-size: 0.95rem; margin-bottom: 10px; }
        .keywords { display: flex; flex-wrap: wrap; gap: 6px; margin-bottom: 10px; }
        .keyword {
            background: linear-gradient(135deg, #3b82f6 0%, #8b5cf6 100%);
            color: white;
            padding: 2px 8px;
            border-radius: 12px;
            font-size: 0.75rem;
            font-weight: 500;
        }
        .meta { display: flex; gap: 15px; font-size: 0.85rem; color: #64748b; }
        .meta span { background: #0f172a; padding: 3px 10px; border-radius: 4px; }
        .article-row:hover { background: #253348; }
        .article-row.high .rank { color: #22c55e; }
        .article-row.medium .rank { color: #f59e0b; }
        footer { text-align: center; padding: 30px; color: #64748b; font-size: 0.9rem; }
        @media (max-width: 768px) {
            h1 { font-size: 1.8rem; }
            .stats { gap: 15px; }
            .stat { padding: 10px 15px; }
            .score { width: 80px; }
            td { padding: 10px; }
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>&#128276; {{.Title}}</h1>
            <p class="date">{{.Date}}</p>
            <div class="stats">
                <div class="stat">
                    <div class="stat-value total">{{.Total}}</div>
                    <div class="stat-label">Total Articles</div>
                </div>
                <div class="stat">
                    <div class="stat-value high">{{.High}}</div>
                    <div class="stat-label">High Relevance</div>
                </div>
                <div class="stat">
                    <div class="stat-value medium">{{.Medium}}</div>
                    <div class="stat-label">Medium Relevance</div>
                </div>
                <div class="stat">
                    <div class="stat-value low">{{.Low}}</div>
                    <div class="stat-label">Low Relevance</div>
                </div>
            </div>
        </header>

        <table>
            <thead>
                <tr>
                    <th>#</th>
                    <th>Relevance</th>
                    <th>Article</th>
                </tr>
            </thead>
            <tbody>
{{- range .Rows}}
                <tr class="article-row {{.Class}}">
                    <td class="rank">{{.Rank}}</td>
                    <td class="score">
                        <div class="score-bar">
                            <div class="score-fill" style="width: {{.Score}}%; background: {{.Color}};"></div>
                        </div>
                        <span class="score-value">{{.Score}}%</span>
                    </td>
                    <td class="content">
                        <a href="{{.URL}}" target="_blank" class="title">{{.Title}}</a>
                        <p class="summary">{{.Summary}}</p>
{{- if .Keywords}}
                        <div class="keywords">
{{- range .Keywords}}
                            <span class="keyword">{{.}}</span>
{{- end}}
                        </div>
{{- end}}
                        <div class="meta">
                            <span class="source">{{.Source}}</span>
{{- if .Author}}
                            <span class="author">by {{.Author}}</span>
{{- end}}
{{- if .Date}}
                            <span class="date">{{.Date}}</span>
{{- end}}
                        </div>
                    </td>
                </tr>
{{- end}}
            </tbody>
        </table>

        <footer>
            Generated by adscout at {{.GeneratedAt}}
        </footer>
    </div>
</body>
</html>
`
