// Package publish copies generated reports into a static site directory
// and regenerates its index page. The result is ready to serve from any
// static host (GitHub Pages, S3, nginx).
package publish

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

var reportNameRe = regexp.MustCompile(`^report_(\d{4}-\d{2}-\d{2})\.html$`)

// Publisher maintains the static report site.
type Publisher struct {
	outputDir string
	docsDir   string
	logger    *slog.Logger
	tmpl      *template.Template
}

func New(outputDir, docsDir string, logger *slog.Logger) *Publisher {
	return &Publisher{
		outputDir: outputDir,
		docsDir:   docsDir,
		logger:    logger.With("component", "publish"),
		tmpl:      template.Must(template.New("index").Parse(indexTemplate)),
	}
}

// Publish copies new reports from the output directory into the docs
// directory and regenerates index.html. It returns the number of
// reports copied.
func (p *Publisher) Publish() (int, error) {
	if err := os.MkdirAll(p.docsDir, 0o755); err != nil {
		return 0, fmt.Errorf("create docs dir: %w", err)
	}

	copied, err := p.copyNewReports()
	if err != nil {
		return copied, err
	}

	reports, err := p.listReports()
	if err != nil {
		return copied, err
	}
	if err := p.writeIndex(reports); err != nil {
		return copied, err
	}

	p.logger.Info("site published", "copied", copied, "reports", len(reports))
	return copied, nil
}

func (p *Publisher) copyNewReports() (int, error) {
	entries, err := os.ReadDir(p.outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read output dir: %w", err)
	}

	copied := 0
	for _, entry := range entries {
		if entry.IsDir() || !reportNameRe.MatchString(entry.Name()) {
			continue
		}
		dest := filepath.Join(p.docsDir, entry.Name())
		if _, err := os.Stat(dest); err == nil {
			continue
		}
		if err := copyFile(filepath.Join(p.outputDir, entry.Name()), dest); err != nil {
			return copied, fmt.Errorf("copy %s: %w", entry.Name(), err)
		}
		p.logger.Debug("report copied", "name", entry.Name())
		copied++
	}
	return copied, nil
}

type reportEntry struct {
	File string
	Date string
	key  string
}

// listReports returns the published reports newest first.
func (p *Publisher) listReports() ([]reportEntry, error) {
	entries, err := os.ReadDir(p.docsDir)
	if err != nil {
		return nil, fmt.Errorf("read docs dir: %w", err)
	}

	var reports []reportEntry
	for _, entry := range entries {
		m := reportNameRe.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		date, err := time.Parse("2006-01-02", m[1])
		if err != nil {
			continue
		}
		reports = append(reports, reportEntry{
			File: entry.Name(),
			Date: date.Format("January 2, 2006"),
			key:  m[1],
		})
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].key > reports[j].key })
	return reports, nil
}

func (p *Publisher) writeIndex(reports []reportEntry) error {
	data := struct {
		Reports   []reportEntry
		Count     int
		UpdatedAt string
	}{
		Reports:   reports,
		Count:     len(reports),
		UpdatedAt: time.Now().Format("January 2, 2006 at 15:04"),
	}

	var buf strings.Builder
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	path := filepath.Join(p.docsDir, "index.html")
	if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Ad Intelligence Reports</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: #0f172a;
            color: #e2e8f0;
            min-height: 100vh;
            padding: 40px 20px;
        }
        .container { max-width: 800px; margin: 0 auto; }
        header { text-align: center; margin-bottom: 40px; }
        h1 {
            font-size: 2.5rem;
            margin-bottom: 10px;
            background: linear-gradient(90deg, #60a5fa, #a78bfa);
            -webkit-background-clip: text;
            -webkit-text-fill-color: transparent;
        }
        .subtitle { color: #94a3b8; font-size: 1.1rem; }
        .reports { display: flex; flex-direction: column; gap: 15px; }
        .report-link {
            display: block;
            background: #1e293b;
            padding: 20px 25px;
            border-radius: 12px;
            text-decoration: none;
            color: #e2e8f0;
            border: 1px solid #334155;
            transition: all 0.2s;
        }
        .report-link:hover {
            background: #253348;
            border-color: #60a5fa;
            transform: translateX(5px);
        }
        .report-date { font-size: 1.2rem; font-weight: 600; color: #60a5fa; }
        .report-desc { color: #94a3b8; margin-top: 5px; }
        .stats { display: flex; justify-content: center; gap: 30px; margin: 30px 0; }
        .stat { text-align: center; }
        .stat-value { font-size: 2rem; font-weight: bold; color: #60a5fa; }
        .stat-label { color: #94a3b8; font-size: 0.9rem; }
        footer { text-align: center; margin-top: 60px; color: #64748b; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>&#128276; Ad Intelligence</h1>
            <p class="subtitle">Ad Fraud &amp; Scam Advertising Reports</p>
        </header>

        <div class="stats">
            <div class="stat">
                <div class="stat-value">{{.Count}}</div>
                <div class="stat-label">Reports</div>
            </div>
        </div>

        <div class="reports">
{{- range .Reports}}
            <a href="{{.File}}" class="report-link">
                <div class="report-date">&#128196; {{.Date}}</div>
                <div class="report-desc">Daily Intelligence Report</div>
            </a>
{{- end}}
        </div>

        <footer>
            <p>Last update: {{.UpdatedAt}}</p>
        </footer>
    </div>
</body>
</html>
`
