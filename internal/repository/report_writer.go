package repository

import (
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// HTMLReportWriter renders batch results into self-contained HTML files under
// a reports directory.
type HTMLReportWriter struct {
	dir  string
	loc  *time.Location
	log  *logger.Logger
	tmpl *template.Template
}

// NewHTMLReportWriter creates a writer rooted at dir. Timestamps in file
// names and headers use loc.
func NewHTMLReportWriter(dir string, loc *time.Location, log *logger.Logger) (*HTMLReportWriter, error) {
	if loc == nil {
		loc = time.UTC
	}
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"pct":   func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
		"ratio": func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &HTMLReportWriter{dir: dir, loc: loc, log: log, tmpl: tmpl}, nil
}

// Dir returns the reports directory.
func (w *HTMLReportWriter) Dir() string {
	return w.dir
}

// Write renders one report and returns its path.
func (w *HTMLReportWriter) Write(results []models.AnalysisResult, title string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	now := time.Now()
	name := fmt.Sprintf("%s_%s.html",
		util.SanitizeFilename(strings.ReplaceAll(title, " ", "_")),
		util.FormatStampCompact(now, w.loc),
	)
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	data := struct {
		Title     string
		Generated string
		Results   []models.AnalysisResult
	}{
		Title:     title,
		Generated: util.FormatStamp(now, w.loc),
		Results:   results,
	}
	if err := w.tmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}

	w.log.Info("report written",
		logger.String("path", path),
		logger.Int("results", len(results)),
	)
	return path, nil
}

// List returns the stored reports, newest first.
func (w *HTMLReportWriter) List() ([]repository.ReportInfo, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reports dir: %w", err)
	}

	var reports []repository.ReportInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		reports = append(reports, repository.ReportInfo{
			Name:    e.Name(),
			URL:     "/reports/" + url.PathEscape(e.Name()),
			Created: info.ModTime(),
			Stamp:   util.FormatStamp(info.ModTime(), w.loc),
		})
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Created.After(reports[j].Created)
	})
	return reports, nil
}

// Clean deletes HTML reports older than the given age, or every report when
// forceAll is set. Returns the number of deleted files.
func (w *HTMLReportWriter) Clean(olderThan time.Duration, forceAll bool) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read reports dir: %w", err)
	}

	now := time.Now()
	deleted := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		path := filepath.Join(w.dir, e.Name())
		if !forceAll {
			info, err := e.Info()
			if err != nil {
				continue
			}
			if now.Sub(info.ModTime()) < olderThan {
				continue
			}
		}
		if err := os.Remove(path); err != nil {
			w.log.Warn("failed to delete report",
				logger.String("path", path),
				logger.Error(err),
			)
			continue
		}
		deleted++
	}
	return deleted, nil
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.5em; }
.generated { color: #777; margin-bottom: 1.5em; }
table { border-collapse: collapse; width: 100%; font-size: 0.9em; }
th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: right; }
th { background: #f4f4f4; }
td.sym, th.sym { text-align: left; }
.up { color: #0a7d33; }
.down { color: #c0392b; }
.advice { font-weight: 600; text-transform: capitalize; }
.patterns { font-size: 0.85em; color: #555; text-align: left; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="generated">Generated {{.Generated}} &middot; {{len .Results}} symbols</div>
<table>
<tr>
<th class="sym">Symbol</th><th>Price</th><th>Change</th><th>RSI</th>
<th>MACD</th><th>KDJ J</th><th>ADX</th><th>+DI/-DI</th>
<th>Win Rate</th><th>Advice</th><th class="sym">Patterns</th>
</tr>
{{range .Results}}
<tr>
<td class="sym">{{.Name}} ({{.Symbol}})</td>
<td>{{money .Price}}</td>
<td class="{{if ge .PriceChange 0.0}}up{{else}}down{{end}}">{{money .PriceChange}} ({{pct .PriceChangePct}})</td>
<td>{{money .Indicators.RSI}}</td>
<td>{{money .Indicators.MACD.MACD}}</td>
<td>{{money .Indicators.KDJ.J}}</td>
<td>{{money .ADX}} <small>({{.ADXSource}})</small></td>
<td>{{money .PlusDI}}/{{money .MinusDI}}</td>
<td>{{ratio .Backtest.WinRate}}</td>
<td class="advice">{{.Advice.Action}}</td>
<td class="patterns">{{range .Patterns}}{{.Name}} {{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`
