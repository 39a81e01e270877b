// Package summary writes the run index: index.md, a Markdown table of every
// requested section, and index.html rendered from it.
package summary

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/qcreport/internal/filelock"
	"github.com/harrison/qcreport/internal/models"
)

const (
	MarkdownFile = "index.md"
	HTMLFile     = "index.html"
)

// Index holds the paths of the written index files.
type Index struct {
	MarkdownPath string
	HTMLPath     string
}

// Writer renders run indexes. The zero value is not usable; call NewWriter.
type Writer struct {
	markdown goldmark.Markdown
	now      func() time.Time
}

// NewWriter returns a Writer with GitHub-style tables enabled.
func NewWriter() *Writer {
	return &Writer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.Table)),
		now:      time.Now,
	}
}

// Write renders result and writes both index files into result.OutputRoot.
func (w *Writer) Write(result *models.RunResult) (Index, error) {
	md := w.Markdown(result)
	body, err := w.HTML(md)
	if err != nil {
		return Index{}, err
	}

	if err := os.MkdirAll(result.OutputRoot, 0755); err != nil {
		return Index{}, fmt.Errorf("create output root: %w", err)
	}

	idx := Index{
		MarkdownPath: filepath.Join(result.OutputRoot, MarkdownFile),
		HTMLPath:     filepath.Join(result.OutputRoot, HTMLFile),
	}
	if err := filelock.AtomicWrite(idx.MarkdownPath, md); err != nil {
		return Index{}, fmt.Errorf("write %s: %w", MarkdownFile, err)
	}
	if err := filelock.AtomicWrite(idx.HTMLPath, page(result, body)); err != nil {
		return Index{}, fmt.Errorf("write %s: %w", HTMLFile, err)
	}
	return idx, nil
}

// Markdown returns the index document for result. Links are relative to
// the output root.
func (w *Writer) Markdown(result *models.RunResult) []byte {
	var b bytes.Buffer

	b.WriteString("# FastQC sections\n\n")
	if result.InputPath != "" {
		fmt.Fprintf(&b, "- Input: `%s`\n", result.InputPath)
	}
	if result.RunID != "" {
		fmt.Fprintf(&b, "- Run: `%s`\n", result.RunID)
	}
	fmt.Fprintf(&b, "- Generated: %s\n", w.now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Sections written: %d of %d\n\n", result.Persisted(), len(result.Outcomes))

	if len(result.Outcomes) == 0 {
		b.WriteString("No sections were requested.\n")
		return b.Bytes()
	}

	b.WriteString("| Section | QC | Outcome | Report | Charts |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, o := range result.Outcomes {
		status := string(o.Status)
		if status == "" {
			status = "-"
		}
		outcome := string(o.State)
		if o.RenderErr != nil {
			outcome += " (render failed)"
		}

		report := "-"
		if o.Succeeded() {
			report = link("report.txt", relPath(result.OutputRoot, o.ReportPath))
		}

		var charts []string
		for _, a := range o.Artifacts {
			charts = append(charts, link(filepath.Base(a), relPath(result.OutputRoot, a)))
		}
		chartCell := "-"
		if len(charts) > 0 {
			chartCell = strings.Join(charts, ", ")
		}

		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			escapeCell(o.Title), escapeCell(status), outcome, report, chartCell)
	}
	return b.Bytes()
}

// HTML converts index Markdown to an HTML fragment.
func (w *Writer) HTML(md []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.markdown.Convert(md, &buf); err != nil {
		return nil, fmt.Errorf("render index html: %w", err)
	}
	return buf.Bytes(), nil
}

func page(result *models.RunResult, body []byte) []byte {
	title := "qcreport"
	if result.InputPath != "" {
		title += ": " + filepath.Base(filepath.Dir(result.InputPath))
	}

	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("<style>table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px}</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return b.Bytes()
}

// relPath returns target relative to root using forward slashes, or
// target unchanged when it is not below root.
func relPath(root, target string) string {
	absRoot, err1 := filepath.Abs(root)
	absTarget, err2 := filepath.Abs(target)
	if err1 != nil || err2 != nil {
		return filepath.ToSlash(target)
	}
	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

// link builds a Markdown link with each path segment URL-escaped, so
// section titles with spaces stay clickable.
func link(text, path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("[%s](%s)", escapeCell(text), strings.Join(segments, "/"))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
