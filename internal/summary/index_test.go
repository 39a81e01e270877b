package summary

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/qcreport/internal/models"
)

func fixedWriter() *Writer {
	w := NewWriter()
	w.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return w
}

func sampleResult(root string) *models.RunResult {
	dir := filepath.Join(root, "Adapter Content")
	return &models.RunResult{
		RunID:      "run-1",
		InputPath:  "/data/sample_fastqc/fastqc_data.txt",
		OutputRoot: root,
		Outcomes: []models.SectionOutcome{
			{
				Title: "Adapter Content", Status: models.StatusWarn, State: models.OutcomePersisted,
				Dir: dir, ReportPath: filepath.Join(dir, "report.txt"),
				Artifacts: []string{filepath.Join(dir, "adapter_content_plot.png")},
			},
			{
				Title: "Odd | Title", Status: models.StatusPass, State: models.OutcomePersisted,
				ReportPath: filepath.Join(root, "Odd | Title", "report.txt"),
				RenderErr:  errors.New("boom"),
			},
			{Title: "Kmer Content", State: models.OutcomeMissing},
		},
	}
}

func TestMarkdown(t *testing.T) {
	root := t.TempDir()
	md := string(fixedWriter().Markdown(sampleResult(root)))

	assert.Contains(t, md, "# FastQC sections\n")
	assert.Contains(t, md, "- Input: `/data/sample_fastqc/fastqc_data.txt`")
	assert.Contains(t, md, "- Run: `run-1`")
	assert.Contains(t, md, "- Generated: 2026-03-01T12:00:00Z")
	assert.Contains(t, md, "- Sections written: 2 of 3")
	assert.Contains(t, md,
		"| Adapter Content | warn | persisted | [report.txt](Adapter%20Content/report.txt) | [adapter_content_plot.png](Adapter%20Content/adapter_content_plot.png) |")
	assert.Contains(t, md, `| Odd \| Title | pass | persisted (render failed) |`)
	assert.Contains(t, md, "| Kmer Content | - | missing | - | - |")
}

func TestMarkdown_NoOutcomes(t *testing.T) {
	md := string(fixedWriter().Markdown(&models.RunResult{OutputRoot: t.TempDir()}))
	assert.Contains(t, md, "No sections were requested.")
	assert.NotContains(t, md, "|---|")
}

func TestHTML_RendersTable(t *testing.T) {
	w := fixedWriter()
	body, err := w.HTML(w.Markdown(sampleResult(t.TempDir())))
	require.NoError(t, err)

	html := string(body)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<th>Section</th>")
	assert.Contains(t, html, `<a href="Adapter%20Content/report.txt">report.txt</a>`)
	assert.Contains(t, html, "<td>Odd | Title</td>")
}

func TestWrite(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	idx, err := fixedWriter().Write(sampleResult(root))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, MarkdownFile), idx.MarkdownPath)
	assert.Equal(t, filepath.Join(root, HTMLFile), idx.HTMLPath)

	md, err := os.ReadFile(idx.MarkdownPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(md), "# FastQC sections"))

	page, err := os.ReadFile(idx.HTMLPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(page), "<!DOCTYPE html>"))
	assert.Contains(t, string(page), "<title>qcreport: sample_fastqc</title>")
	assert.Contains(t, string(page), "<table>")
}

func TestRelPath(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, "A B/report.txt", relPath(root, filepath.Join(root, "A B", "report.txt")))
	outside := filepath.Join(filepath.Dir(root), "elsewhere.png")
	assert.Equal(t, filepath.ToSlash(outside), relPath(root, outside))
}
