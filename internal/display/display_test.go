package display

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/qcreport/internal/models"
	"github.com/harrison/qcreport/internal/parser"
)

func TestOutcomeTable(t *testing.T) {
	result := &models.RunResult{
		OutputRoot: "/out",
		Outcomes: []models.SectionOutcome{
			{Title: "Basic Statistics", Status: models.StatusPass, State: models.OutcomePersisted},
			{Title: "Adapter Content", Status: models.StatusWarn, State: models.OutcomePersisted,
				Artifacts: []string{"a.png"}, RenderErr: errors.New("exit status 2")},
			{Title: "Kmer Content", State: models.OutcomeMissing, Err: errors.New("section not found in report")},
		},
	}

	var buf bytes.Buffer
	OutcomeTable(&buf, result, false)
	out := buf.String()
	lines := strings.Split(out, "\n")

	require.GreaterOrEqual(t, len(lines), 6)
	assert.True(t, strings.HasPrefix(lines[0], "SECTION           "), "header padded to the longest title: %q", lines[0])
	assert.Equal(t, "Basic Statistics  pass  persisted     0", lines[1])
	assert.Equal(t, "Adapter Content   warn  persisted     1", lines[2])
	assert.Equal(t, "    render: exit status 2", lines[3])
	assert.Equal(t, "Kmer Content      -     missing       0", lines[4])
	assert.Contains(t, out, "    error: section not found in report")
	assert.Contains(t, out, "2 of 3 sections written to /out (1 render failures)")
	assert.NotContains(t, out, "\x1b[")
}

func TestOutcomeTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	OutcomeTable(&buf, &models.RunResult{}, false)
	assert.Equal(t, "No sections requested.\n", buf.String())
}

func TestOutcomeTable_WideTitles(t *testing.T) {
	result := &models.RunResult{Outcomes: []models.SectionOutcome{
		{Title: "配列品質", Status: models.StatusPass, State: models.OutcomePersisted},
		{Title: strings.Repeat("x", 60), Status: models.StatusFail, State: models.OutcomePersisted},
	}}

	var buf bytes.Buffer
	OutcomeTable(&buf, result, false)
	lines := strings.Split(buf.String(), "\n")

	// Eight display columns of CJK text padded to the truncated width.
	assert.True(t, strings.HasPrefix(lines[1], "配列品質"+strings.Repeat(" ", maxTitleWidth-8)+"  pass"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], strings.Repeat("x", maxTitleWidth-3)+"..."), lines[2])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "abcdef", truncate("abcdef", 0))
}

func TestUseColor(t *testing.T) {
	assert.False(t, UseColor(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, UseColor(f), "regular files are not terminals")
}

func TestBasicStatistics(t *testing.T) {
	rec := models.SectionRecord{
		Title:  "Basic Statistics",
		Status: models.StatusPass,
		Content: []string{
			"#Measure\tValue\n",
			"Filename\tsample.fastq\n",
			"Total Sequences\t250000\r\n",
			"%GC\t47\n",
			"free text\n",
		},
	}

	var buf bytes.Buffer
	BasicStatistics(&buf, rec, false)

	want := "Basic Statistics [pass]\n" +
		"  Filename         sample.fastq\n" +
		"  Total Sequences  250000\n" +
		"  %GC              47\n" +
		"  free text\n"
	assert.Equal(t, want, buf.String())
}

func TestWarning_Display(t *testing.T) {
	w := Warning{
		Title:      "Something off",
		Message:    "details",
		Items:      []string{"one", "two"},
		Suggestion: "fix it",
	}

	var buf bytes.Buffer
	w.Display(&buf, false)
	assert.Equal(t, "Warning: Something off\n    details\n      1. one\n      2. two\n    Suggestion: fix it\n", buf.String())
}

func TestWarnDiagnostics(t *testing.T) {
	_, ok := WarnDiagnostics("in.txt", nil)
	assert.False(t, ok)

	w, ok := WarnDiagnostics("in.txt", []parser.Diagnostic{
		{Kind: parser.DiagMalformedHeader, Line: 3, Text: ">>Broken"},
		{Kind: parser.DiagDuplicateTitle, Line: 9, Title: "Kmer Content"},
	})
	require.True(t, ok)
	assert.Equal(t, "2 parse issue(s) in in.txt", w.Title)
	require.Len(t, w.Items, 2)
	assert.Contains(t, w.Items[0], "line 3")
	assert.Contains(t, w.Items[1], "Kmer Content")
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"TITLE", "KIND", "FLAG"}, [][]string{
		{"Basic Statistics", "basic_statistics", "--basic-stats"},
		{"Kmer Content", "kmer_content", "-k, --kmer-content"},
		{"short row"},
	}, false)

	want := "TITLE             KIND              FLAG\n" +
		"Basic Statistics  basic_statistics  --basic-stats\n" +
		"Kmer Content      kmer_content      -k, --kmer-content\n" +
		"short row                           \n"
	assert.Equal(t, want, buf.String())
}
