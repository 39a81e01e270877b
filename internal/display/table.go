// Package display formats run results for the terminal.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"github.com/harrison/qcreport/internal/models"
)

const maxTitleWidth = 36

// UseColor reports whether w is a terminal that should receive color.
func UseColor(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// OutcomeTable writes one row per outcome: title, QC status, outcome
// state and artifact count, followed by any error text.
func OutcomeTable(w io.Writer, result *models.RunResult, useColor bool) {
	if result == nil || len(result.Outcomes) == 0 {
		fmt.Fprintln(w, "No sections requested.")
		return
	}

	titleWidth := runewidth.StringWidth("SECTION")
	for _, o := range result.Outcomes {
		titleWidth = max(titleWidth, runewidth.StringWidth(truncate(o.Title, maxTitleWidth)))
	}

	header := pad("SECTION", titleWidth) + "  " + pad("QC", 4) + "  " + pad("OUTCOME", 12) + "  ARTIFACTS"
	if useColor {
		header = color.New(color.Bold).Sprint(header)
	}
	fmt.Fprintln(w, header)

	for _, o := range result.Outcomes {
		status := pad(string(o.Status), 4)
		if o.Status == "" {
			status = pad("-", 4)
		}
		state := pad(string(o.State), 12)
		if useColor {
			status = statusColor(o.Status).Sprint(status)
			state = stateColor(o).Sprint(state)
		}

		fmt.Fprintf(w, "%s  %s  %s  %d\n", pad(truncate(o.Title, maxTitleWidth), titleWidth), status, state, len(o.Artifacts))

		if o.Err != nil {
			fmt.Fprintf(w, "    error: %v\n", o.Err)
		}
		if o.RenderErr != nil {
			fmt.Fprintf(w, "    render: %v\n", o.RenderErr)
		}
	}

	fmt.Fprintf(w, "\n%d of %d sections written to %s", result.Persisted(), len(result.Outcomes), result.OutputRoot)
	if n := result.RenderFailures(); n > 0 {
		fmt.Fprintf(w, " (%d render failures)", n)
	}
	fmt.Fprintln(w)
}

// Table writes rows under a bold header with columns aligned by display
// width. Cells wider than maxTitleWidth are truncated.
func Table(w io.Writer, headers []string, rows [][]string, useColor bool) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], runewidth.StringWidth(truncate(row[i], maxTitleWidth)))
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = truncate(cells[i], maxTitleWidth)
			}
			if i == len(widths)-1 {
				parts[i] = cell
			} else {
				parts[i] = pad(cell, widths[i])
			}
		}
		return strings.Join(parts, "  ")
	}

	header := line(headers)
	if useColor {
		header = color.New(color.Bold).Sprint(header)
	}
	fmt.Fprintln(w, header)
	for _, row := range rows {
		fmt.Fprintln(w, line(row))
	}
}

func statusColor(s models.Status) *color.Color {
	switch s {
	case models.StatusPass:
		return color.New(color.FgGreen)
	case models.StatusWarn:
		return color.New(color.FgYellow)
	case models.StatusFail:
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}

func stateColor(o models.SectionOutcome) *color.Color {
	switch {
	case o.State == models.OutcomeWriteFailed:
		return color.New(color.FgRed)
	case o.State == models.OutcomeMissing, o.State == models.OutcomeCanceled, o.RenderErr != nil:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

// pad right-pads s with spaces to width display columns.
func pad(s string, width int) string {
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// truncate shortens value to width display columns, ellipsis included.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
