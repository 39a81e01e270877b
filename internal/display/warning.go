package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/qcreport/internal/parser"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Items      []string // Numbered detail lines (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning, in yellow when useColor is set.
func (w Warning) Display(out io.Writer, useColor bool) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	for i, item := range w.Items {
		fmt.Fprintf(&b, "      %d. %s\n", i+1, item)
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion: ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	if useColor {
		color.New(color.FgYellow).Fprint(out, b.String())
		return
	}
	fmt.Fprint(out, b.String())
}

// WarnDiagnostics builds a warning listing parse diagnostics for input.
// It returns false when there is nothing to report.
func WarnDiagnostics(input string, diags []parser.Diagnostic) (Warning, bool) {
	if len(diags) == 0 {
		return Warning{}, false
	}

	w := Warning{
		Title:   fmt.Sprintf("%d parse issue(s) in %s", len(diags), input),
		Message: "The affected content was skipped or replaced.",
	}
	for _, d := range diags {
		w.Items = append(w.Items, d.Error())
	}
	return w, true
}
