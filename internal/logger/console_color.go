package logger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/qcreport/internal/models"
)

// colorScheme defines consistent colors for QC verdicts.
// Green: pass, Red: fail, Yellow: warn, Cyan: labels.
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
	}
}

// statusColor returns the color for a section status. Unknown statuses are
// printed in the default color.
func statusColor(s models.Status) *color.Color {
	scheme := newColorScheme()
	switch s {
	case models.StatusPass:
		return scheme.success
	case models.StatusFail:
		return scheme.fail
	case models.StatusWarn:
		return scheme.warn
	default:
		return color.New(color.Reset)
	}
}

// formatStatusBreakdown renders counts as "pass: 9, warn: 2, fail: 1".
// Known statuses come first in that order, then any others sorted.
// Returns an empty string when there is nothing to report.
func formatStatusBreakdown(counts map[models.Status]int, useColor bool) string {
	if len(counts) == 0 {
		return ""
	}

	order := []models.Status{models.StatusPass, models.StatusWarn, models.StatusFail}
	var extra []models.Status
	for s := range counts {
		if !s.Valid() {
			extra = append(extra, s)
		}
	}
	slices.Sort(extra)
	order = append(order, extra...)

	var parts []string
	for _, s := range order {
		n, ok := counts[s]
		if !ok {
			continue
		}
		label := string(s)
		if useColor {
			label = statusColor(s).Sprint(label)
		}
		parts = append(parts, fmt.Sprintf("%s: %d", label, n))
	}
	return strings.Join(parts, ", ")
}
