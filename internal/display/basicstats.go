package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/harrison/qcreport/internal/models"
)

// BasicStatistics prints the Basic Statistics section as an aligned
// measure/value list. The "#Measure" header row is skipped; rows without a
// tab are printed unchanged.
func BasicStatistics(w io.Writer, rec models.SectionRecord, useColor bool) {
	title := rec.Title
	if useColor {
		title = color.New(color.Bold).Sprint(title)
	}
	status := string(rec.Status)
	if useColor {
		status = statusColor(rec.Status).Sprint(status)
	}
	fmt.Fprintf(w, "%s [%s]\n", title, status)

	type row struct{ key, value string }
	var rows []row
	width := 0
	for _, line := range rec.Content {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, _ := strings.Cut(line, "\t")
		rows = append(rows, row{key, value})
		width = max(width, runewidth.StringWidth(key))
	}

	for _, r := range rows {
		if r.value == "" {
			fmt.Fprintf(w, "  %s\n", r.key)
			continue
		}
		fmt.Fprintf(w, "  %s  %s\n", pad(r.key, width), r.value)
	}
}
