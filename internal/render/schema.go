package render

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrSchemaMismatch is returned when a report lacks an expected column.
var ErrSchemaMismatch = errors.New("report does not match column schema")

// SchemaCheck verifies that the persisted report has the header columns a
// chart renderer would need. It produces no artifacts. Empty reports and
// kinds without columns pass.
func SchemaCheck() Renderer {
	return Func(func(ctx context.Context, job Job) ([]string, error) {
		if len(job.Schema.Columns) == 0 {
			return nil, nil
		}

		header, ok, err := readHeader(job.ReportPath, job.Schema.SkipRows)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}

		present := make(map[string]bool, len(header))
		for _, col := range header {
			present[col] = true
		}
		var missing []string
		for _, col := range job.Schema.Columns {
			if !present[col] {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: %s: missing %s", ErrSchemaMismatch, job.ReportPath, strings.Join(missing, ", "))
		}
		return nil, nil
	})
}

// readHeader returns the tab-separated fields of the first line after
// skipRows. ok is false when the report has no such line.
func readHeader(path string, skipRows int) ([]string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for i := 0; ; i++ {
		line, err := r.ReadString('\n')
		if line == "" && err != nil {
			return nil, false, nil
		}
		if i < skipRows {
			continue
		}
		line = strings.TrimRight(line, "\r\n")
		return strings.Split(line, "\t"), true, nil
	}
}
