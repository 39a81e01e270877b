package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrNoArtifact is returned when a chart command exits cleanly but does
// not produce the expected file.
var ErrNoArtifact = errors.New("renderer produced no artifact")

// Command runs an external plotting program for each job:
//
//	argv[0] argv[1:]... <kind> <report path> <chart path>
//
// Jobs without a chart filename are skipped. Timeout bounds each run; zero
// means no limit beyond ctx.
type Command struct {
	Argv    []string
	Timeout time.Duration
}

// Render implements Renderer.
func (c Command) Render(ctx context.Context, job Job) ([]string, error) {
	if len(c.Argv) == 0 {
		return nil, errors.New("renderer command is empty")
	}
	chart := job.ChartPath()
	if chart == "" {
		return nil, nil
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, c.Argv[1:]...), string(job.Kind), job.ReportPath, chart)
	cmd := exec.CommandContext(ctx, c.Argv[0], args...)
	cmd.Dir = job.Dir
	cmd.WaitDelay = time.Second
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", c.Argv[0], ctx.Err())
		}
		if msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", c.Argv[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", c.Argv[0], err)
	}

	if _, err := os.Stat(chart); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoArtifact, chart)
	}
	return []string{chart}, nil
}
