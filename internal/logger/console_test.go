package logger

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harrison/qcreport/internal/models"
)

var timestampPrefix = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] `)

func TestNewConsoleLogger(t *testing.T) {
	t.Run("with valid writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "DEBUG")
		if logger.writer != buf {
			t.Error("writer not set correctly")
		}
		if logger.logLevel != "debug" {
			t.Errorf("expected log level %q, got %q", "debug", logger.logLevel)
		}
		if logger.colorOutput {
			t.Error("expected no color for a buffer")
		}
	})

	t.Run("with nil writer", func(t *testing.T) {
		logger := NewConsoleLogger(nil, "info")
		logger.LogInfo("dropped")
		logger.LogSection(models.SectionOutcome{Title: "x", State: models.OutcomePersisted})
		logger.LogSummary(&models.RunResult{})
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		logger := NewConsoleLogger(&bytes.Buffer{}, "verbose")
		if logger.logLevel != "info" {
			t.Errorf("expected info, got %q", logger.logLevel)
		}
	})
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{"trace", []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{"debug", []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{"info", []string{"INFO", "WARN", "ERROR"}},
		{"warn", []string{"WARN", "ERROR"}},
		{"error", []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, tt.level)
			logger.LogTrace("m")
			logger.LogDebug("m")
			logger.LogInfo("m")
			logger.LogWarn("m")
			logger.LogError("m")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("expected %d lines, got %d: %q", len(tt.want), len(lines), buf.String())
			}
			for i, line := range lines {
				if !timestampPrefix.MatchString(line) {
					t.Errorf("line %q missing timestamp", line)
				}
				if !strings.Contains(line, "["+tt.want[i]+"] m") {
					t.Errorf("line %q, want level %s", line, tt.want[i])
				}
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	for _, level := range []string{"trace", "DEBUG", " info ", "Warn", "error"} {
		if !ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = false", level)
		}
	}
	for _, level := range []string{"", "verbose", "fatal"} {
		if ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = true", level)
		}
	}
}

func TestLogSection(t *testing.T) {
	tests := []struct {
		name     string
		outcome  models.SectionOutcome
		level    string
		contains []string
	}{
		{
			name: "persisted",
			outcome: models.SectionOutcome{
				Title: "Adapter Content", State: models.OutcomePersisted,
				Status: models.StatusWarn, Lines: 40, Artifacts: []string{"/out/a.png"},
			},
			level:    "[INFO]",
			contains: []string{"Adapter Content: persisted (warn, 40 lines, 1 artifacts)"},
		},
		{
			name: "missing",
			outcome: models.SectionOutcome{
				Title: "Kmer Content", State: models.OutcomeMissing, Err: errors.New("not found"),
			},
			level:    "[WARN]",
			contains: []string{"Kmer Content: missing: not found"},
		},
		{
			name: "write failed",
			outcome: models.SectionOutcome{
				Title: "Basic Statistics", State: models.OutcomeWriteFailed, Err: errors.New("disk full"),
			},
			level:    "[ERROR]",
			contains: []string{"Basic Statistics: write_failed: disk full"},
		},
		{
			name: "render failed",
			outcome: models.SectionOutcome{
				Title: "Per base N content", State: models.OutcomePersisted,
				Status: models.StatusPass, Lines: 3, RenderErr: errors.New("exit status 1"),
			},
			level:    "[WARN]",
			contains: []string{"(pass, 3 lines)", "[render failed: exit status 1]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, "info")
			logger.LogSection(tt.outcome)

			out := buf.String()
			if !strings.Contains(out, tt.level) {
				t.Errorf("expected level %s in %q", tt.level, out)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in %q", want, out)
				}
			}
		})
	}
}

func TestLogSection_CanceledOnlyAtDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")
	logger.LogSection(models.SectionOutcome{Title: "x", State: models.OutcomeCanceled})
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLogRunStartProgress(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")
	logger.LogRunStart("fastqc_data.txt", 2)
	logger.LogSection(models.SectionOutcome{Title: "A", State: models.OutcomePersisted, Status: models.StatusPass})
	logger.LogSection(models.SectionOutcome{Title: "B", State: models.OutcomePersisted, Status: models.StatusPass})

	out := buf.String()
	for _, want := range []string{
		"Splitting fastqc_data.txt: 2 sections requested",
		"1/2",
		"[====================] 2/2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestLogSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")
	logger.LogSummary(&models.RunResult{
		Duration: 1500 * time.Millisecond,
		Outcomes: []models.SectionOutcome{
			{Title: "A", State: models.OutcomePersisted, Status: models.StatusPass},
			{Title: "B", State: models.OutcomePersisted, Status: models.StatusFail, RenderErr: errors.New("x")},
			{Title: "C", State: models.OutcomeMissing},
		},
	})

	out := buf.String()
	for _, want := range []string{
		"=== Run Summary ===",
		"Sections requested: 3",
		"Persisted: 2",
		"Failed: 1",
		"Render failures: 1",
		"QC status: pass: 1, fail: 1",
		"Duration: 1s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in summary:\n%s", want, out)
		}
	}
}

func TestLogSummary_FilteredAtWarn(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "warn").LogSummary(&models.RunResult{})
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestConcurrentLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")
	logger.LogRunStart("in", 50)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.LogSection(models.SectionOutcome{Title: "s", State: models.OutcomePersisted, Status: models.StatusPass})
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 51 {
		t.Fatalf("expected 51 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !timestampPrefix.MatchString(line) {
			t.Errorf("interleaved line: %q", line)
		}
	}
	if !strings.Contains(buf.String(), "50/50") {
		t.Error("expected final progress 50/50")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{2 * time.Minute, "2m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatStatusBreakdown(t *testing.T) {
	counts := map[models.Status]int{
		models.StatusFail: 1,
		"weird":           2,
		models.StatusPass: 9,
	}
	got := formatStatusBreakdown(counts, false)
	want := "pass: 9, fail: 1, weird: 2"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if formatStatusBreakdown(nil, false) != "" {
		t.Error("expected empty breakdown")
	}
}

func TestProgressBar(t *testing.T) {
	pb := NewProgressBar(4, 8, false)
	if got := pb.Render(); got != "[        ] 0/4" {
		t.Errorf("got %q", got)
	}
	pb.Increment()
	pb.Increment()
	if pb.Percentage() != 50 {
		t.Errorf("expected 50%%, got %d", pb.Percentage())
	}
	if got := pb.Render(); got != "[====    ] 2/4" {
		t.Errorf("got %q", got)
	}
	for i := 0; i < 5; i++ {
		pb.Increment()
	}
	if pb.Percentage() != 100 {
		t.Errorf("expected clamp to 100, got %d", pb.Percentage())
	}
	if NewProgressBar(0, 0, false).Percentage() != 0 {
		t.Error("zero total should be 0%")
	}
}
