// Package logger provides logging implementations for qcreport runs.
//
// Loggers report run progress at the section and summary levels. All
// implementations are safe for concurrent use, since the dispatcher logs
// from several goroutines.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/qcreport/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Logger is implemented by every logger in this package.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogRunStart(input string, sections int)
	LogSectionStart(title string, kind models.SectionKind)
	LogSection(outcome models.SectionOutcome)
	LogSummary(result *models.RunResult)
}

// ConsoleLogger writes run progress to a writer with [HH:MM:SS] timestamps.
// Color output is enabled automatically for os.Stdout and os.Stderr.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	progress    *ProgressBar
}

// NewConsoleLogger creates a ConsoleLogger that writes to writer.
// A nil writer discards everything. logLevel is one of trace, debug, info,
// warn or error (case-insensitive); anything else means info.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a standard stream that should get color.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// fatih/color already honours NO_COLOR and non-TTY output.
		return !color.NoColor
	}
	return false
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "error":
		return true
	}
	return false
}

// normalizeLogLevel lowercases level and falls back to "info".
func normalizeLogLevel(level string) string {
	if !ValidLevel(level) {
		return "info"
	}
	return strings.ToLower(strings.TrimSpace(level))
}

// shouldLog reports whether messageLevel passes the configured threshold.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// LogTrace logs a trace-level message.
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.write(level, message)
}

// write emits one formatted line. Callers hold the mutex.
func (cl *ConsoleLogger) write(level, message string) {
	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}
	cl.writer.Write([]byte(formatted))
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogRunStart logs the input being split and resets the progress bar.
// Format: "[HH:MM:SS] [INFO] Splitting <input>: <n> sections requested"
func (cl *ConsoleLogger) LogRunStart(input string, sections int) {
	cl.mutex.Lock()
	cl.progress = NewProgressBar(sections, 20, cl.colorOutput)
	cl.mutex.Unlock()

	cl.LogInfo(fmt.Sprintf("Splitting %s: %d sections requested", input, sections))
}

// LogSectionStart logs at DEBUG level that a section is being processed.
func (cl *ConsoleLogger) LogSectionStart(title string, kind models.SectionKind) {
	cl.LogDebug(fmt.Sprintf("Section %q (%s) started", title, kind))
}

// LogSection logs the outcome of one section. Persisted sections log at
// INFO, render failures and missing sections at WARN, write failures at
// ERROR.
// Format: "[HH:MM:SS] [INFO] <title>: persisted (<status>) <progress>"
func (cl *ConsoleLogger) LogSection(outcome models.SectionOutcome) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	if cl.progress != nil {
		cl.progress.Increment()
	}

	level := sectionLevel(outcome)
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	msg := describeOutcome(outcome, cl.colorOutput)
	if cl.progress != nil {
		msg += " " + cl.progress.Render()
	}
	cl.write(level, msg)
}

// sectionLevel maps an outcome to the level it is logged at.
func sectionLevel(o models.SectionOutcome) string {
	switch {
	case o.State == models.OutcomeWriteFailed:
		return "ERROR"
	case o.State == models.OutcomeMissing, o.RenderErr != nil:
		return "WARN"
	case o.State == models.OutcomeCanceled:
		return "DEBUG"
	default:
		return "INFO"
	}
}

// describeOutcome renders an outcome as a single line without timestamp.
func describeOutcome(o models.SectionOutcome, useColor bool) string {
	var b strings.Builder
	b.WriteString(o.Title)
	b.WriteString(": ")
	b.WriteString(string(o.State))

	if o.State == models.OutcomePersisted {
		status := string(o.Status)
		if useColor {
			status = statusColor(o.Status).Sprint(status)
		}
		fmt.Fprintf(&b, " (%s, %d lines", status, o.Lines)
		if len(o.Artifacts) > 0 {
			fmt.Fprintf(&b, ", %d artifacts", len(o.Artifacts))
		}
		b.WriteString(")")
	}
	if o.Err != nil {
		fmt.Fprintf(&b, ": %v", o.Err)
	}
	if o.RenderErr != nil {
		fmt.Fprintf(&b, " [render failed: %v]", o.RenderErr)
	}
	return b.String()
}

// LogSummary logs run totals at INFO level.
// Format: "[HH:MM:SS] === Run Summary ===" followed by one line per count.
func (cl *ConsoleLogger) LogSummary(result *models.RunResult) {
	if cl.writer == nil || result == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	scheme := newColorScheme()
	var output string

	header := "=== Run Summary ==="
	persisted := fmt.Sprintf("Persisted: %d", result.Persisted())
	failed := fmt.Sprintf("Failed: %d", result.Failed())
	if cl.colorOutput {
		header = color.New(color.Bold).Sprint(header)
		persisted = scheme.success.Sprint(persisted)
		if result.Failed() > 0 {
			failed = scheme.fail.Sprint(failed)
		}
	}

	output = fmt.Sprintf("[%s] %s\n", ts, header)
	output += fmt.Sprintf("[%s] Sections requested: %d\n", ts, len(result.Outcomes))
	output += fmt.Sprintf("[%s] %s\n", ts, persisted)
	output += fmt.Sprintf("[%s] %s\n", ts, failed)
	if n := result.RenderFailures(); n > 0 {
		output += fmt.Sprintf("[%s] Render failures: %d\n", ts, n)
	}
	if breakdown := formatStatusBreakdown(result.StatusBreakdown(), cl.colorOutput); breakdown != "" {
		output += fmt.Sprintf("[%s] QC status: %s\n", ts, breakdown)
	}
	output += fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(result.Duration))

	cl.writer.Write([]byte(output))
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a duration to a short human-readable string.
// Examples: "250ms", "5s", "1m30s"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string) {}
func (n *NoOpLogger) LogDebug(string) {}
func (n *NoOpLogger) LogInfo(string) {}
func (n *NoOpLogger) LogWarn(string) {}
func (n *NoOpLogger) LogError(string) {}
func (n *NoOpLogger) LogRunStart(string, int) {}
func (n *NoOpLogger) LogSectionStart(string, models.SectionKind) {}
func (n *NoOpLogger) LogSection(models.SectionOutcome) {}
func (n *NoOpLogger) LogSummary(*models.RunResult) {}
