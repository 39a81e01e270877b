package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/qcreport/internal/models"
)

// DefaultLogDir is where run logs go when no directory is configured.
var DefaultLogDir = filepath.Join(".qcreport", "logs")

// FileLogger writes one timestamped log file per run and keeps a
// latest.log symlink pointing at the most recent one. Output is never
// colored.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger in DefaultLogDir at level info.
func NewFileLogger() (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(DefaultLogDir, "info")
}

// NewFileLoggerWithDirAndLevel creates a FileLogger writing
// run-YYYYMMDD-HHMMSS.log inside logDir.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	stamp := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", stamp))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	fl.writeRunLog("=== qcreport Run Log ===\n")
	fl.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return fl, nil
}

// Path returns the run log file path.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message.
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), level, message))
}

// LogRunStart records the input file and number of requested sections.
func (fl *FileLogger) LogRunStart(input string, sections int) {
	fl.LogInfo(fmt.Sprintf("Input: %s (%d sections requested)", input, sections))
}

// LogSectionStart records that a section is being processed.
func (fl *FileLogger) LogSectionStart(title string, kind models.SectionKind) {
	fl.LogDebug(fmt.Sprintf("Section %q (%s) started", title, kind))
}

// LogSection records a section outcome, including its directory and every
// artifact path.
func (fl *FileLogger) LogSection(outcome models.SectionOutcome) {
	level := sectionLevel(outcome)
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}

	var b strings.Builder
	b.WriteString(describeOutcome(outcome, false))
	fmt.Fprintf(&b, " in %s", formatDuration(outcome.Duration))
	if outcome.Dir != "" {
		fmt.Fprintf(&b, "\n    dir: %s", outcome.Dir)
	}
	for _, a := range outcome.Artifacts {
		fmt.Fprintf(&b, "\n    artifact: %s", a)
	}
	fl.logWithLevel(level, b.String())
}

// LogSummary writes the run totals and the list of failed sections.
func (fl *FileLogger) LogSummary(result *models.RunResult) {
	if result == nil || !fl.shouldLog("info") {
		return
	}

	var b strings.Builder
	b.WriteString("\n=== Run Summary ===\n")
	if result.RunID != "" {
		fmt.Fprintf(&b, "Run ID: %s\n", result.RunID)
	}
	fmt.Fprintf(&b, "Output root: %s\n", result.OutputRoot)
	fmt.Fprintf(&b, "Sections requested: %d\n", len(result.Outcomes))
	fmt.Fprintf(&b, "Persisted: %d\n", result.Persisted())
	fmt.Fprintf(&b, "Failed: %d\n", result.Failed())
	fmt.Fprintf(&b, "Render failures: %d\n", result.RenderFailures())
	if breakdown := formatStatusBreakdown(result.StatusBreakdown(), false); breakdown != "" {
		fmt.Fprintf(&b, "QC status: %s\n", breakdown)
	}
	fmt.Fprintf(&b, "Duration: %s\n", formatDuration(result.Duration))

	if result.Failed() > 0 {
		b.WriteString("Failed sections:\n")
		for _, o := range result.Outcomes {
			if !o.Succeeded() {
				fmt.Fprintf(&b, "  - %s: %s\n", o.Title, o.State)
			}
		}
	}
	fl.writeRunLog(b.String())
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
