package logger

import "github.com/harrison/qcreport/internal/models"

// MultiLogger forwards every call to each of its loggers in order.
type MultiLogger struct {
	loggers []Logger
}

// Multi combines loggers. Nil entries are dropped.
func Multi(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) LogTrace(message string) {
	for _, l := range m.loggers {
		l.LogTrace(message)
	}
}

func (m *MultiLogger) LogDebug(message string) {
	for _, l := range m.loggers {
		l.LogDebug(message)
	}
}

func (m *MultiLogger) LogInfo(message string) {
	for _, l := range m.loggers {
		l.LogInfo(message)
	}
}

func (m *MultiLogger) LogWarn(message string) {
	for _, l := range m.loggers {
		l.LogWarn(message)
	}
}

func (m *MultiLogger) LogError(message string) {
	for _, l := range m.loggers {
		l.LogError(message)
	}
}

func (m *MultiLogger) LogRunStart(input string, sections int) {
	for _, l := range m.loggers {
		l.LogRunStart(input, sections)
	}
}

func (m *MultiLogger) LogSectionStart(title string, kind models.SectionKind) {
	for _, l := range m.loggers {
		l.LogSectionStart(title, kind)
	}
}

func (m *MultiLogger) LogSection(outcome models.SectionOutcome) {
	for _, l := range m.loggers {
		l.LogSection(outcome)
	}
}

func (m *MultiLogger) LogSummary(result *models.RunResult) {
	for _, l := range m.loggers {
		l.LogSummary(result)
	}
}

var (
	_ Logger = (*ConsoleLogger)(nil)
	_ Logger = (*FileLogger)(nil)
	_ Logger = (*NoOpLogger)(nil)
	_ Logger = (*MultiLogger)(nil)
)
