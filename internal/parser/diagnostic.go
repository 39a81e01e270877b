package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHeader marks a ">>" line that is neither an end marker nor
	// a valid "title<whitespace>status" header.
	ErrMalformedHeader = errors.New("malformed section header")
	// ErrDuplicateTitle marks a section that replaced an earlier one with
	// the same title.
	ErrDuplicateTitle = errors.New("duplicate section title")
)

// DiagnosticKind classifies a non-fatal parse finding.
type DiagnosticKind int

const (
	// DiagMalformedHeader is reported for headers that do not match the
	// expected pattern. Content after it is dropped until the next header.
	DiagMalformedHeader DiagnosticKind = iota
	// DiagDuplicateTitle is reported when a later section overwrites an
	// earlier one.
	DiagDuplicateTitle
)

// String returns the diagnostic kind name.
func (k DiagnosticKind) String() string {
	switch k {
	case DiagMalformedHeader:
		return "malformed_header"
	case DiagDuplicateTitle:
		return "duplicate_title"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal finding produced while parsing.
type Diagnostic struct {
	Kind  DiagnosticKind
	Line  int    // 1-based input line
	Title string // section title, for DiagDuplicateTitle
	Text  string // offending line without terminator, for DiagMalformedHeader
}

// Error implements error so diagnostics can be logged and matched with
// errors.Is against ErrMalformedHeader or ErrDuplicateTitle.
func (d Diagnostic) Error() string {
	switch d.Kind {
	case DiagDuplicateTitle:
		return fmt.Sprintf("line %d: %v: %q replaces an earlier section", d.Line, ErrDuplicateTitle, d.Title)
	default:
		return fmt.Sprintf("line %d: %v: %q", d.Line, ErrMalformedHeader, d.Text)
	}
}

// Unwrap returns the sentinel error for the diagnostic kind.
func (d Diagnostic) Unwrap() error {
	if d.Kind == DiagDuplicateTitle {
		return ErrDuplicateTitle
	}
	return ErrMalformedHeader
}
