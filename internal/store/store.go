// Package store persists section records under an output root as
// <root>/<title>/report.txt and <root>/<title>/flag.txt.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/qcreport/internal/filelock"
	"github.com/harrison/qcreport/internal/models"
)

// File names inside a section directory.
const (
	ReportFile = "report.txt"
	FlagFile   = "flag.txt"
)

var (
	// ErrWriteFailed matches every persistence failure.
	ErrWriteFailed = errors.New("section write failed")
	// ErrUnsafeTitle is returned for titles that cannot be used as a single
	// path segment.
	ErrUnsafeTitle = errors.New("title is not a safe directory name")
)

// WriteError reports a failed persistence step for one section.
type WriteError struct {
	Title string
	Path  string
	Op    string // "mkdir", "write report", "write flag", "validate title"
	Err   error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("section %q: %s %s: %v", e.Title, e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is makes every WriteError match ErrWriteFailed.
func (e *WriteError) Is(target error) bool {
	return target == ErrWriteFailed
}

// Persisted describes the files written for one section.
type Persisted struct {
	Dir        string
	ReportPath string
	FlagPath   string
}

// Store writes section records below a root directory.
type Store struct {
	root string
}

// New returns a store rooted at root. Nothing is created until Save.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the output root.
func (s *Store) Root() string {
	return s.root
}

// SectionDir returns the directory for title. Titles are used verbatim,
// spaces included, but must form exactly one path segment.
func (s *Store) SectionDir(title string) (string, error) {
	if err := validateTitle(title); err != nil {
		return "", err
	}
	return filepath.Join(s.root, title), nil
}

func validateTitle(title string) error {
	switch {
	case title == "", title == ".", title == "..":
		return fmt.Errorf("%w: %q", ErrUnsafeTitle, title)
	case strings.ContainsAny(title, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrUnsafeTitle, title)
	}
	return nil
}

// Save writes rec's content to report.txt and its status to flag.txt,
// creating the section directory if needed and replacing existing files.
// Errors are *WriteError values.
func (s *Store) Save(rec models.SectionRecord) (Persisted, error) {
	dir, err := s.SectionDir(rec.Title)
	if err != nil {
		return Persisted{}, &WriteError{Title: rec.Title, Path: s.root, Op: "validate title", Err: err}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return Persisted{}, &WriteError{Title: rec.Title, Path: dir, Op: "mkdir", Err: err}
	}

	p := Persisted{
		Dir:        dir,
		ReportPath: filepath.Join(dir, ReportFile),
		FlagPath:   filepath.Join(dir, FlagFile),
	}

	if err := filelock.AtomicWrite(p.ReportPath, []byte(rec.Report())); err != nil {
		return Persisted{}, &WriteError{Title: rec.Title, Path: p.ReportPath, Op: "write report", Err: err}
	}
	if err := filelock.AtomicWrite(p.FlagPath, []byte(rec.Status)); err != nil {
		return Persisted{}, &WriteError{Title: rec.Title, Path: p.FlagPath, Op: "write flag", Err: err}
	}

	return p, nil
}

// Load reads a persisted section back. Content is split after each "\n" so
// Report() of the returned record equals the stored file byte for byte.
func (s *Store) Load(title string) (models.SectionRecord, error) {
	dir, err := s.SectionDir(title)
	if err != nil {
		return models.SectionRecord{}, err
	}

	report, err := os.ReadFile(filepath.Join(dir, ReportFile))
	if err != nil {
		return models.SectionRecord{}, fmt.Errorf("read report for %q: %w", title, err)
	}
	flag, err := os.ReadFile(filepath.Join(dir, FlagFile))
	if err != nil {
		return models.SectionRecord{}, fmt.Errorf("read flag for %q: %w", title, err)
	}

	return models.SectionRecord{
		Title:   title,
		Status:  models.Status(flag),
		Content: splitLines(string(report)),
	}, nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
