package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInputNotFound is returned when the input report cannot be opened.
// It is the only error that aborts a run.
var ErrInputNotFound = errors.New("input not found")

// LineScanner yields the lines of one input source exactly once.
//
// Unlike bufio.Scanner it keeps line terminators and has no maximum line
// length, so the concatenation of all lines equals the input byte for byte.
type LineScanner struct {
	r      *bufio.Reader
	closer io.Closer
	line   string
	lineNo int
	err    error
	done   bool
}

// NewLineScanner returns a scanner reading from r.
func NewLineScanner(r io.Reader) *LineScanner {
	s := &LineScanner{r: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Open opens path for scanning. Any failure to open the file, including
// path being a directory, is reported as ErrInputNotFound.
func Open(path string) (*LineScanner, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInputNotFound, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInputNotFound, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInputNotFound, path, err)
	}
	return NewLineScanner(file), nil
}

// Next advances to the next line. It returns false at end of input or on a
// read error; Err distinguishes the two. Once Next has returned false it
// keeps returning false.
func (s *LineScanner) Next() bool {
	if s.done {
		return false
	}

	line, err := s.r.ReadString('\n')
	if err != nil {
		s.done = true
		if !errors.Is(err, io.EOF) {
			s.err = err
			s.line = ""
			return false
		}
	}
	if line == "" {
		s.line = ""
		return false
	}

	s.line = line
	s.lineNo++
	return true
}

// Line returns the current line including its terminator, if any.
func (s *LineScanner) Line() string {
	return s.line
}

// LineNo returns the 1-based number of the current line.
func (s *LineScanner) LineNo() int {
	return s.lineNo
}

// Err returns the first non-EOF read error.
func (s *LineScanner) Err() error {
	return s.err
}

// Close releases the underlying source when it is closable.
func (s *LineScanner) Close() error {
	s.done = true
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
