// Package parser splits a FastQC text report into section records.
//
// A report is a sequence of modules:
//
//	>>Basic Statistics	pass
//	#Measure	Value
//	...
//	>>END_MODULE
//
// The parser is title-agnostic: any well-formed header opens a section,
// whether or not the title is in the registry.
package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/harrison/qcreport/internal/models"
)

const (
	markerPrefix = ">>"
	endMarker    = ">>END_MODULE"
)

// headerPattern matches a header line with its terminator removed. The
// title is the shortest run before the whitespace that precedes the status.
var headerPattern = regexp.MustCompile(`^>>\s*(.*?)\s+(pass|fail|warn)$`)

type state int

const (
	stateOutside state = iota
	stateInside
)

// Result is the output of a parse run.
type Result struct {
	Document    *models.Document
	Diagnostics []Diagnostic
	Lines       int
}

// machine is the two-state section parser. It owns the only mutable parse
// state and is discarded once the document is built.
type machine struct {
	doc     *models.Document
	state   state
	title   string
	status  models.Status
	content []string
	diags   []Diagnostic
	opened  int
}

func newMachine() *machine {
	return &machine{doc: models.NewDocument(), state: stateOutside}
}

func (m *machine) feed(lineNo int, raw string) {
	text := trimTerminator(raw)
	isEnd := text == endMarker

	switch {
	case strings.HasPrefix(raw, markerPrefix) && !isEnd:
		// A new header closes any open section, even without an end marker.
		if m.state == stateInside {
			m.flush()
		}
		match := headerPattern.FindStringSubmatch(text)
		title := ""
		if match != nil {
			title = strings.TrimSpace(match[1])
		}
		if title == "" {
			m.diags = append(m.diags, Diagnostic{Kind: DiagMalformedHeader, Line: lineNo, Text: text})
			return
		}
		m.open(lineNo, title, models.Status(match[2]))

	case isEnd && m.state == stateInside:
		m.flush()

	case m.state == stateInside:
		m.content = append(m.content, raw)
	}
}

func (m *machine) open(lineNo int, title string, status models.Status) {
	m.title = title
	m.status = status
	m.content = nil
	m.opened = lineNo
	m.state = stateInside
}

func (m *machine) flush() {
	rec := models.SectionRecord{Title: m.title, Status: m.status, Content: m.content}
	if m.doc.Put(rec) {
		m.diags = append(m.diags, Diagnostic{Kind: DiagDuplicateTitle, Line: m.opened, Title: m.title})
	}
	m.title = ""
	m.status = ""
	m.content = nil
	m.state = stateOutside
}

// finish closes a section left open at end of input.
func (m *machine) finish() {
	if m.state == stateInside {
		m.flush()
	}
}

// trimTerminator strips one trailing "\n" or "\r\n" for marker comparison.
func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// Parse drives sc to exhaustion and returns the parsed document. The
// scanner is not closed. A read error aborts the parse.
func Parse(sc *LineScanner) (*Result, error) {
	m := newMachine()
	for sc.Next() {
		m.feed(sc.LineNo(), sc.Line())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input at line %d: %w", sc.LineNo()+1, err)
	}
	m.finish()

	return &Result{
		Document:    m.doc,
		Diagnostics: m.diags,
		Lines:       sc.LineNo(),
	}, nil
}

// ParseReader parses a report from r.
func ParseReader(r io.Reader) (*Result, error) {
	return Parse(NewLineScanner(r))
}

// ParseFile opens and parses the report at path. Errors from opening the
// file wrap ErrInputNotFound.
func ParseFile(path string) (*Result, error) {
	sc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer sc.Close()

	result, err := Parse(sc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return result, nil
}
