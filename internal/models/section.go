package models

import (
	"slices"
	"strings"
)

// Status is the QC verdict carried on a section header line.
type Status string

// Section status values emitted by FastQC.
const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn"
)

// Valid reports whether s is one of pass, fail or warn.
// Unrecognized values are kept as-is by the parser, so callers that care
// about the enumeration must check explicitly.
func (s Status) Valid() bool {
	switch s {
	case StatusPass, StatusFail, StatusWarn:
		return true
	default:
		return false
	}
}

// String returns the raw status text.
func (s Status) String() string {
	return string(s)
}

// SectionKind tags a section so the dispatcher can pick a renderer.
type SectionKind string

// KindUnknown is returned for titles that are not in the registry.
const KindUnknown SectionKind = "unknown"

// SectionRecord is one parsed section of a QC report.
type SectionRecord struct {
	Title  string
	Status Status
	// Content holds the raw lines between the header and the end marker,
	// each with its original line terminator.
	Content []string
}

// Report returns the section content exactly as it appeared in the input.
func (r SectionRecord) Report() string {
	return strings.Join(r.Content, "")
}

// LineCount returns the number of content lines.
func (r SectionRecord) LineCount() int {
	return len(r.Content)
}

// Document maps section titles to their records.
// It is filled by the parser and treated as read-only afterwards.
type Document struct {
	sections map[string]SectionRecord
	order    []string
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{sections: make(map[string]SectionRecord)}
}

// Put stores rec under its title, replacing any earlier record with the
// same title. It reports whether a record was replaced.
func (d *Document) Put(rec SectionRecord) bool {
	rec.Content = slices.Clone(rec.Content)
	_, replaced := d.sections[rec.Title]
	if !replaced {
		d.order = append(d.order, rec.Title)
	}
	d.sections[rec.Title] = rec
	return replaced
}

// Get looks up a record by exact title.
func (d *Document) Get(title string) (SectionRecord, bool) {
	rec, ok := d.sections[title]
	if !ok {
		return SectionRecord{}, false
	}
	rec.Content = slices.Clone(rec.Content)
	return rec, true
}

// Has reports whether the document contains title.
func (d *Document) Has(title string) bool {
	_, ok := d.sections[title]
	return ok
}

// Titles returns section titles in the order they first appeared.
func (d *Document) Titles() []string {
	return slices.Clone(d.order)
}

// Len returns the number of distinct sections.
func (d *Document) Len() int {
	return len(d.sections)
}
