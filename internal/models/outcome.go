package models

import "time"

// OutcomeState describes what happened to one requested section.
type OutcomeState string

const (
	OutcomePersisted   OutcomeState = "persisted"    // report.txt and flag.txt written
	OutcomeMissing     OutcomeState = "missing"      // title absent from the document
	OutcomeWriteFailed OutcomeState = "write_failed" // persistence failed, rendering skipped
	OutcomeCanceled    OutcomeState = "canceled"     // run interrupted before the section started
)

// SectionOutcome is the result of dispatching a single section.
type SectionOutcome struct {
	Title      string
	Kind       SectionKind
	Status     Status
	State      OutcomeState
	Dir        string
	ReportPath string
	Artifacts  []string // renderer output, absolute paths
	Lines      int
	Err        error // set for missing, write_failed and canceled
	RenderErr  error // renderer failure; does not change State
	Duration   time.Duration
}

// Succeeded reports whether the section was persisted.
func (o SectionOutcome) Succeeded() bool {
	return o.State == OutcomePersisted
}

// RunResult aggregates the outcomes of one qcreport run.
type RunResult struct {
	RunID      string
	InputPath  string
	OutputRoot string
	StartedAt  time.Time
	Duration   time.Duration
	Outcomes   []SectionOutcome
}

// Persisted returns the number of sections written to disk.
func (r *RunResult) Persisted() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

// Failed returns the number of requested sections that were not persisted.
func (r *RunResult) Failed() int {
	return len(r.Outcomes) - r.Persisted()
}

// RenderFailures returns the number of persisted sections whose renderer failed.
func (r *RunResult) RenderFailures() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() && o.RenderErr != nil {
			n++
		}
	}
	return n
}

// StatusBreakdown counts persisted sections by QC status.
func (r *RunResult) StatusBreakdown() map[Status]int {
	counts := make(map[Status]int)
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			counts[o.Status]++
		}
	}
	return counts
}
