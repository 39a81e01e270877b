// Package render defines the contract between persisted sections and chart
// renderers.
//
// A renderer receives a Job pointing at a committed report.txt and the
// column schema the section is expected to carry. It may write artifacts
// into Job.Dir and returns their paths. Renderer failures are reported on
// the section outcome and never undo persistence.
package render

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/harrison/qcreport/internal/models"
	"github.com/harrison/qcreport/internal/registry"
)

// Job is the input handed to a renderer.
type Job struct {
	Kind       models.SectionKind
	Title      string
	Dir        string
	ReportPath string
	Schema     registry.Schema
	// Chart is the artifact filename expected for this kind, if any.
	Chart string
}

// ChartPath returns the absolute target path for the kind's chart, or ""
// when the kind has none.
func (j Job) ChartPath() string {
	if j.Chart == "" {
		return ""
	}
	return filepath.Join(j.Dir, j.Chart)
}

// Renderer turns a persisted section into zero or more artifacts.
type Renderer interface {
	Render(ctx context.Context, job Job) ([]string, error)
}

// Func adapts a function to Renderer.
type Func func(ctx context.Context, job Job) ([]string, error)

// Render calls f.
func (f Func) Render(ctx context.Context, job Job) ([]string, error) {
	return f(ctx, job)
}

// Table maps section kinds to renderers. Kinds without an entry are
// persisted but not rendered.
type Table map[models.SectionKind]Renderer

// Lookup returns the renderer for kind.
func (t Table) Lookup(kind models.SectionKind) (Renderer, bool) {
	r, ok := t[kind]
	return r, ok && r != nil
}

// Options selects the renderers Build wires into a table.
type Options struct {
	// SchemaCheck validates report columns for every registered kind.
	SchemaCheck bool
	// Chart renders kinds that declare a chart filename. May be nil.
	Chart Renderer
}

// Build returns the kind to renderer table for reg. A kind with several
// renderers gets them chained, schema check first.
func Build(reg *registry.Registry, opts Options) Table {
	table := make(Table)
	for _, e := range reg.Entries() {
		var chain []Renderer
		if opts.SchemaCheck {
			chain = append(chain, SchemaCheck())
		}
		if opts.Chart != nil && e.Chart != "" {
			chain = append(chain, opts.Chart)
		}
		switch len(chain) {
		case 0:
		case 1:
			table[e.Kind] = chain[0]
		default:
			table[e.Kind] = Chain(chain...)
		}
	}
	return table
}

// NewJob builds the job for a persisted section of a registered kind.
func NewJob(entry registry.Entry, dir, reportPath string) Job {
	return Job{
		Kind:       entry.Kind,
		Title:      entry.Title,
		Dir:        dir,
		ReportPath: reportPath,
		Schema:     entry.Schema,
		Chart:      entry.Chart,
	}
}

// Chain runs renderers in order and stops at the first failure. Artifacts
// produced before the failure are still returned.
func Chain(renderers ...Renderer) Renderer {
	return Func(func(ctx context.Context, job Job) ([]string, error) {
		var artifacts []string
		for i, r := range renderers {
			out, err := r.Render(ctx, job)
			artifacts = append(artifacts, out...)
			if err != nil {
				return artifacts, fmt.Errorf("renderer %d: %w", i, err)
			}
		}
		return artifacts, nil
	})
}
