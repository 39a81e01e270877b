// Package dispatch persists and renders the sections a caller asks for.
//
// Each requested section is handled independently: a missing section, a
// failed write or a failed renderer is recorded on that section's outcome
// and never stops the others. Sections own distinct directories, so the
// dispatcher runs them in parallel up to Options.MaxConcurrency.
package dispatch

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harrison/qcreport/internal/fileutil"
	"github.com/harrison/qcreport/internal/models"
	"github.com/harrison/qcreport/internal/registry"
	"github.com/harrison/qcreport/internal/render"
	"github.com/harrison/qcreport/internal/store"
)

// Logger receives per-section progress.
type Logger interface {
	LogSectionStart(title string, kind models.SectionKind)
	LogSection(outcome models.SectionOutcome)
}

// Request selects sections. All, Kinds and Titles are combined; each title
// is dispatched at most once, in the order it was first selected.
type Request struct {
	// All selects every registered section in registry order.
	All bool
	// Kinds selects registered sections by kind.
	Kinds []models.SectionKind
	// Titles selects sections by exact title, registered or not.
	Titles []string
}

// Empty reports whether the request selects nothing.
func (r Request) Empty() bool {
	return !r.All && len(r.Kinds) == 0 && len(r.Titles) == 0
}

// Options tunes a Dispatcher.
type Options struct {
	// MaxConcurrency bounds parallel sections. 0 means GOMAXPROCS.
	MaxConcurrency int
}

// Dispatcher routes parsed sections to the store and the renderers.
type Dispatcher struct {
	store     *store.Store
	renderers render.Table
	registry  *registry.Registry
	logger    Logger
	opts      Options
}

// New creates a Dispatcher. renderers and logger may be nil.
func New(st *store.Store, renderers render.Table, reg *registry.Registry, logger Logger, opts Options) *Dispatcher {
	if reg == nil {
		reg = registry.Default()
	}
	return &Dispatcher{
		store:     st,
		renderers: renderers,
		registry:  reg,
		logger:    logger,
		opts:      opts,
	}
}

type target struct {
	title string
	entry registry.Entry
	known bool
}

// resolve expands req into an ordered, duplicate-free list of targets.
func (d *Dispatcher) resolve(req Request) ([]target, error) {
	var targets []target
	seen := make(map[string]bool)

	add := func(title string) {
		if seen[title] {
			return
		}
		seen[title] = true
		entry, ok := d.registry.LookupTitle(title)
		targets = append(targets, target{title: title, entry: entry, known: ok})
	}

	if req.All {
		for _, e := range d.registry.Entries() {
			add(e.Title)
		}
	}
	for _, kind := range req.Kinds {
		e, ok := d.registry.Lookup(kind)
		if !ok {
			return nil, fmt.Errorf("unknown section kind %q", kind)
		}
		add(e.Title)
	}
	for _, title := range req.Titles {
		add(title)
	}
	return targets, nil
}

// Titles returns the titles req selects, in dispatch order.
func (d *Dispatcher) Titles(req Request) ([]string, error) {
	targets, err := d.resolve(req)
	if err != nil {
		return nil, err
	}
	titles := make([]string, len(targets))
	for i, t := range targets {
		titles[i] = t.title
	}
	return titles, nil
}

// Dispatch processes the requested sections of doc and returns one outcome
// per section in request order. The only error is an invalid request; all
// per-section failures are reported through the outcomes.
func (d *Dispatcher) Dispatch(ctx context.Context, doc *models.Document, req Request) (*models.RunResult, error) {
	targets, err := d.resolve(req)
	if err != nil {
		return nil, err
	}

	result := &models.RunResult{
		OutputRoot: d.store.Root(),
		StartedAt:  time.Now(),
		Outcomes:   make([]models.SectionOutcome, len(targets)),
	}

	limit := d.opts.MaxConcurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, t := range targets {
		if ctx.Err() != nil {
			result.Outcomes[i] = d.skip(t, ctx.Err())
			continue
		}
		g.Go(func() error {
			result.Outcomes[i] = d.dispatchOne(ctx, doc, t)
			return nil
		})
	}
	_ = g.Wait()

	result.Duration = time.Since(result.StartedAt)
	return result, nil
}

// skip records a section that was never started because ctx ended.
func (d *Dispatcher) skip(t target, err error) models.SectionOutcome {
	outcome := models.SectionOutcome{
		Title: t.title,
		Kind:  kindOf(t),
		State: models.OutcomeCanceled,
		Err:   err,
	}
	if d.logger != nil {
		d.logger.LogSection(outcome)
	}
	return outcome
}

func kindOf(t target) models.SectionKind {
	if !t.known {
		return models.KindUnknown
	}
	return t.entry.Kind
}

func (d *Dispatcher) dispatchOne(ctx context.Context, doc *models.Document, t target) (outcome models.SectionOutcome) {
	if err := ctx.Err(); err != nil {
		return d.skip(t, err)
	}

	start := time.Now()
	outcome = models.SectionOutcome{Title: t.title, Kind: kindOf(t)}
	if d.logger != nil {
		d.logger.LogSectionStart(t.title, outcome.Kind)
	}
	defer func() {
		outcome.Duration = time.Since(start)
		if d.logger != nil {
			d.logger.LogSection(outcome)
		}
	}()

	rec, ok := doc.Get(t.title)
	if !ok {
		outcome.State = models.OutcomeMissing
		outcome.Err = fmt.Errorf("%w: %q", ErrMissingSection, t.title)
		return outcome
	}
	outcome.Status = rec.Status
	outcome.Lines = rec.LineCount()

	persisted, err := d.store.Save(rec)
	if err != nil {
		outcome.State = models.OutcomeWriteFailed
		outcome.Err = err
		return outcome
	}
	outcome.State = models.OutcomePersisted
	outcome.Dir = persisted.Dir
	outcome.ReportPath = persisted.ReportPath

	var rendered []string
	if t.known {
		if r, ok := d.renderers.Lookup(t.entry.Kind); ok {
			job := render.NewJob(t.entry, persisted.Dir, persisted.ReportPath)
			rendered, outcome.RenderErr = r.Render(ctx, job)
		}
	}

	found, err := fileutil.FindArtifacts(persisted.Dir)
	if err != nil && outcome.RenderErr == nil {
		outcome.RenderErr = fmt.Errorf("scan artifacts: %w", err)
	}
	outcome.Artifacts = mergeArtifacts(rendered, found)
	return outcome
}

// mergeArtifacts returns the sorted union of renderer-reported and
// discovered artifact paths, made absolute.
func mergeArtifacts(lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		for _, p := range list {
			if abs, err := filepath.Abs(p); err == nil {
				p = abs
			}
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
