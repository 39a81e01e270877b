// Package registry holds the fixed table of FastQC section titles and the
// metadata the dispatcher and CLI need for each of them. It has no effect on
// parsing: the parser accepts any title.
package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/harrison/qcreport/internal/models"
)

// Section kinds. The kind is the only thing downstream code switches on.
const (
	KindBasicStatistics       models.SectionKind = "basic_statistics"
	KindPerBaseSeqQuality     models.SectionKind = "per_base_sequence_quality"
	KindPerTileSeqQuality     models.SectionKind = "per_tile_sequence_quality"
	KindPerSeqQualityScores   models.SectionKind = "per_sequence_quality_scores"
	KindPerBaseSeqContent     models.SectionKind = "per_base_sequence_content"
	KindPerSeqGCContent       models.SectionKind = "per_sequence_gc_content"
	KindPerBaseNContent       models.SectionKind = "per_base_n_content"
	KindSeqLengthDistribution models.SectionKind = "sequence_length_distribution"
	KindSeqDuplicationLevels  models.SectionKind = "sequence_duplication_levels"
	KindOverrepresentedSeqs   models.SectionKind = "overrepresented_sequences"
	KindAdapterContent        models.SectionKind = "adapter_content"
	KindKmerContent           models.SectionKind = "kmer_content"
)

// Schema describes the tab-separated table a section's report.txt holds.
type Schema struct {
	// SkipRows is the number of leading lines before the column header.
	SkipRows int
	// Columns must all appear in the header row.
	Columns []string
}

// Entry describes one recognized section.
type Entry struct {
	Title     string
	Kind      models.SectionKind
	Flag      string // long CLI flag name
	Shorthand string // single-letter CLI flag, may be empty
	Usage     string
	Schema    Schema
	// Chart is the artifact filename a renderer writes into the section
	// directory. Empty when the section has no chart.
	Chart string
}

// Registry is an immutable title/kind lookup table.
type Registry struct {
	entries []Entry
	byTitle map[string]int
	byKind  map[models.SectionKind]int
}

// New builds a registry from entries. Titles and kinds must be unique.
func New(entries []Entry) (*Registry, error) {
	r := &Registry{
		entries: slices.Clone(entries),
		byTitle: make(map[string]int, len(entries)),
		byKind:  make(map[models.SectionKind]int, len(entries)),
	}
	for i, e := range r.entries {
		if e.Title == "" {
			return nil, fmt.Errorf("entry %d: title is required", i)
		}
		if e.Kind == "" || e.Kind == models.KindUnknown {
			return nil, fmt.Errorf("entry %q: invalid kind %q", e.Title, e.Kind)
		}
		if _, dup := r.byTitle[e.Title]; dup {
			return nil, fmt.Errorf("duplicate title %q", e.Title)
		}
		if _, dup := r.byKind[e.Kind]; dup {
			return nil, fmt.Errorf("duplicate kind %q", e.Kind)
		}
		r.byTitle[e.Title] = i
		r.byKind[e.Kind] = i
	}
	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := New(fastqcEntries)
	if err != nil {
		panic(fmt.Sprintf("registry: invalid built-in table: %v", err))
	}
	return r
})

// Default returns the built-in FastQC registry.
func Default() *Registry {
	return defaultRegistry()
}

// KindFor returns the kind registered for title, or models.KindUnknown.
func (r *Registry) KindFor(title string) models.SectionKind {
	if i, ok := r.byTitle[title]; ok {
		return r.entries[i].Kind
	}
	return models.KindUnknown
}

// Lookup returns the entry for kind.
func (r *Registry) Lookup(kind models.SectionKind) (Entry, bool) {
	i, ok := r.byKind[kind]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// LookupTitle returns the entry registered under title.
func (r *Registry) LookupTitle(title string) (Entry, bool) {
	i, ok := r.byTitle[title]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Entries returns all entries in registry order.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.entries)
}

// Kinds returns all kinds in registry order.
func (r *Registry) Kinds() []models.SectionKind {
	kinds := make([]models.SectionKind, len(r.entries))
	for i, e := range r.entries {
		kinds[i] = e.Kind
	}
	return kinds
}

// ParseKind resolves a kind tag or a flag name to a kind.
func (r *Registry) ParseKind(s string) (models.SectionKind, error) {
	if _, ok := r.byKind[models.SectionKind(s)]; ok {
		return models.SectionKind(s), nil
	}
	for _, e := range r.entries {
		if e.Flag == s {
			return e.Kind, nil
		}
	}
	return models.KindUnknown, fmt.Errorf("unknown section kind %q", s)
}
