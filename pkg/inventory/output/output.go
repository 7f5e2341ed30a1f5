// Package output renders journaled runs in the formats offered by the
// history command (table, tsv, json, yaml and Go templates).
//
// Formatters are looked up by name in a registry:
//
//	f, err := output.Get("yaml")
//	if err != nil {
//	    return err
//	}
//	err = f.Format(os.Stdout, output.FromRecords(records))
package output

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/siudek-family/media-project/pkg/inventory/journal"
	"github.com/siudek-family/media-project/pkg/inventory/types"
)

// Totals are the outcome counters of one run.
type Totals struct {
	Folders    int64  `json:"folders" yaml:"folders"`
	Skipped    int64  `json:"skipped" yaml:"skipped"`
	Files      int64  `json:"files" yaml:"files"`
	Bytes      int64  `json:"bytes" yaml:"bytes"`
	BytesHuman string `json:"bytes_human" yaml:"bytes_human"`
	Failures   int64  `json:"failures" yaml:"failures"`
	Created    int64  `json:"created" yaml:"created"`
	Existing   int64  `json:"existing" yaml:"existing"`
}

// Run is one journaled run prepared for output.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Operation string    `json:"operation" yaml:"operation"`
	Source    string    `json:"source" yaml:"source"`
	Target    string    `json:"target,omitempty" yaml:"target,omitempty"`
	Algorithm string    `json:"algorithm" yaml:"algorithm"`
	Excludes  []string  `json:"excludes,omitempty" yaml:"excludes,omitempty"`
	Duration  string    `json:"duration" yaml:"duration"`
	Totals    Totals    `json:"totals" yaml:"totals"`
}

// History is the document every formatter renders.
type History struct {
	Runs []Run `json:"runs" yaml:"runs"`
}

// FromRecords converts journal records, preserving their order.
func FromRecords(records []journal.Record) *History {
	runs := make([]Run, len(records))
	for i, rec := range records {
		runs[i] = fromRecord(rec)
	}
	return &History{Runs: runs}
}

func fromRecord(rec journal.Record) Run {
	s := rec.Summary
	return Run{
		ID:        rec.ID,
		Timestamp: rec.Timestamp,
		Operation: string(rec.Operation),
		Source:    rec.Source,
		Target:    rec.Target,
		Algorithm: rec.Algorithm,
		Excludes:  rec.Excludes,
		Duration:  rec.Elapsed().String(),
		Totals: Totals{
			Folders:    s.Folders,
			Skipped:    s.Skipped,
			Files:      s.Files,
			Bytes:      s.Bytes,
			BytesHuman: types.FormatSize(s.Bytes),
			Failures:   s.Failures,
			Created:    s.Created,
			Existing:   s.Existing,
		},
	}
}

// Formatter writes a History in one format.
type Formatter interface {
	Format(w io.Writer, h *History) error
}

// FormatterFactory creates a Formatter.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]FormatterFactory)}
}

// Register adds factory under name, replacing any previous one.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
	return factory(), nil
}

// Available returns the registered names, sorted.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in formatters.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a formatter from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
