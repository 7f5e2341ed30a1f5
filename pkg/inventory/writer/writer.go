package writer

import (
	"github.com/siudek-family/media-project/pkg/inventory/types"
)

// Writer persists (or previews) the manifest for one folder.
type Writer interface {
	Write(folder string, entries []types.Entry) (Result, error)
}

// Sink performs or previews a Plan.
type Sink interface {
	Apply(plan *Plan) (Result, error)
}

// Single writes one aggregated inventory.json per folder.
type Single struct {
	sink Sink
}

// NewSingle returns a single-manifest writer backed by sink.
func NewSingle(sink Sink) *Single {
	return &Single{sink: sink}
}

// Write plans and applies the aggregated manifest for folder.
func (w *Single) Write(folder string, entries []types.Entry) (Result, error) {
	plan, err := PlanSingle(folder, entries)
	if err != nil {
		return Result{}, err
	}
	return w.sink.Apply(plan)
}

// Mirror writes one manifest per entry into a tree mirroring the source root.
type Mirror struct {
	sourceRoot string
	targetRoot string
	sink       Sink
}

// NewMirror returns a mirrored writer for sourceRoot → targetRoot.
func NewMirror(sourceRoot, targetRoot string, sink Sink) *Mirror {
	return &Mirror{sourceRoot: sourceRoot, targetRoot: targetRoot, sink: sink}
}

// Write validates folder against the source root, then applies the plan.
// Validation runs in every mode and before any mutation.
func (w *Mirror) Write(folder string, entries []types.Entry) (Result, error) {
	plan, err := PlanMirror(w.sourceRoot, w.targetRoot, folder, entries)
	if err != nil {
		return Result{}, err
	}
	return w.sink.Apply(plan)
}

// SourceRoot returns the root every folder must lie under.
func (w *Mirror) SourceRoot() string { return w.sourceRoot }

// TargetRoot returns the root manifests are written under.
func (w *Mirror) TargetRoot() string { return w.targetRoot }
