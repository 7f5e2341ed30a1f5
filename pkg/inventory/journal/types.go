// Package journal keeps a record of every inventory run that wrote to disk.
package journal

import (
	"time"

	"github.com/siudek-family/media-project/pkg/inventory/types"
)

// Operation is the command that produced a record.
type Operation string

const (
	// OpScan is a single-manifest run.
	OpScan Operation = "scan"
	// OpMirror is a mirrored run.
	OpMirror Operation = "mirror"
)

// Run describes a finished run before it is recorded.
type Run struct {
	Operation Operation
	Source    string
	Target    string
	Algorithm string
	Excludes  []string
	Summary   types.Summary
	Elapsed   time.Duration
}

// Record is one journaled run.
type Record struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation Operation     `json:"operation"`
	Source    string        `json:"source"`
	Target    string        `json:"target,omitempty"`
	Algorithm string        `json:"algorithm"`
	Excludes  []string      `json:"excludes,omitempty"`
	Summary   types.Summary `json:"summary"`
	ElapsedMS int64         `json:"elapsed_ms"`
}

// Elapsed returns the recorded run duration.
func (r Record) Elapsed() time.Duration {
	return time.Duration(r.ElapsedMS) * time.Millisecond
}
