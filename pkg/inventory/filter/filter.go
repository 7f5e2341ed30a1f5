// Package filter decides which directories a walk skips entirely.
package filter

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// Exclude matches directories against glob patterns. A pattern matches when
// it matches either the directory's base name or its slash-separated path
// relative to the walk root, so ".git" skips every .git directory while
// "archive/2001" skips one specific subtree.
type Exclude struct {
	patterns []string
	globs    []glob.Glob
}

// NewExclude compiles patterns. Empty patterns are ignored.
func NewExclude(patterns ...string) (*Exclude, error) {
	ex := &Exclude{}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		ex.patterns = append(ex.patterns, p)
		ex.globs = append(ex.globs, g)
	}
	return ex, nil
}

// Match reports whether the directory at path, under root, is excluded.
// The root itself is never excluded.
func (e *Exclude) Match(root, path string) bool {
	if e == nil || len(e.globs) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, g := range e.globs {
		if g.Match(base) || g.Match(rel) {
			return true
		}
	}
	return false
}

// Patterns returns the compiled patterns.
func (e *Exclude) Patterns() []string {
	if e == nil {
		return nil
	}
	return e.patterns
}
