// Package walker drives an inventory run: it visits every directory under a
// root, classifies it, hashes the files of eligible folders and hands the
// entries to a manifest writer.
package walker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/siudek-family/media-project/pkg/inventory/checksum"
	"github.com/siudek-family/media-project/pkg/inventory/filter"
	"github.com/siudek-family/media-project/pkg/inventory/report"
)

// ErrNotDirectory is returned when a walk root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Options configures a walk.
type Options struct {
	// Root is the directory tree to inventory. For a mirrored walk it is the
	// source root and is only ever read.
	Root string

	// Target selects the mirrored variant when non-empty: manifests are
	// written under Target instead of next to the media.
	Target string

	// Dry prints what would be written instead of writing it.
	Dry bool

	// Exclude skips matching directories together with their subtrees.
	// Nil excludes nothing.
	Exclude *filter.Exclude

	// Engine computes the digests. Nil selects SHA256 with the default
	// chunk size.
	Engine *checksum.Engine

	// Out receives the progress lines. Nil discards them.
	Out *report.Printer
}

// Mirrored reports whether the options select the mirrored variant.
func (o *Options) Mirrored() bool {
	return o.Target != ""
}

// Validate resolves the roots to absolute paths, checks that Root is an
// existing directory and fills in defaults.
func (o *Options) Validate() error {
	if o.Root == "" {
		return errors.New("walk root is required")
	}
	root, err := filepath.Abs(o.Root)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", o.Root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}
	o.Root = root

	if o.Target != "" {
		target, err := filepath.Abs(o.Target)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", o.Target, err)
		}
		o.Target = target
	}

	if o.Engine == nil {
		o.Engine = checksum.New(checksum.SHA256, checksum.DefaultChunkSize)
	}
	if o.Out == nil {
		o.Out = report.Discard()
	}
	return nil
}
