package writer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/siudek-family/media-project/pkg/inventory/logging"
	"github.com/siudek-family/media-project/pkg/inventory/report"
)

// Disk applies plans to the filesystem.
type Disk struct {
	out *report.Printer
}

// NewDisk returns a sink that writes manifests and reports to out.
func NewDisk(out *report.Printer) *Disk {
	if out == nil {
		out = report.Discard()
	}
	return &Disk{out: out}
}

// Apply performs plan. Mutation failures are returned as-is (wrapped) and
// leave already written manifests in place.
func (d *Disk) Apply(plan *Plan) (Result, error) {
	if plan.Layout == LayoutSingle {
		return d.applySingle(plan)
	}
	return d.applyMirror(plan)
}

func (d *Disk) applySingle(plan *Plan) (Result, error) {
	var res Result
	for _, f := range plan.Files {
		if err := writeAtomic(f.Path, f.Payload); err != nil {
			return res, err
		}
		res.Created++
	}
	d.out.Done("Inventory created for %s (%d files)", plan.Folder, plan.Entries)
	return res, nil
}

func (d *Disk) applyMirror(plan *Plan) (Result, error) {
	var res Result
	if err := os.MkdirAll(plan.Dir, 0o755); err != nil {
		return res, fmt.Errorf("creating target directory %s: %w", plan.Dir, err)
	}

	log := logging.Get("writer")
	for _, f := range plan.Files {
		if f.Exists {
			res.Skipped++
			continue
		}
		created, err := writeExclusive(f.Path, f.Payload)
		if err != nil {
			return res, err
		}
		if !created {
			// Appeared between planning and writing; same outcome as Exists.
			res.Skipped++
			continue
		}
		log.Debug("manifest written", "path", f.Path)
		res.Created++
	}

	if res.Created > 0 {
		d.out.Done("Created %d JSON files in %s", res.Created, plan.Dir)
	}
	if res.Skipped > 0 {
		d.out.Line("Skipped %d existing JSON files in %s", res.Skipped, plan.Dir)
	}
	return res, nil
}

// writeAtomic replaces path with data using a temp file and rename.
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// writeExclusive creates path with data unless it already exists.
// It reports false, without error, when the file was already there.
func writeExclusive(path string, data []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("creating manifest %s: %w", path, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("writing manifest %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("closing manifest %s: %w", path, err)
	}
	return true, nil
}
