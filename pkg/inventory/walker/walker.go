package walker

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/siudek-family/media-project/pkg/inventory/folder"
	"github.com/siudek-family/media-project/pkg/inventory/logging"
	"github.com/siudek-family/media-project/pkg/inventory/report"
	"github.com/siudek-family/media-project/pkg/inventory/types"
	"github.com/siudek-family/media-project/pkg/inventory/writer"
)

// Result is the outcome of a completed walk.
type Result struct {
	types.Summary

	// Root and Target are the resolved roots of the walk.
	Root   string
	Target string

	// Dry is true when nothing was written.
	Dry bool

	Elapsed time.Duration
}

// Walker visits a tree one folder at a time.
type Walker struct {
	opts     Options
	classify folder.Classifier
	writer   writer.Writer
	log      *logging.Logger

	// summary is owned by a single Walk call; callbacks run sequentially.
	summary types.Summary
}

// New validates opts and returns a Walker for the variant they select.
func New(opts Options) (*Walker, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var sink writer.Sink = writer.NewDisk(opts.Out)
	if opts.Dry {
		sink = writer.NewPreview(opts.Out)
	}

	w := &Walker{
		opts: opts,
		log:  logging.Get("walker"),
	}
	if opts.Mirrored() {
		w.classify = folder.NonEmptyRule
		w.writer = writer.NewMirror(opts.Root, opts.Target, sink)
	} else {
		w.classify = folder.MarkerRule
		w.writer = writer.NewSingle(sink)
	}
	return w, nil
}

// Options returns the validated options.
func (w *Walker) Options() Options {
	return w.opts
}

// Walk visits the root and every descendant directory. Per-file checksum
// failures are recorded in the manifests and never stop the walk; path
// validation and filesystem mutation failures abort it. Cancelling ctx stops
// the walk before the next folder.
func (w *Walker) Walk(ctx context.Context) (*Result, error) {
	start := time.Now()
	w.summary = types.Summary{}
	w.header()

	w.log.Info("walk started", "root", w.opts.Root, "target", w.opts.Target, "dry", w.opts.Dry)

	conf := fastwalk.Config{
		Follow:     false,
		Sort:       fastwalk.SortLexical,
		NumWorkers: 1,
	}
	if err := fastwalk.Walk(&conf, w.opts.Root, w.callback(ctx)); err != nil {
		w.log.Error("walk aborted", "root", w.opts.Root, "error", err)
		return nil, err
	}

	w.footer()

	res := &Result{
		Summary: w.summary,
		Root:    w.opts.Root,
		Target:  w.opts.Target,
		Dry:     w.opts.Dry,
		Elapsed: time.Since(start),
	}
	w.log.Info("walk finished",
		"folders", res.Folders,
		"files", res.Files,
		"failures", res.Failures,
		"elapsed", res.Elapsed)
	return res, nil
}

func (w *Walker) callback(ctx context.Context) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		// Second call for a directory whose entries could not be read.
		if err != nil {
			w.log.Warn("cannot read directory", "path", path, "error", err)
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if path != w.opts.Root {
			if w.opts.Exclude.Match(w.opts.Root, path) {
				w.log.Debug("excluded", "path", path)
				return fastwalk.SkipDir
			}
			if w.opts.Mirrored() && filepath.Clean(path) == w.opts.Target {
				w.log.Debug("skipping target root inside source", "path", path)
				return fastwalk.SkipDir
			}
		}

		return w.visit(path)
	}
}

func (w *Walker) visit(dir string) error {
	out := w.opts.Out

	eligible, err := w.classify.Eligible(dir)
	if err != nil {
		w.log.Warn("cannot classify directory", "path", dir, "error", err)
		return nil
	}
	if !eligible {
		w.summary.Skipped++
		if !w.opts.Mirrored() {
			out.Line("Skipping %s (%s present)", dir, types.NoMediaFilename)
		}
		return nil
	}

	names, err := folder.ListFiles(dir)
	if err != nil {
		w.log.Warn("cannot list directory", "path", dir, "error", err)
		return nil
	}

	w.summary.Folders++
	label := "Media folder"
	if w.opts.Mirrored() {
		label = "Processing folder"
	}
	out.Heading(w.summary.Folders, label, dir)
	out.Line("Creating inventory for %s (%d files)...", dir, len(names))

	entries := make([]types.Entry, 0, len(names))
	for i, name := range names {
		out.Line("  [%d/%d] Processing: %s", i+1, len(names), name)
		entries = append(entries, types.Entry{
			Filename: name,
			Checksum: w.checksum(filepath.Join(dir, name)),
		})
	}

	res, err := w.writer.Write(dir, entries)
	w.summary.Created += int64(res.Created)
	w.summary.Existing += int64(res.Skipped)
	if err != nil {
		return err
	}
	w.log.Debug("folder done", "path", dir, "files", len(entries), "created", res.Created, "skipped", res.Skipped)
	return nil
}

// checksum hashes path. The single variant uses the lenient policy; the
// mirrored variant uses the strict one and reports the failure before
// substituting the error marker.
func (w *Walker) checksum(path string) string {
	w.summary.Files++
	sum, n, err := w.opts.Engine.ComputeSize(path)
	if err == nil {
		w.summary.Bytes += n
		return sum
	}

	w.summary.Failures++
	if w.opts.Mirrored() {
		w.opts.Out.Warn("%v", err)
		w.log.Warn("checksum failed", "path", path, "error", err)
	} else {
		w.log.Debug("checksum failed", "path", path, "error", err)
	}
	return types.ErrorMarker(err)
}

func (w *Walker) header() {
	out := w.opts.Out
	suffix := ""
	if w.opts.Dry {
		suffix = " " + report.DryPrefix
	}
	if w.opts.Mirrored() {
		out.Line("Scanning source folders in %s...%s", w.opts.Root, suffix)
		out.Line("Target root: %s", w.opts.Target)
		return
	}
	out.Line("Scanning for media folders in %s...%s", w.opts.Root, suffix)
}

func (w *Walker) footer() {
	out := w.opts.Out
	out.Blank()
	if w.opts.Mirrored() {
		out.Line("Processed %d folders.", w.summary.Folders)
	} else {
		out.Line("Processed %d media folders.", w.summary.Folders)
	}
	if !w.opts.Dry {
		out.Summary(w.summary)
	}
}
