// Package writer turns the entries computed for a folder into manifest files.
//
// Writing happens in two steps. A Plan is computed first: it validates the
// folder, resolves every destination path and records which destinations
// already exist. A Sink then either performs the plan (Disk) or prints what
// it would do (Preview). Both modes share the validation, so dry runs reject
// exactly what real runs reject.
package writer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/siudek-family/media-project/pkg/inventory/types"
)

// Layout identifies how manifests are placed.
type Layout int

const (
	// LayoutSingle writes one inventory.json into the folder itself.
	LayoutSingle Layout = iota
	// LayoutMirror writes one <file>.json per entry into a mirrored target tree.
	LayoutMirror
)

// File is a single manifest destination within a Plan.
type File struct {
	// Path is the destination of the manifest.
	Path string
	// Payload is the serialized manifest.
	Payload []byte
	// Exists records whether Path already existed when the plan was made.
	Exists bool
}

// Plan describes everything a write would do for one folder.
type Plan struct {
	Layout Layout
	// Folder is the source folder the entries were computed from.
	Folder string
	// Dir is the directory the manifests go into.
	Dir string
	// Entries is the number of entries the plan covers.
	Entries int
	Files   []File
}

// Result counts what a sink did (or, for Preview, would do).
type Result struct {
	Created int
	Skipped int
}

// PlanSingle plans the aggregated manifest for folder. The manifest is always
// overwritten, so Exists is informational only.
func PlanSingle(folder string, entries []types.Entry) (*Plan, error) {
	if entries == nil {
		entries = []types.Entry{}
	}
	payload, err := encode(entries)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(folder, types.InventoryFilename)
	return &Plan{
		Layout:  LayoutSingle,
		Folder:  folder,
		Dir:     folder,
		Entries: len(entries),
		Files:   []File{{Path: path, Payload: payload, Exists: exists(path)}},
	}, nil
}

// PlanMirror plans the per-file manifests for a folder under sourceRoot.
// It fails with *types.PathValidationError, before touching anything, when
// folder does not normalize to sourceRoot or a path beneath it.
func PlanMirror(sourceRoot, targetRoot, folder string, entries []types.Entry) (*Plan, error) {
	rel, err := Contain(sourceRoot, folder)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(targetRoot, rel)
	plan := &Plan{
		Layout:  LayoutMirror,
		Folder:  folder,
		Dir:     dir,
		Entries: len(entries),
		Files:   make([]File, 0, len(entries)),
	}

	for _, e := range entries {
		payload, err := encode(e)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, e.Filename+types.MirrorSuffix)
		plan.Files = append(plan.Files, File{Path: path, Payload: payload, Exists: exists(path)})
	}
	return plan, nil
}

// Contain normalizes root and folder (absolute, with "." and ".." collapsed)
// and returns folder relative to root. A folder equal to root yields ".".
// Any folder that escapes root, is unrelated to it, or merely shares a name
// prefix with it fails with *types.PathValidationError.
func Contain(root, folder string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving source root %s: %w", root, err)
	}
	absFolder, err := filepath.Abs(folder)
	if err != nil {
		return "", fmt.Errorf("resolving folder %s: %w", folder, err)
	}

	prefix := absRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if absFolder != absRoot && !strings.HasPrefix(absFolder, prefix) {
		return "", &types.PathValidationError{Folder: folder, Root: root}
	}

	return filepath.Rel(absRoot, absFolder)
}

// encode renders v as two-space indented JSON. HTML characters are kept
// literal so file names stay readable.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
