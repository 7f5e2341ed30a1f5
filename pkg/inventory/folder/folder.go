// Package folder classifies directories for manifest generation and lists
// their direct file entries.
package folder

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/siudek-family/media-project/pkg/inventory/types"
)

// ListFiles returns the names of the direct file entries of dir, in
// enumeration order. Subdirectories are never returned and nothing is
// recursed into. Symlinks count when they resolve to a regular file.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if isFile(dir, e) {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

func isFile(dir string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.Mode().IsRegular()
}

// IsMediaFolder reports whether dir is eligible under the marker rule: it is
// unless a no_media.json entry exists directly inside it.
func IsMediaFolder(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, types.NoMediaFilename))
	return err != nil
}

// HasFiles reports whether dir holds at least one direct file entry.
// Empty directories and directories holding only subdirectories do not.
func HasFiles(dir string) (bool, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// Classifier decides whether a directory gets a manifest.
type Classifier interface {
	Eligible(dir string) (bool, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(dir string) (bool, error)

// Eligible calls f(dir).
func (f ClassifierFunc) Eligible(dir string) (bool, error) {
	return f(dir)
}

// MarkerRule is the single-manifest classifier.
var MarkerRule Classifier = ClassifierFunc(func(dir string) (bool, error) {
	return IsMediaFolder(dir), nil
})

// NonEmptyRule is the mirrored classifier.
var NonEmptyRule Classifier = ClassifierFunc(HasFiles)
