// Package types provides the core data types shared by the inventory
// packages: manifest entries, the per-run summary, and helpers for parsing
// and formatting byte sizes.
package types

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Binary size units.
const (
	KiB int64 = 1 << (10 * (iota + 1))
	MiB
	GiB
	TiB
)

// Fixed file names used by the inventory layouts.
const (
	// InventoryFilename is the aggregated manifest written into each media folder.
	InventoryFilename = "inventory.json"

	// NoMediaFilename marks a folder as excluded from single-manifest processing.
	// Only its presence matters; the content is never read.
	NoMediaFilename = "no_media.json"

	// MirrorSuffix is appended to a source file name to form its mirrored manifest name.
	MirrorSuffix = ".json"
)

// ErrorPrefix starts every checksum value that records a failure instead of a digest.
const ErrorPrefix = "ERROR: "

// Entry pairs a file's base name with its content checksum.
// Checksum is either a lowercase hex digest or a value starting with ErrorPrefix.
type Entry struct {
	Filename string `json:"filename"`
	Checksum string `json:"checksum"`
}

// Failed reports whether the entry carries an error marker instead of a digest.
func (e Entry) Failed() bool {
	return strings.HasPrefix(e.Checksum, ErrorPrefix)
}

// ErrorMarker renders err as a checksum value.
func ErrorMarker(err error) string {
	return ErrorPrefix + err.Error()
}

// Summary aggregates the outcome of one walk.
type Summary struct {
	// Folders is the number of eligible folders processed.
	Folders int64 `json:"folders"`

	// Skipped is the number of folders visited but not eligible.
	Skipped int64 `json:"skipped"`

	// Files is the number of files handed to the checksum engine.
	Files int64 `json:"files"`

	// Bytes is the total size of the files hashed successfully.
	Bytes int64 `json:"bytes"`

	// Failures is the number of entries carrying an error marker.
	Failures int64 `json:"failures"`

	// Created is the number of manifest files written.
	Created int64 `json:"created"`

	// Existing is the number of manifest files left untouched because they already existed.
	Existing int64 `json:"existing"`
}

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a size such as "64KiB", "10MiB" or "1.5GB". Units follow
// go-humanize: Ki/KiB are binary, K/KB are decimal, and a bare number is bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	case strings.HasPrefix(s, "-"):
		return 0, ErrNegativeSize
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidSize, s)
	}
	return int64(n), nil
}

// FormatSize converts a size in bytes to a human-readable string using IEC units.
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
