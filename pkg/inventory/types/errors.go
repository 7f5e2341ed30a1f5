package types

import (
	"errors"
	"fmt"
)

// ErrInventory is the root of the inventory error taxonomy.
// Every typed error in this package matches it with errors.Is.
var ErrInventory = errors.New("inventory error")

// ChecksumError reports that a file could not be read while computing its digest.
type ChecksumError struct {
	Path string
	Err  error
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("Failed to compute checksum for '%s': %v", e.Path, e.Err)
}

func (e *ChecksumError) Unwrap() []error {
	return []error{ErrInventory, e.Err}
}

// PathValidationError reports a source folder that normalizes outside the source root.
// It is never downgraded: callers must abort the write that produced it.
type PathValidationError struct {
	Folder string
	Root   string
}

func (e *PathValidationError) Error() string {
	return fmt.Sprintf("Source folder path '%s' is not within source root '%s'", e.Folder, e.Root)
}

func (e *PathValidationError) Unwrap() error {
	return ErrInventory
}
