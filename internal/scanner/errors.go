package scanner

import (
	"errors"
	"fmt"
)

// errNotADirectory is wrapped into the ScanError for a non-directory root.
var errNotADirectory = errors.New("not a directory")

// ScanError means the scan could not run at all: the root is missing,
// unreadable, or not a directory.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("failed to scan %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// Warning records a non-fatal problem below the root: an unreadable
// subdirectory or a marker file that would not parse. The scan continues
// past it.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

func (w Warning) Unwrap() error { return w.Err }
