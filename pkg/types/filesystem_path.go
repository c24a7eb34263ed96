// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

// Reasons a path argument is rejected before any file is touched.
const (
	PathReasonBlank = "must not be blank"
	PathReasonNUL   = "must not contain a NUL byte"
)

type (
	// FilesystemPath is a project, package, or target path passed to a
	// command. It may be relative to the working directory.
	FilesystemPath string

	// InvalidFilesystemPathError reports a path argument no filesystem
	// could open.
	InvalidFilesystemPathError struct {
		Value  FilesystemPath
		Reason string
	}
)

// String returns the path as given.
func (p FilesystemPath) String() string { return string(p) }

// IsValid rejects blank paths and paths with an embedded NUL byte, which
// the operating system would otherwise refuse with a less helpful error.
func (p FilesystemPath) IsValid() (bool, []error) {
	switch {
	case strings.TrimSpace(string(p)) == "":
		return false, []error{&InvalidFilesystemPathError{Value: p, Reason: PathReasonBlank}}
	case strings.ContainsRune(string(p), 0):
		return false, []error{&InvalidFilesystemPathError{Value: p, Reason: PathReasonNUL}}
	}
	return true, nil
}

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }
