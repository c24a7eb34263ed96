// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"errors"
	"fmt"
)

var (
	// ErrNonExistingFile is returned when a required input is absent.
	ErrNonExistingFile = errors.New("file does not exist")
	// ErrAlreadyExistingFile is returned when an operation would overwrite prior output.
	ErrAlreadyExistingFile = errors.New("file already exists")
	// ErrDirectoryCreation is returned when a required directory cannot be created.
	ErrDirectoryCreation = errors.New("cannot create directory")
	// ErrInvalidXMLFile is returned when a project is malformed or not an acceptable project.
	ErrInvalidXMLFile = errors.New("invalid project file")
	// ErrPackageImport is returned when a package cannot be imported.
	ErrPackageImport = errors.New("package import failed")
	// ErrPackageExport is returned when a package cannot be exported.
	ErrPackageExport = errors.New("package export failed")
	// ErrInvalidPackage is returned by Check and Info for structurally invalid archives.
	ErrInvalidPackage = errors.New("invalid package")
)

// PackageError carries the failure kind, the path it concerns, and the cause.
type PackageError struct {
	// Kind is one of the sentinel errors of this package.
	Kind error
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PackageError) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *PackageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, path string, cause error) *PackageError {
	return &PackageError{Kind: kind, Path: path, Err: cause}
}

// KindOf returns the sentinel kind of err, or nil if err is not a PackageError.
func KindOf(err error) error {
	var pe *PackageError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return nil
}
