// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/lmmspkg/lmms-pkg/internal/issue"
	"github.com/lmmspkg/lmms-pkg/pkg/archive"
	"github.com/lmmspkg/lmms-pkg/pkg/packager"
	"github.com/lmmspkg/lmms-pkg/pkg/project"
)

// ServiceError is a failed operation together with the issue catalog entry
// that explains it. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// issueFor maps a packager failure kind to its catalog entry. An issue
// already attached to an ActionableError in the chain takes precedence.
func issueFor(err error) issue.Id {
	if i, ok := issue.IssueOf(err); ok {
		return i.Id()
	}
	switch kind := packager.KindOf(err); {
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId
	case errors.Is(err, packager.ErrConverter):
		return issue.ConverterFailedId
	case errors.Is(err, archive.ErrEntryExists):
		return issue.FileAlreadyExistsId
	case kind == packager.ErrNonExistingFile:
		return issue.FileNotFoundId
	case kind == packager.ErrAlreadyExistingFile:
		return issue.FileAlreadyExistsId
	case kind == packager.ErrDirectoryCreation:
		return issue.DirectoryCreationFailedId
	case kind == packager.ErrInvalidXMLFile:
		return issue.InvalidProjectId
	case kind == packager.ErrPackageExport:
		return issue.PackageExportFailedId
	case kind == packager.ErrPackageImport:
		return issue.PackageImportFailedId
	case kind == packager.ErrInvalidPackage:
		return issue.InvalidPackageId
	}
	return 0
}

// renderServiceError prints the issue help section of svcErr.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, style string) {
	if svcErr == nil || svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(style)
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
			return
		}
		fmt.Fprint(stderr, rendered)
	}
}

// withHints attaches suggestions to failures the user can act on directly.
func withHints(err error) error {
	var invalid *project.ValidationError
	if errors.As(err, &invalid) && invalid.Reason == project.ReasonUnsupportedVersion {
		return issue.NewErrorContext().
			WithOperation("read project").
			WithResource(invalid.Name).
			WithSuggestions(
				"Supported LMMS versions: "+strings.Join(project.SupportedVersions(), ", "),
				"Open the project in a supported LMMS release and save it again",
			).
			WithIssue(issue.InvalidProjectId).
			Wrap(err).
			BuildError()
	}
	return err
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// include their suggestions; verbose mode adds the error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
