// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lmmspkg/lmms-pkg/internal/logging"
	"github.com/lmmspkg/lmms-pkg/pkg/archive"
	"github.com/lmmspkg/lmms-pkg/pkg/fspath"
	"github.com/lmmspkg/lmms-pkg/pkg/project"
)

// MaxProjectSize bounds how much of a project entry is read during inspection.
const MaxProjectSize = 4 << 20

// Reasons reported by Check.
const (
	ReasonUnreadable  = "archive cannot be opened"
	ReasonEmpty       = "package has no entries"
	ReasonNoProject   = "no project file found"
	ReasonNoResources = "no resource directory found"
	ReasonBadProject  = "project file is not a valid LMMS project"
)

type (
	// CheckReport is the outcome of Check.
	CheckReport struct {
		Path         string   `json:"path" toml:"path"`
		Entries      int      `json:"entries" toml:"entries"`
		Projects     []string `json:"projects" toml:"projects"`
		HasResources bool     `json:"has_resources" toml:"has_resources"`
		Valid        bool     `json:"valid" toml:"valid"`
		// Reason explains why the package is invalid; empty when valid.
		Reason string `json:"reason,omitempty" toml:"reason,omitempty"`
	}

	// ProjectInfo summarises one project embedded in a package.
	ProjectInfo struct {
		Name     string           `json:"name" toml:"name"`
		Metadata project.Metadata `json:"metadata" toml:"metadata"`
	}

	// EntryInfo describes a non-project entry of a package.
	EntryInfo struct {
		Name  string `json:"name" toml:"name"`
		Size  uint64 `json:"size" toml:"size"`
		IsDir bool   `json:"dir,omitempty" toml:"dir,omitempty"`
	}

	// InfoReport is the outcome of Info.
	InfoReport struct {
		Path     string        `json:"path" toml:"path"`
		Projects []ProjectInfo `json:"projects" toml:"projects"`
		Entries  []EntryInfo   `json:"entries" toml:"entries"`
		// Resources counts the resource files (directory entries excluded).
		Resources int `json:"resources" toml:"resources"`
		Total     int `json:"total" toml:"total"`
	}
)

// IsResourceEntry reports whether an entry name is the resource directory
// or lies below it.
func IsResourceEntry(name string) bool {
	n := fspath.Normalize(name)
	return n == ResourcesDir+"/" || strings.HasPrefix(n, ResourcesDir+"/") || strings.Contains(n, "/"+ResourcesDir+"/")
}

// Check opens the package at path and verifies that it holds at least one
// valid project file and a resource directory. The report is always
// returned; the error is non-nil exactly when the package is invalid.
func Check(path string, logger *log.Logger) (*CheckReport, error) {
	logger = logging.OrDiscard(logger)
	report := &CheckReport{Path: path}
	invalid := func(reason string, cause error) (*CheckReport, error) {
		report.Reason = reason
		if cause == nil {
			cause = errors.New(reason)
		} else {
			cause = fmt.Errorf("%s: %w", reason, cause)
		}
		return report, newError(ErrInvalidPackage, path, cause)
	}

	r, err := archive.Open(path)
	if err != nil {
		return invalid(ReasonUnreadable, err)
	}
	defer func() { _ = r.Close() }()

	entries := r.Entries()
	report.Entries = len(entries)
	if len(entries) == 0 {
		return invalid(ReasonEmpty, nil)
	}
	logger.Debug("Checking package", "path", path, "entries", len(entries))

	var projectEntries []archive.Entry
	for _, e := range entries {
		logger.Debug("Entry", "name", e.Name, "size", e.Size)
		switch {
		case !e.IsDir && fspath.HasExt(e.Name, ProjectExt):
			projectEntries = append(projectEntries, e)
			report.Projects = append(report.Projects, e.Name)
		case IsResourceEntry(e.Name):
			report.HasResources = true
		}
	}
	if len(projectEntries) == 0 {
		return invalid(ReasonNoProject, nil)
	}
	if !report.HasResources {
		return invalid(ReasonNoResources, nil)
	}

	for _, e := range projectEntries {
		data, readErr := r.ReadEntry(e.Index, MaxProjectSize)
		if readErr != nil {
			return invalid(ReasonBadProject, readErr)
		}
		if validErr := project.ValidateBytes(data, e.Name); validErr != nil {
			return invalid(ReasonBadProject, validErr)
		}
	}

	report.Valid = true
	return report, nil
}

// Info reads the metadata of every project in the package at path and lists
// the remaining entries.
func Info(path string) (report *InfoReport, err error) {
	if !fspath.HasExt(path, PackageExt) {
		return nil, newError(ErrInvalidPackage, path, fmt.Errorf("expected a %s file", PackageExt))
	}

	r, err := archive.Open(path)
	if err != nil {
		return nil, newError(ErrInvalidPackage, path, err)
	}
	defer func() { _ = r.Close() }()

	report = &InfoReport{Path: path}
	for _, e := range r.Entries() {
		report.Total++
		if !e.IsDir && fspath.HasExt(e.Name, ProjectExt) {
			data, readErr := r.ReadEntry(e.Index, MaxProjectSize)
			if readErr != nil {
				return nil, newError(ErrInvalidPackage, path, readErr)
			}
			doc, parseErr := project.Parse(data, e.Name)
			if parseErr != nil {
				return nil, newError(ErrInvalidXMLFile, path, parseErr)
			}
			report.Projects = append(report.Projects, ProjectInfo{Name: e.Name, Metadata: doc.Metadata()})
			continue
		}

		report.Entries = append(report.Entries, EntryInfo{Name: e.Name, Size: e.Size, IsDir: e.IsDir})
		if !e.IsDir && IsResourceEntry(e.Name) {
			report.Resources++
		}
	}
	return report, nil
}
