// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// Validation failure reasons.
const (
	// ReasonWrongRoot means the root element is not lmms-project.
	ReasonWrongRoot ValidationReason = "not a recognized project"
	// ReasonWrongType means the root type attribute is not song.
	ReasonWrongType ValidationReason = "not a song project"
	// ReasonUnsupportedVersion means creatorversion is outside the supported set.
	ReasonUnsupportedVersion ValidationReason = "unsupported LMMS version"
)

// ErrInvalidProject is the sentinel wrapped by every ValidationError.
var ErrInvalidProject = errors.New("invalid project")

// supportedVersions lists the creatorversion values this tool can package.
var supportedVersions = []string{
	"1.0.0", "1.0.1", "1.0.2", "1.0.3",
	"1.1.0", "1.1.1", "1.1.2", "1.1.3",
	"1.2.0", "1.2.1", "1.2.2",
}

type (
	// ValidationReason is the user-facing cause of a validation failure.
	ValidationReason string

	// ValidationError describes why a document is not an acceptable project.
	ValidationError struct {
		Name   string
		Reason ValidationReason
		// Value is the offending value (root tag, type, or version).
		Value string
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("%s: %s (%q)", e.Name, e.Reason, e.Value)
}

// Unwrap returns ErrInvalidProject for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrInvalidProject }

// SupportedVersions returns a copy of the accepted creatorversion values.
func SupportedVersions() []string {
	return slices.Clone(supportedVersions)
}

// IsSupportedVersion reports whether v names a supported LMMS release.
// A leading "v" and a missing patch component are tolerated.
func IsSupportedVersion(v string) bool {
	canonical := normalizeVersion(v)
	if canonical == "" {
		return false
	}
	return slices.ContainsFunc(supportedVersions, func(s string) bool {
		return semver.Compare(canonical, "v"+s) == 0
	})
}

// normalizeVersion returns the canonical semver form of v ("1.2" becomes
// "v1.2.0"), or "" when v is not a version at all.
func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

// Validate checks the root element. The type and creatorversion
// attributes are optional; when present they must be acceptable.
func (d *Document) Validate() error {
	root := d.root()
	if root.Tag != RootTag {
		return &ValidationError{Name: d.name, Reason: ReasonWrongRoot, Value: root.Tag}
	}
	if attr := root.SelectAttr(attrType); attr != nil && attr.Value != SongType {
		return &ValidationError{Name: d.name, Reason: ReasonWrongType, Value: attr.Value}
	}
	if attr := root.SelectAttr(attrCreatorVersion); attr != nil && !IsSupportedVersion(attr.Value) {
		return &ValidationError{Name: d.name, Reason: ReasonUnsupportedVersion, Value: attr.Value}
	}
	return nil
}

// ValidateBytes parses and validates an in-memory project.
func ValidateBytes(data []byte, name string) error {
	doc, err := Parse(data, name)
	if err != nil {
		return err
	}
	return doc.Validate()
}
