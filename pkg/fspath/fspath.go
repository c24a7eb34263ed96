// SPDX-License-Identifier: MPL-2.0

// Package fspath provides the path and name helpers shared by the packager.
//
// Resource paths inside LMMS projects are written by whatever platform saved
// the project, so a file saved on Windows carries backslash separators even
// when it is packaged on Linux. Every helper here normalizes separators first
// so that base names and extensions come out the same on all platforms.
package fspath

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Normalize converts every backslash separator to a forward slash.
// The result is suitable for path (not path/filepath) operations.
func Normalize(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// ToOS converts a declared path to the separator convention of the host.
func ToOS(p string) string {
	return filepath.FromSlash(Normalize(p))
}

// Base returns the last element of p regardless of the separator style
// it was written with. An empty path yields an empty base.
func Base(p string) string {
	n := strings.TrimRight(Normalize(p), "/")
	if n == "" {
		return ""
	}
	return path.Base(n)
}

// Ext returns the extension of the base name of p, including the dot.
func Ext(p string) string {
	return path.Ext(Base(p))
}

// Stem returns the base name of p without its extension.
func Stem(p string) string {
	b := Base(p)
	return strings.TrimSuffix(b, path.Ext(b))
}

// HasExt reports whether p ends with ext, ignoring case.
// ext must include the leading dot.
func HasExt(p, ext string) bool {
	return strings.EqualFold(Ext(p), ext)
}

// TrimTrailingSeparator removes any trailing path separators from p,
// keeping a lone root separator intact.
func TrimTrailingSeparator(p string) string {
	trimmed := strings.TrimRight(p, `/\`)
	if trimmed == "" && p != "" {
		return p[:1]
	}
	return trimmed
}

// Exists reports whether anything exists at p.
func Exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// IsFile reports whether p exists and is a regular file.
func IsFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether p exists and is a directory.
func IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// ExpandHome replaces a leading "~" element with the current user's home
// directory. Paths without that prefix are returned unchanged.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}
