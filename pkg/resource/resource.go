// SPDX-License-Identifier: MPL-2.0

// Package resource resolves the external files referenced by a project.
package resource

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/lmmspkg/lmms-pkg/pkg/fspath"
	"github.com/lmmspkg/lmms-pkg/pkg/platform"
	"github.com/lmmspkg/lmms-pkg/pkg/project"
)

// ErrNotFound is returned when a resource exists neither at its declared
// path nor below any search directory.
var ErrNotFound = errors.New("resource not found")

// Entry is the resolution outcome for one declared resource path.
type Entry struct {
	// Declared is the src value as written in the project.
	Declared string
	// Source is the absolute location found on disk, empty when not found.
	Source string
	// Name is the file name assigned inside the package resource directory.
	Name string
	// Suffix is the collision counter applied to Name, 0 when none was needed.
	Suffix int
}

// Found reports whether the resource was located on disk.
func (e Entry) Found() bool { return e.Source != "" }

// CollectReferencedPaths returns every non-empty src value of the document,
// deduplicated by exact string equality, in document order.
func CollectReferencedPaths(doc *project.Document) []string {
	seen := make(map[string]struct{})
	var paths []string
	for _, ref := range doc.ResourceElements() {
		if ref.Source == "" {
			continue
		}
		if _, dup := seen[ref.Source]; dup {
			continue
		}
		seen[ref.Source] = struct{}{}
		paths = append(paths, ref.Source)
	}
	return paths
}

// FindDuplicateBasenames returns the file stems shared by more than one
// path, in the order each stem was first seen.
func FindDuplicateBasenames(paths []string) []string {
	counts := make(map[string]int)
	var order []string
	for _, p := range paths {
		stem := fspath.Stem(p)
		if counts[stem] == 0 {
			order = append(order, stem)
		}
		counts[stem]++
	}

	var dups []string
	for _, stem := range order {
		if counts[stem] > 1 {
			dups = append(dups, stem)
		}
	}
	return dups
}

// AssignNames gives every path a destination file name that is unique
// within the returned set. For each stem reported by FindDuplicateBasenames
// the first path keeps its base name and later ones become stem-1.ext,
// stem-2.ext, and so on. A generated name already taken by another entry
// keeps incrementing. Names Windows cannot store ("aux.wav") are the one
// exception to keeping the first name: they are always suffixed so that
// packages extract everywhere.
func AssignNames(paths []string) []Entry {
	shared := make(map[string]struct{})
	for _, stem := range FindDuplicateBasenames(paths) {
		shared[stem] = struct{}{}
	}
	taken := make(map[string]struct{}, len(paths))
	next := make(map[string]int)
	entries := make([]Entry, 0, len(paths))

	for _, p := range paths {
		stem, ext := fspath.Stem(p), fspath.Ext(p)
		name := fspath.Base(p)
		suffix := 0

		_, isShared := shared[stem]
		_, stemSeen := next[stem]
		_, nameTaken := taken[name]
		if (isShared && stemSeen) || nameTaken || platform.IsWindowsReservedName(name) {
			suffix = next[stem]
			for {
				suffix++
				name = stem + "-" + strconv.Itoa(suffix) + ext
				if _, clash := taken[name]; !clash {
					break
				}
			}
		}
		if isShared || suffix > 0 {
			next[stem] = suffix
		}
		taken[name] = struct{}{}

		entries = append(entries, Entry{Declared: p, Name: name, Suffix: suffix})
	}
	return entries
}

// Locate finds the file a declared path refers to. The path is tried as
// given first (absolute, or relative to the working directory). Each search
// directory is then tried in order, first with the declared path appended
// and then with only its base name. The first regular file found wins.
func Locate(declared string, dirs []string) (string, error) {
	osPath := fspath.ToOS(declared)
	candidates := []string{osPath}
	base := fspath.Base(declared)
	for _, dir := range dirs {
		candidates = append(candidates, filepath.Join(dir, osPath))
		if base != "" && base != osPath {
			candidates = append(candidates, filepath.Join(dir, base))
		}
	}

	for _, c := range slices.Compact(candidates) {
		if !fspath.IsFile(c) {
			continue
		}
		abs, err := filepath.Abs(c)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", c, err)
		}
		return abs, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, declared)
}

// Resolve assigns destination names to paths and locates each of them.
// Entries that cannot be located are returned with an empty Source.
func Resolve(paths, dirs []string) []Entry {
	entries := AssignNames(paths)
	for i := range entries {
		if src, err := Locate(entries[i].Declared, dirs); err == nil {
			entries[i].Source = src
		}
	}
	return entries
}
