// SPDX-License-Identifier: MPL-2.0

package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sahilm/fuzzy"

	"github.com/lmmspkg/lmms-pkg/pkg/fspath"
)

// ExpandDirs turns a list of search directory patterns into concrete
// directories. A leading "~" is expanded, and patterns containing glob
// metacharacters are matched with doublestar ("samples/**" includes every
// nested directory). Order follows the input, with glob matches in lexical
// order. Non-directories and duplicates are dropped.
func ExpandDirs(patterns []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]struct{})
	add := func(d string) {
		clean := filepath.Clean(d)
		if _, dup := seen[clean]; dup {
			return
		}
		seen[clean] = struct{}{}
		dirs = append(dirs, clean)
	}

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		expanded, err := fspath.ExpandHome(pattern)
		if err != nil {
			return nil, err
		}

		if !hasMeta(expanded) {
			if fspath.IsDir(expanded) {
				add(expanded)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(expanded, doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, fmt.Errorf("invalid search directory pattern %q: %w", pattern, err)
		}
		slices.Sort(matches)
		for _, m := range matches {
			if fspath.IsDir(m) {
				add(m)
			}
		}
	}
	return dirs, nil
}

// Suggest returns up to limit file names from dirs that fuzzily match the
// base name of declared, best match first.
func Suggest(declared string, dirs []string, limit int) []string {
	target := fspath.Base(declared)
	if target == "" || limit <= 0 {
		return nil
	}

	var names []string
	seen := make(map[string]struct{})
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, dup := seen[e.Name()]; dup {
				continue
			}
			seen[e.Name()] = struct{}{}
			names = append(names, e.Name())
		}
	}

	matches := fuzzy.Find(target, names)
	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

