// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"os"
	"slices"

	"github.com/charmbracelet/log"
)

// artifacts records what an operation created so it can be rolled back.
type artifacts struct {
	logger *log.Logger
	paths  []string
}

func (a *artifacts) track(path string) {
	a.paths = append(a.paths, path)
}

// trackIfNew records path only when nothing exists there yet. It must be
// called before the artifact is created.
func (a *artifacts) trackIfNew(path string) bool {
	if _, err := os.Lstat(path); err == nil {
		return false
	}
	a.track(path)
	return true
}

// rollback removes the tracked artifacts, newest first.
func (a *artifacts) rollback() {
	for _, p := range slices.Backward(a.paths) {
		if err := os.RemoveAll(p); err != nil {
			a.logger.Warn("Failed to remove partial output", "path", p, "error", err)
			continue
		}
		a.logger.Debug("Removed partial output", "path", p)
	}
	a.paths = nil
}
