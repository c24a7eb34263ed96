// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"slices"
	"sync"
)

// Sandbox type constants.
const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"
)

// SandboxType identifies the application sandbox, if any.
type SandboxType string

// detectOnce caches detection; the sandbox cannot change during the
// lifetime of the process. detectSandboxFrom must not panic.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// DetectSandbox returns the sandbox the current process runs in.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// HostCommand returns argv rewritten so that it runs on the host when the
// process is confined by st. Inside Flatpak, host programs are reached
// through "flatpak-spawn --host". Other environments run argv unchanged.
func HostCommand(st SandboxType, argv []string) []string {
	if st != SandboxFlatpak || len(argv) == 0 {
		return argv
	}
	return slices.Concat([]string{"flatpak-spawn", "--host"}, argv)
}

// detectSandboxFrom performs detection with injectable lookups.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	// /.flatpak-info exists in every Flatpak sandbox and wins over Snap.
	if err := statFile("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}
	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
