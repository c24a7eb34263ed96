// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride lets tests bypass the platform config directory.
// os.UserHomeDir() does not reliably honour HOME on every platform.
var configDirOverride string

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride makes ConfigDir return dir. Intended for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
