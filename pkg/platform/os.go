// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Values of runtime.GOOS that change where lmms-pkg keeps its files.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// ErrNoConfigBase is returned when neither the environment nor the home
// directory tells where per-user configuration lives.
var ErrNoConfigBase = errors.New("cannot determine the user configuration directory")

// ConfigBase returns the per-user configuration root for goos: %APPDATA% on
// Windows, ~/Library/Application Support on macOS, and $XDG_CONFIG_HOME or
// ~/.config elsewhere. getenv and homeDir are os.Getenv and os.UserHomeDir
// outside of tests.
func ConfigBase(goos string, getenv func(string) string, homeDir func() (string, error)) (string, error) {
	switch goos {
	case Windows:
		if dir := getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		if profile := getenv("USERPROFILE"); profile != "" {
			return filepath.Join(profile, "AppData", "Roaming"), nil
		}
		return "", fmt.Errorf("%w: APPDATA and USERPROFILE are unset", ErrNoConfigBase)
	case Darwin:
		home, err := homeDir()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrNoConfigBase, err)
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if dir := getenv("XDG_CONFIG_HOME"); dir != "" {
			return dir, nil
		}
		home, err := homeDir()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrNoConfigBase, err)
		}
		return filepath.Join(home, ".config"), nil
	}
}
