// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultLMMSCommand is the converter used when nothing is configured.
	DefaultLMMSCommand CommandLine = "lmms"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidCommandLine is the sentinel error wrapped by InvalidCommandLineError.
	ErrInvalidCommandLine = errors.New("invalid command line")
	// ErrInvalidSearchDir is returned for empty search directory entries.
	ErrInvalidSearchDir = errors.New("invalid search directory")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// CommandLine is an executable followed by arguments, written the way a
	// POSIX shell would split it ("flatpak run io.lmms.LMMS").
	CommandLine string

	// InvalidCommandLineError is returned when a CommandLine is blank or cannot be split.
	InvalidCommandLineError struct {
		Value  CommandLine
		Reason string
	}

	// InvalidSearchDirError is returned for a blank search directory.
	InvalidSearchDirError struct {
		Index int
	}

	// InvalidConfigError collects the field-level errors of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// SearchDirs are searched for resources after the --rsc-dirs flag values.
		SearchDirs []string `json:"search_dirs" mapstructure:"search_dirs"`
		// LMMSCommand converts .mmpz projects to plain XML.
		LMMSCommand CommandLine `json:"lmms_command" mapstructure:"lmms_command"`
		// Pack holds the defaults of the pack command.
		Pack PackConfig `json:"pack" mapstructure:"pack"`
		// Unpack holds the defaults of the unpack command.
		Unpack UnpackConfig `json:"unpack" mapstructure:"unpack"`
		// UI configures console output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// PackConfig holds export defaults.
	PackConfig struct {
		// SoundFonts includes .sf2 files (default: false).
		SoundFonts bool `json:"soundfonts" mapstructure:"soundfonts"`
		// Zip archives the staged directory (default: true).
		Zip bool `json:"zip" mapstructure:"zip"`
	}

	// UnpackConfig holds import defaults.
	UnpackConfig struct {
		// Overwrite replaces existing files in the destination (default: false).
		Overwrite bool `json:"overwrite" mapstructure:"overwrite"`
	}

	// UIConfig configures console output.
	UIConfig struct {
		// Verbose shows progress messages.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// ColorScheme sets the color scheme.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		SearchDirs:  []string{},
		LMMSCommand: DefaultLMMSCommand,
		Pack: PackConfig{
			SoundFonts: false,
			Zip:        true,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined color schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the CommandLine.
func (c CommandLine) String() string { return string(c) }

// Fields splits the command line with shell quoting rules, expanding
// environment variables.
func (c CommandLine) Fields() ([]string, error) {
	return shell.Fields(string(c), os.Getenv)
}

// IsValid returns whether the CommandLine names at least an executable.
func (c CommandLine) IsValid() (bool, []error) {
	if strings.TrimSpace(string(c)) == "" {
		return false, []error{&InvalidCommandLineError{Value: c, Reason: "must not be empty"}}
	}
	fields, err := c.Fields()
	if err != nil {
		return false, []error{&InvalidCommandLineError{Value: c, Reason: err.Error()}}
	}
	if len(fields) == 0 {
		return false, []error{&InvalidCommandLineError{Value: c, Reason: "expands to nothing"}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCommandLineError.
func (e *InvalidCommandLineError) Error() string {
	return fmt.Sprintf("invalid command line %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidCommandLine for errors.Is() compatibility.
func (e *InvalidCommandLineError) Unwrap() error { return ErrInvalidCommandLine }

// Error implements the error interface for InvalidSearchDirError.
func (e *InvalidSearchDirError) Error() string {
	return fmt.Sprintf("search_dirs[%d]: must not be empty", e.Index)
}

// Unwrap returns ErrInvalidSearchDir for errors.Is() compatibility.
func (e *InvalidSearchDirError) Unwrap() error { return ErrInvalidSearchDir }

// IsValid returns whether the Config has valid fields.
// Bool-only sections need no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for i, dir := range c.SearchDirs {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, &InvalidSearchDirError{Index: i})
		}
	}
	if valid, fieldErrs := c.LMMSCommand.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
