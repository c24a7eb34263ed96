// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatTOML outputFormat = "toml"
)

// ErrInvalidOutputFormat is returned for an unknown --format value.
var ErrInvalidOutputFormat = errors.New("invalid output format")

type (
	// outputFormat selects how reports are printed. It implements
	// pflag.Value so cobra rejects unknown values while parsing.
	outputFormat string

	// InvalidOutputFormatError is returned when a --format value is not recognized.
	InvalidOutputFormatError struct {
		Value string
	}
)

func (f *outputFormat) String() string { return string(*f) }

func (f *outputFormat) Set(v string) error {
	switch outputFormat(v) {
	case formatText, formatJSON, formatTOML:
		*f = outputFormat(v)
		return nil
	default:
		return &InvalidOutputFormatError{Value: v}
	}
}

func (f *outputFormat) Type() string { return "format" }

// Error implements the error interface.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, toml)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// encode writes v in a machine-readable format.
func encode(w io.Writer, format outputFormat, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatTOML:
		return toml.NewEncoder(w).Encode(v)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidOutputFormat, format)
	}
}
