// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/lmmspkg/lmms-pkg/pkg/types"
)

// ExitError signals a non-zero exit code without calling os.Exit in RunE
// handlers. Message, when set, is what the user sees in place of Err.
type ExitError struct {
	Code    types.ExitCode
	Err     error
	Message string
}

// Error returns the message for ExitError.
func (e *ExitError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("exit status %d", e.Code)
	}
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
