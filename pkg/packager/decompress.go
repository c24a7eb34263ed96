// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/shell"

	"github.com/lmmspkg/lmms-pkg/pkg/platform"
)

// DefaultLMMSCommand is the converter used when none is configured.
const DefaultLMMSCommand = "lmms"

// ErrConverter is returned when the external converter cannot produce a project.
var ErrConverter = errors.New("project conversion failed")

// Decompress turns a compressed .mmpz project into plain XML at outPath by
// running "<command> --dump <src>". command is split with shell field rules
// so that wrappers such as "flatpak run io.lmms.LMMS" work. Inside a Flatpak
// sandbox the command is run on the host. The output file must not exist;
// it is removed again if the conversion fails.
func Decompress(ctx context.Context, command, src, outPath string) (err error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultLMMSCommand
	}
	fields, err := shell.Fields(command, os.Getenv)
	if err != nil {
		return fmt.Errorf("%w: invalid command %q: %w", ErrConverter, command, err)
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty command", ErrConverter)
	}

	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConverter, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(outPath)
		}
	}()

	argv := platform.HostCommand(platform.DetectSandbox(), append(slices.Clone(fields), "--dump", src))
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stdout = out
	cmd.Stderr = &stderr

	if runErr := cmd.Run(); runErr != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s: %w: %s", ErrConverter, fields[0], runErr, msg)
		}
		return fmt.Errorf("%w: %s: %w", ErrConverter, fields[0], runErr)
	}
	return nil
}
