// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmmspkg/lmms-pkg/pkg/packager"
)

func newCheckCommand(app *App) *cobra.Command {
	format := formatText

	checkCmd := &cobra.Command{
		Use:   "check <package.mmpk>",
		Short: "Verify that a package is complete",
		Long: `Verify that a package holds a valid LMMS project and a resources
directory. Exits with status 1 when the package is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := packager.Check(args[0], app.progress())
			if report != nil {
				w := cmd.OutOrStdout()
				if format == formatText {
					printCheckReport(w, report)
				} else if encErr := encode(w, format, report); encErr != nil {
					return app.fail(encErr)
				}
			}
			if err != nil {
				return app.fail(err)
			}
			return nil
		},
	}

	checkCmd.Flags().Var(&format, "format", "output format: text, json or toml")

	return checkCmd
}

func printCheckReport(w io.Writer, report *packager.CheckReport) {
	if report.Valid {
		fmt.Fprintf(w, "%s %s is a valid package\n", SuccessStyle.Render("✓"), report.Path)
	} else {
		fmt.Fprintf(w, "%s %s is not a valid package: %s\n", ErrorStyle.Render("✗"), report.Path, report.Reason)
	}
	fmt.Fprintf(w, "  %s %d\n", KeyStyle.Render("entries:"), report.Entries)
	if len(report.Projects) > 0 {
		fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("projects:"), strings.Join(report.Projects, ", "))
	}
	fmt.Fprintf(w, "  %s %v\n", KeyStyle.Render("resources:"), report.HasResources)
}
