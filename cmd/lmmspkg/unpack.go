// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lmmspkg/lmms-pkg/pkg/packager"
)

func newUnpackCommand(app *App) *cobra.Command {
	var (
		target    string
		overwrite bool
	)

	unpackCmd := &cobra.Command{
		Use:     "unpack <package.mmpk>",
		Aliases: []string{"import"},
		Short:   "Extract a package and relink its resources",
		Long: `Extract a package into the --target directory.

The package is checked first. After extraction a .backup copy of the
project is kept and every resource reference in the project is rewritten
to the absolute path of the extracted file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePaths(args[0], target); err != nil {
				return app.fail(err)
			}

			result, err := packager.Unpack(packager.UnpackOptions{
				Package:     args[0],
				Destination: target,
				Overwrite:   overwrite || app.settings().Unpack.Overwrite,
				Logger:      app.progress(),
			})
			if err != nil {
				return app.fail(err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s Unpacked %s into %s\n", SuccessStyle.Render("✓"), args[0], result.Dir)
			fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("project:"), result.ProjectPath)
			fmt.Fprintf(w, "  %s %d relinked", KeyStyle.Render("resources:"), result.Rewritten)
			if result.Unresolved > 0 {
				fmt.Fprintf(w, ", %s", WarningStyle.Render(fmt.Sprintf("%d not in package", result.Unresolved)))
			}
			fmt.Fprintln(w)
			return nil
		},
	}

	unpackCmd.Flags().StringVarP(&target, "target", "t", "", "directory to extract into (required)")
	unpackCmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace files that already exist in the target")
	_ = unpackCmd.MarkFlagRequired("target")

	return unpackCmd
}
