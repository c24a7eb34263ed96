// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lmmspkg/lmms-pkg/pkg/packager"
	"github.com/lmmspkg/lmms-pkg/pkg/types"
)

type packFlags struct {
	target      string
	noZip       bool
	soundFonts  bool
	searchDirs  []string
	lmmsCommand string
}

func newPackCommand(app *App) *cobra.Command {
	var flags packFlags

	packCmd := &cobra.Command{
		Use:     "pack <project.mmp|project.mmpz>",
		Aliases: []string{"export"},
		Short:   "Package a project and its resources",
		Long: `Package a project and every resource it references.

The project is staged in the --target directory next to a resources/
directory holding copies of all referenced samples, and the directory is
zipped into <target>.mmpk. Resources that are not found at their recorded
path are searched for in --rsc-dirs, then in the configured search_dirs,
then next to the project. Compressed .mmpz projects are converted with
'lmms --dump' first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, app, args[0], flags)
		},
	}

	packCmd.Flags().StringVarP(&flags.target, "target", "t", "", "staging directory for the package (required)")
	packCmd.Flags().BoolVar(&flags.noZip, "no-zip", false, "leave the staged directory unzipped")
	packCmd.Flags().BoolVar(&flags.soundFonts, "sf2", false, "include .sf2 SoundFonts")
	packCmd.Flags().StringSliceVar(&flags.searchDirs, "rsc-dirs", nil, "extra directories (or glob patterns) searched for resources")
	packCmd.Flags().StringVar(&flags.lmmsCommand, "lmms-command", "", "command used to convert .mmpz projects (default from config, else 'lmms')")
	_ = packCmd.MarkFlagRequired("target")

	return packCmd
}

func runPack(cmd *cobra.Command, app *App, source string, flags packFlags) error {
	if err := validatePaths(source, flags.target); err != nil {
		return app.fail(err)
	}

	cfg := app.settings()
	opts := packager.PackOptions{
		Source:      source,
		Destination: flags.target,
		SearchDirs:  append(append([]string{}, flags.searchDirs...), cfg.SearchDirs...),
		SoundFonts:  flags.soundFonts || cfg.Pack.SoundFonts,
		Zip:         cfg.Pack.Zip && !flags.noZip,
		LMMSCommand: cfg.LMMSCommand.String(),
		Logger:      app.progress(),
	}
	if flags.lmmsCommand != "" {
		opts.LMMSCommand = flags.lmmsCommand
	}

	result, err := packager.Pack(cmd.Context(), opts)
	if err != nil {
		return app.fail(err)
	}

	w := cmd.OutOrStdout()
	if result.Discovered == 0 {
		fmt.Fprintf(w, "%s Project has no resources; staged in %s\n", WarningStyle.Render("!"), result.Path)
		return nil
	}
	fmt.Fprintf(w, "%s Packaged %d of %d resources into %s\n",
		SuccessStyle.Render("✓"), result.Copied, result.Discovered-result.Skipped, result.Path)
	if result.Skipped > 0 {
		fmt.Fprintf(w, "  %s %d SoundFont(s) left out (use --sf2 to include them)\n", SubtitleStyle.Render("•"), result.Skipped)
	}
	if result.Missing > 0 {
		fmt.Fprintf(w, "  %s %d resource(s) could not be found\n", WarningStyle.Render("!"), result.Missing)
	}
	return nil
}

// validatePaths rejects blank path arguments before they reach the packager.
func validatePaths(paths ...string) error {
	for _, p := range paths {
		if valid, errs := types.FilesystemPath(p).IsValid(); !valid {
			return errs[0]
		}
	}
	return nil
}
