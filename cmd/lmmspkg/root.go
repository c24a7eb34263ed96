// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/lmmspkg/lmms-pkg/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the lmms-pkg command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lmms-pkg",
		Short: "Package LMMS projects together with their samples",
		Long: TitleStyle.Render("lmms-pkg") + SubtitleStyle.Render(" - Package LMMS projects together with their samples") + `

lmms-pkg collects every sample and SoundFont an LMMS project refers to,
copies them next to the project, and zips the result into a portable
.mmpk package. Unpacking restores a ready-to-open project on any machine.

` + SubtitleStyle.Render("Examples:") + `
  lmms-pkg pack song.mmp --target out          Create out.mmpk
  lmms-pkg pack song.mmpz --target out --sf2   Include SoundFonts
  lmms-pkg unpack out.mmpk --target restored   Extract and relink
  lmms-pkg check out.mmpk                      Verify a package
  lmms-pkg info out.mmpk --format json         Describe a package`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.loadConfig(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "show progress messages")
	rootCmd.PersistentFlags().StringVar(&app.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/lmms-pkg/config.cue)")

	rootCmd.AddCommand(newPackCommand(app))
	rootCmd.AddCommand(newUnpackCommand(app))
	rootCmd.AddCommand(newCheckCommand(app))
	rootCmd.AddCommand(newInfoCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the command line in os.Args and returns the process exit code.
func Run() int {
	return run(context.Background(), os.Args[1:], Dependencies{})
}

func run(ctx context.Context, args []string, deps Dependencies) int {
	app := NewApp(deps)
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	// fang.WithVersion is required because fang overrides rootCmd.Version.
	if err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return int(exitErr.Code)
		}
		return int(types.ExitFailure)
	}
	return int(types.ExitSuccess)
}

// Execute runs lmms-pkg and exits the process. It is called by main.main().
func Execute() {
	os.Exit(Run())
}
