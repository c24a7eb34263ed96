// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmmspkg/lmms-pkg/internal/config"
	"github.com/lmmspkg/lmms-pkg/internal/issue"
)

// newConfigCommand creates the `lmms-pkg config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lmms-pkg configuration",
		Long: `Manage lmms-pkg configuration.

Configuration is read from the first of:
  - the file named with --config
  - Linux: ~/.config/lmms-pkg/config.cue
    macOS: ~/Library/Application Support/lmms-pkg/config.cue
    Windows: %APPDATA%\lmms-pkg\config.cue
  - ./config.cue

Every setting can be overridden with an LMMS_PKG_* environment variable,
for example LMMS_PKG_PACK_ZIP=false.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return app.fail(issue.WrapWithContext(err, "locate config directory", ""))
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(w, "Config file: %s\n", config.FilePath(cfgDir))
			if app.cfgPath != "" {
				fmt.Fprintf(w, "Loaded from: %s\n", app.cfgPath)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return app.fail(issue.WrapWithContext(err, "create default configuration", path))
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := strictConfig(cmd, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

// strictConfig reloads the configuration, failing instead of falling back to
// defaults when the file is broken.
func strictConfig(cmd *cobra.Command, app *App) (*config.Config, error) {
	cfg, _, err := app.Config.Resolve(cmd.Context(), config.LoadOptions{ConfigFilePath: app.configFile})
	if err != nil {
		return nil, app.fail(err)
	}
	return cfg, nil
}

func showConfig(cmd *cobra.Command, app *App) error {
	cfg, err := strictConfig(cmd, app)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	keyStyle := KeyStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if app.cfgPath != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), app.cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("search_dirs"))
	if len(cfg.SearchDirs) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, dir := range cfg.SearchDirs {
		fmt.Fprintf(w, "  - %s\n", valueStyle.Render(dir))
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("lmms_command"), valueStyle.Render(cfg.LMMSCommand.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("pack"))
	fmt.Fprintf(w, "  soundfonts: %s\n", valueStyle.Render(fmt.Sprint(cfg.Pack.SoundFonts)))
	fmt.Fprintf(w, "  zip: %s\n", valueStyle.Render(fmt.Sprint(cfg.Pack.Zip)))

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("unpack"))
	fmt.Fprintf(w, "  overwrite: %s\n", valueStyle.Render(fmt.Sprint(cfg.Unpack.Overwrite)))

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(strings.ToLower(cfg.UI.ColorScheme.String())))

	return nil
}
