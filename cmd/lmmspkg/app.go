// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/lmmspkg/lmms-pkg/internal/config"
	"github.com/lmmspkg/lmms-pkg/internal/logging"
	"github.com/lmmspkg/lmms-pkg/pkg/types"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Resolve(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	// App wires CLI services and shared state. Every command handler receives
	// the App and reads the loaded configuration, the logger and the output
	// streams from it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		// set by the root command before any subcommand runs
		verbose    bool
		configFile string
		cfg        *config.Config
		cfgPath    string
		logger     *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp creates an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadConfig resolves the configuration for this invocation. A broken
// default config file only produces a warning; a file named with --config
// must load.
func (a *App) loadConfig(ctx context.Context) error {
	cfg, path, err := a.Config.Resolve(ctx, config.LoadOptions{ConfigFilePath: a.configFile})
	if err != nil {
		if a.configFile != "" {
			return a.fail(err)
		}
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.verbose))
		cfg = config.DefaultConfig()
		path = ""
	}
	a.cfg = cfg
	a.cfgPath = path
	if cfg.UI.Verbose {
		a.verbose = true
	}
	a.logger = logging.New(a.stderr, a.verbose)
	return nil
}

// settings returns the loaded configuration, or defaults before loading.
func (a *App) settings() *config.Config {
	if a.cfg == nil {
		return config.DefaultConfig()
	}
	return a.cfg
}

// progress returns the progress logger, discarding output before loadConfig.
func (a *App) progress() *log.Logger {
	return logging.OrDiscard(a.logger)
}

// issueStyle picks the glamour style for issue rendering.
func (a *App) issueStyle() string {
	switch a.settings().UI.ColorScheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		if f, ok := a.stderr.(*os.File); ok && isTerminal(f) {
			return "dark"
		}
		return "notty"
	}
}

// fail renders err for the user and returns the ExitError the command
// should return. The issue catalog entry is shown in verbose mode.
func (a *App) fail(err error) error {
	err = withHints(err)
	svcErr := newServiceError(err, issueFor(err))
	if a.verbose {
		renderServiceError(a.stderr, svcErr, a.issueStyle())
	}
	slog.Debug("command failed", "error", err)
	return &ExitError{
		Code:    types.ExitFailure,
		Err:     svcErr,
		Message: formatErrorForDisplay(err, a.verbose),
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
