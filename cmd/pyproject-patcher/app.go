// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pyproject-patcher/internal/config"
	"pyproject-patcher/internal/issue"
	"pyproject-patcher/pkg/pyproject"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra handler receives an App reference and delegates
	// loading and patching through it.
	App struct {
		Config        ConfigProvider
		LookupEnv     func(string) (string, bool)
		ReadBuildInfo func() (*debug.BuildInfo, bool)
		stdout        io.Writer
		stderr        io.Writer

		flags  rootFlags
		cfg    *config.Config
		logger *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config        ConfigProvider
		LookupEnv     func(string) (string, bool)
		ReadBuildInfo func() (*debug.BuildInfo, bool)
		Stdout        io.Writer
		Stderr        io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// rootFlags holds the persistent flags shared by every command.
	rootFlags struct {
		file       string
		configFile string
		verbose    bool
	}
)

// NewApp creates an App, filling nil dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:        deps.Config,
		LookupEnv:     deps.LookupEnv,
		ReadBuildInfo: deps.ReadBuildInfo,
		stdout:        deps.Stdout,
		stderr:        deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.LookupEnv == nil {
		app.LookupEnv = os.LookupEnv
	}
	if app.ReadBuildInfo == nil {
		app.ReadBuildInfo = debug.ReadBuildInfo
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	app.logger = newLogger(app.stderr, config.DefaultConfig(), false)
	return app
}

// loadOptions returns the config loading inputs derived from the global flags.
func (a *App) loadOptions() config.LoadOptions {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return config.LoadOptions{ConfigFilePath: a.flags.configFile, WorkDir: wd}
}

// initialize loads the configuration and builds the logger. A configuration
// that fails to load is reported and replaced with the defaults.
func (a *App) initialize(ctx context.Context) {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg
	if !a.flags.verbose {
		a.flags.verbose = cfg.UI.Verbose
	}
	applyColorMode(cfg.UI.Color)
	a.logger = newLogger(a.stderr, cfg, a.flags.verbose)
}

// settings returns the loaded configuration, or the defaults before initialize.
func (a *App) settings() *config.Config {
	if a.cfg == nil {
		return config.DefaultConfig()
	}
	return a.cfg
}

// manifestPath returns --file, falling back to the configured manifest.
func (a *App) manifestPath() string {
	if a.flags.file != "" {
		return a.flags.file
	}
	return a.settings().Manifest
}

// patch runs fn inside one scoped session on the manifest. The manifest is
// written only when fn succeeds; failures are rendered to stderr and returned
// as an already-reported *ExitError.
func (a *App) patch(cmd *cobra.Command, operation string, fn func(*pyproject.Patcher) error) error {
	path := a.manifestPath()
	err := pyproject.PatchInPlace(path, fn,
		pyproject.WithLogger(a.logger),
		pyproject.WithLookupEnv(a.LookupEnv),
	)
	if err != nil {
		return a.fail(cmd, issue.NewErrorContext().
			WithOperation(operation).
			WithResource(path).
			Wrap(err).
			BuildError())
	}

	a.logger.Debug("patched manifest", "path", path, "operation", operation)
	fmt.Fprintf(a.stdout, "%s Patched %s\n", SuccessStyle.Render("✓"), KeyStyle.Render(path))
	return nil
}

// fail renders err with its remediation guide and converts it into an
// already-reported *ExitError.
func (a *App) fail(cmd *cobra.Command, err error) error {
	issueID, styled := classifyPatchError(err, a.flags.verbose)
	renderServiceError(a.stderr, a.logger, newServiceError(err, issueID, styled))
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: exitCodeFor(err)}
}

// newLogger builds the CLI logger. Verbose mode always logs at debug level.
func newLogger(w io.Writer, cfg *config.Config, verbose bool) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel.String())
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}
