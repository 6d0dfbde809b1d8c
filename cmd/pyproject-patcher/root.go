// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pyproject-patcher",
		Short: "Patch pyproject.toml for building from source snapshots",
		Long: TitleStyle.Render("pyproject-patcher") + SubtitleStyle.Render(" - Patch pyproject.toml for building from source snapshots") + `

pyproject-patcher edits a pyproject.toml in place for downstream packagers.
It hard-codes the project version and removes version plugins that need
VCS history, while keeping comments and formatting intact.

` + SubtitleStyle.Render("Examples:") + `
  pyproject-patcher set-version 1.2.3          Set project.version
  pyproject-patcher set-version                Read the version from $pkgver
  pyproject-patcher remove-git-versioning      Drop setuptools-git-versioning
  pyproject-patcher patch --version-from-env pkgver --remove-git-versioning`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.initialize(cmd.Context())
		},
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().StringVarP(&app.flags.file, "file", "f", "", "manifest to patch (default from config, then pyproject.toml)")
	rootCmd.PersistentFlags().StringVar(&app.flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/pyproject-patcher/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(
		newSetVersionCommand(app),
		newRemoveDependencyCommand(app),
		newRemoveGitVersioningCommand(app),
		newSetuptoolsCommand(app),
		newPatchCommand(app),
		newVersionCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// handleError prints errors that were not already rendered by a command.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(exitFailure)
	}
}
