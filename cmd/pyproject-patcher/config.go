// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyproject-patcher/internal/config"
	"pyproject-patcher/internal/issue"
)

// newConfigCommand creates the `pyproject-patcher config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pyproject-patcher configuration",
		Long: `Manage pyproject-patcher configuration.

Configuration is read from the first file found:
  - the --config flag
  - Linux: ~/.config/pyproject-patcher/config.toml
  - macOS: ~/Library/Application Support/pyproject-patcher/config.toml
  - Windows: %APPDATA%\pyproject-patcher\config.toml
  - ./pyproject-patcher.toml

Every key can be overridden with a PYPROJECT_PATCHER_<KEY> environment
variable, e.g. PYPROJECT_PATCHER_UI_COLOR=never.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	opts := app.loadOptions()
	cfg, err := app.Config.Load(cmd.Context(), opts)
	if err != nil {
		cmd.SilenceErrors = true
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(app.stderr, rendered)
		fmt.Fprintf(app.stderr, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, app.flags.verbose))
		return &ExitError{Code: exitUsage}
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	path, err := config.Resolve(opts)
	if err != nil || path == "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("manifest"), SuccessStyle.Render(cfg.Manifest))
	fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("version_env"), SuccessStyle.Render(cfg.VersionEnv))
	fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("log_level"), SuccessStyle.Render(cfg.LogLevel.String()))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", KeyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  color: %s\n", SuccessStyle.Render(cfg.UI.Color.String()))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", SuccessStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)

	path, err := config.Resolve(app.loadOptions())
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(app.stdout, "Config file: (none, using defaults)")
		return nil
	}
	fmt.Fprintf(app.stdout, "Config file: %s\n", path)
	return nil
}
