// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pyproject-patcher/pkg/pyproject"
	"pyproject-patcher/pkg/tomldoc"
)

var errVersionAndEnv = errors.New("a VERSION argument and --from-env are mutually exclusive")

// newSetVersionCommand creates `pyproject-patcher set-version`.
func newSetVersionCommand(app *App) *cobra.Command {
	var fromEnv string

	cmd := &cobra.Command{
		Use:   "set-version [VERSION]",
		Short: "Set project.version",
		Long: `Set project.version in the manifest.

Without VERSION the version is read from an environment variable: the one
named by --from-env, or version_env from the configuration (default pkgver).
An unset or empty variable fails without touching the manifest.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && fromEnv != "" {
				cmd.SilenceUsage = false
				return &ExitError{Code: exitUsage, Err: errVersionAndEnv}
			}
			if len(args) == 1 {
				version := args[0]
				return app.patch(cmd, "set project version", func(p *pyproject.Patcher) error {
					return p.SetProjectVersion(version)
				})
			}

			key := fromEnv
			if key == "" {
				key = app.settings().VersionEnv
			}
			return app.patch(cmd, "set project version", func(p *pyproject.Patcher) error {
				return p.SetProjectVersionFromEnv(key)
			})
		},
	}

	cmd.Flags().StringVar(&fromEnv, "from-env", "", "environment variable holding the version")

	return cmd
}

// newRemoveDependencyCommand creates `pyproject-patcher remove-dependency`.
func newRemoveDependencyCommand(app *App) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "remove-dependency NAME...",
		Short: "Remove requirements from a dependency list",
		Long: `Remove every requirement whose package name equals NAME from a
dependency list. Names match exactly, as written in the manifest; version
constraints, extras and markers are ignored for matching. Absent names are
not an error.`,
		Example: `  pyproject-patcher remove-dependency setuptools-git-versioning
  pyproject-patcher remove-dependency --from project.dependencies pytest`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := tomldoc.ParsePath(from)
			if err != nil {
				cmd.SilenceUsage = false
				return &ExitError{Code: exitUsage, Err: fmt.Errorf("invalid --from: %w", err)}
			}
			return app.patch(cmd, "remove dependency", func(p *pyproject.Patcher) error {
				for _, name := range args {
					if err := p.RemoveDependency(list, name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "build-system.requires", "dotted key of the dependency list")

	return cmd
}

// newRemoveGitVersioningCommand creates `pyproject-patcher remove-git-versioning`.
func newRemoveGitVersioningCommand(app *App) *cobra.Command {
	var sectionOnly bool

	cmd := &cobra.Command{
		Use:   "remove-git-versioning",
		Short: "Drop the setuptools-git-versioning plugin",
		Long: `Drop the setuptools-git-versioning plugin: remove "version" from
project.dynamic, delete [tool.setuptools-git-versioning] and remove the plugin
from build-system.requires. Combine with set-version to keep a version.

With --section-only only the [tool.setuptools-git-versioning] table is deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.patch(cmd, "remove setuptools-git-versioning", func(p *pyproject.Patcher) error {
				if sectionOnly {
					return p.RemoveSetuptoolsGitVersioningSection()
				}
				return p.Tools().SetuptoolsGitVersioning().Remove()
			})
		},
	}

	cmd.Flags().BoolVar(&sectionOnly, "section-only", false, "only delete the [tool.setuptools-git-versioning] table")

	return cmd
}

// newSetuptoolsCommand creates the `pyproject-patcher setuptools` command tree.
func newSetuptoolsCommand(app *App) *cobra.Command {
	stCmd := &cobra.Command{
		Use:   "setuptools",
		Short: "Patch [tool.setuptools]",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	stCmd.AddCommand(&cobra.Command{
		Use:   "include-package-data",
		Short: "Set tool.setuptools.include-package-data = true",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.patch(cmd, "include package data", func(p *pyproject.Patcher) error {
				return p.Tools().Setuptools().IncludePackageData(true)
			})
		},
	})

	stCmd.AddCommand(&cobra.Command{
		Use:   "exclude-package-data",
		Short: "Set tool.setuptools.include-package-data = false",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.patch(cmd, "exclude package data", func(p *pyproject.Patcher) error {
				return p.Tools().Setuptools().ExcludePackageData()
			})
		},
	})

	return stCmd
}
