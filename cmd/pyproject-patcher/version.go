// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pyproject-patcher/internal/issue"
	"pyproject-patcher/pkg/version"
)

var errVersionNotFound = errors.New("no version found in the manifest or the build information")

// newVersionCommand creates `pyproject-patcher version`.
func newVersionCommand(app *App) *cobra.Command {
	var (
		manifest   string
		modulePath string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the project version",
		Long: `Print the project version: project.version, then tool.poetry.version of
the manifest, then the module version recorded in the build information of
this binary. A missing manifest is skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if manifest == "" {
				manifest = app.manifestPath()
			}
			info, err := version.Discover(version.Options{
				ManifestPath:  manifest,
				ModulePath:    modulePath,
				ReadBuildInfo: app.ReadBuildInfo,
			})
			if err != nil {
				return app.fail(cmd, issue.WrapWithContext(err, "discover version", manifest))
			}
			if !info.Found() {
				fmt.Fprintf(app.stderr, "%s %s\n", ErrorStyle.Render("Error:"), errVersionNotFound)
				cmd.SilenceErrors = true
				return &ExitError{Code: exitFailure}
			}

			app.logger.Debug("discovered version", "source", info.Source.String(), "key", info.Key)
			if app.flags.verbose {
				fmt.Fprintf(app.stdout, "%s %s\n", info.Version, SubtitleStyle.Render("("+info.Source.String()+": "+info.Key+")"))
				return nil
			}
			fmt.Fprintln(app.stdout, info.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&manifest, "manifest", "", "manifest to read first (default is --file)")
	cmd.Flags().StringVar(&modulePath, "module", "", "module path to look up in the build information (default is the main module)")

	return cmd
}
