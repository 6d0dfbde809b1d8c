// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"pyproject-patcher/pkg/pyproject"
)

var errNothingToPatch = errors.New("no patch requested; see --help for the available flags")

type patchFlags struct {
	version             string
	versionFromEnv      string
	removeBuildDeps     []string
	removeGitVersioning bool
	excludePackageData  bool
}

// empty reports whether no mutation was requested.
func (f patchFlags) empty() bool {
	return f.version == "" && f.versionFromEnv == "" && len(f.removeBuildDeps) == 0 &&
		!f.removeGitVersioning && !f.excludePackageData
}

// apply runs the requested mutations in a fixed order: plugin removal first so
// that a version set afterwards is not removed with the dynamic entry.
func (f patchFlags) apply(p *pyproject.Patcher) error {
	if f.removeGitVersioning {
		if err := p.RemoveSetuptoolsGitVersioning(); err != nil {
			return err
		}
	}
	for _, name := range f.removeBuildDeps {
		if err := p.RemoveBuildSystemDependency(name); err != nil {
			return err
		}
	}
	switch {
	case f.version != "":
		if err := p.SetProjectVersion(f.version); err != nil {
			return err
		}
	case f.versionFromEnv != "":
		if err := p.SetProjectVersionFromEnv(f.versionFromEnv); err != nil {
			return err
		}
	}
	if f.excludePackageData {
		return p.Tools().Setuptools().ExcludePackageData()
	}
	return nil
}

// newPatchCommand creates `pyproject-patcher patch`.
func newPatchCommand(app *App) *cobra.Command {
	var flags patchFlags

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Apply several patches in one session",
		Long: `Apply several patches to the manifest in one session. The manifest is
written once, and only if every requested patch succeeds.`,
		Example: `  pyproject-patcher patch --version-from-env pkgver --remove-git-versioning
  pyproject-patcher patch --version 1.2.3 --remove-build-dependency wheel --exclude-package-data`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.empty() {
				cmd.SilenceUsage = false
				return &ExitError{Code: exitUsage, Err: errNothingToPatch}
			}
			return app.patch(cmd, "patch manifest", flags.apply)
		},
	}

	cmd.Flags().StringVar(&flags.version, "version", "", "set project.version")
	cmd.Flags().StringVar(&flags.versionFromEnv, "version-from-env", "", "set project.version from an environment variable")
	cmd.Flags().StringArrayVar(&flags.removeBuildDeps, "remove-build-dependency", nil, "remove a requirement from build-system.requires (repeatable)")
	cmd.Flags().BoolVar(&flags.removeGitVersioning, "remove-git-versioning", false, "drop the setuptools-git-versioning plugin")
	cmd.Flags().BoolVar(&flags.excludePackageData, "exclude-package-data", false, "set tool.setuptools.include-package-data = false")
	cmd.MarkFlagsMutuallyExclusive("version", "version-from-env")

	return cmd
}
