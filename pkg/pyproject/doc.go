// SPDX-License-Identifier: MPL-2.0

// Package pyproject patches a pyproject.toml in place: it hard-codes
// project.version and removes the setuptools-git-versioning plugin, which
// otherwise fails when a package is built from a source tarball without Git
// metadata.
//
// Edits happen inside a scoped session that reads the file once and writes it
// once, only when the edit function succeeds:
//
//	err := pyproject.PatchInPlace("pyproject.toml", func(p *pyproject.Patcher) error {
//		if err := p.SetProjectVersionFromEnv("pkgver"); err != nil {
//			return err
//		}
//		return p.Tools().SetuptoolsGitVersioning().Remove()
//	})
//
// setuptools-scm honours SETUPTOOLS_SCM_PRETEND_VERSION, but
// setuptools-git-versioning only offers a version_file setting that upstream
// projects rarely configure. Removing the plugin from the manifest has the
// same effect and also avoids failing build-system checks caused by version
// constraints such as `setuptools-git-versioning<2`.
package pyproject
