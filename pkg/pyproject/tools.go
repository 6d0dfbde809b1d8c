// SPDX-License-Identifier: MPL-2.0

package pyproject

import (
	"fmt"

	"pyproject-patcher/pkg/tomldoc"
)

type (
	// Tools groups the per-tool accessors of a Patcher.
	Tools struct {
		patcher       *Patcher
		setuptools    *Setuptools
		gitVersioning *SetuptoolsGitVersioning
	}

	// Setuptools edits [tool.setuptools].
	Setuptools struct {
		patcher *Patcher
	}

	// SetuptoolsGitVersioning edits the setuptools-git-versioning plugin
	// configuration.
	SetuptoolsGitVersioning struct {
		patcher *Patcher
	}
)

// Setuptools returns the [tool.setuptools] accessor, created on first use.
func (t *Tools) Setuptools() *Setuptools {
	if t.setuptools == nil {
		t.setuptools = &Setuptools{patcher: t.patcher}
	}
	return t.setuptools
}

// SetuptoolsGitVersioning returns the plugin accessor, created on first use.
func (t *Tools) SetuptoolsGitVersioning() *SetuptoolsGitVersioning {
	if t.gitVersioning == nil {
		t.gitVersioning = &SetuptoolsGitVersioning{patcher: t.patcher}
	}
	return t.gitVersioning
}

// Table returns the [tool.setuptools] table.
func (s *Setuptools) Table() (tomldoc.Node, error) {
	return s.patcher.doc.Table(setuptoolsPath)
}

// IncludePackageData sets tool.setuptools.include-package-data. The
// [tool.setuptools] table must already exist; it is never created.
func (s *Setuptools) IncludePackageData(value bool) error {
	key := setuptoolsPath.Child("include-package-data")
	if err := s.patcher.doc.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	s.patcher.logger.Debug("set include-package-data", "value", value)
	return nil
}

// ExcludePackageData sets include-package-data to false, so that only files
// listed in MANIFEST.in or package-data are installed.
func (s *Setuptools) ExcludePackageData() error {
	return s.IncludePackageData(false)
}

// Table returns the [tool.setuptools-git-versioning] table.
func (g *SetuptoolsGitVersioning) Table() (tomldoc.Node, error) {
	return g.patcher.doc.Table(gitVersioningPath)
}

// Remove behaves exactly like Patcher.RemoveSetuptoolsGitVersioning.
func (g *SetuptoolsGitVersioning) Remove() error {
	return g.patcher.RemoveSetuptoolsGitVersioning()
}
