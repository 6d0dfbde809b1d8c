// SPDX-License-Identifier: MPL-2.0

package pyproject

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"pyproject-patcher/pkg/requirement"
	"pyproject-patcher/pkg/tomldoc"
)

const (
	// GitVersioningTool is the name of the setuptools-git-versioning plugin,
	// used both as its [tool] section key and as its requirement name.
	GitVersioningTool = "setuptools-git-versioning"
	// SetuptoolsTool is the [tool] section key of setuptools.
	SetuptoolsTool = "setuptools"
)

var (
	projectPath            = tomldoc.Path{"project"}
	projectVersionPath     = tomldoc.Path{"project", "version"}
	projectDynamicPath     = tomldoc.Path{"project", "dynamic"}
	buildSystemRequiresKey = tomldoc.Path{"build-system", "requires"}
	setuptoolsPath         = tomldoc.Path{"tool", SetuptoolsTool}
	gitVersioningPath      = tomldoc.Path{"tool", GitVersioningTool}
)

// Patcher applies pyproject.toml mutations to a parsed document.
type Patcher struct {
	doc       *tomldoc.Document
	logger    *log.Logger
	lookupEnv func(string) (string, bool)
	tools     *Tools
}

// New wraps doc. Mutations are applied to doc directly.
func New(doc *tomldoc.Document, opts ...Option) *Patcher {
	o := newOptions(opts)
	return &Patcher{doc: doc, logger: o.logger, lookupEnv: o.lookupEnv}
}

// Document returns the underlying document.
func (p *Patcher) Document() *tomldoc.Document { return p.doc }

// Tools returns the accessor for [tool.*] sections. The same value is
// returned on every call.
func (p *Patcher) Tools() *Tools {
	if p.tools == nil {
		p.tools = &Tools{patcher: p}
	}
	return p.tools
}

// SetProjectVersion assigns project.version, creating the key when absent.
// The [project] table must exist.
func (p *Patcher) SetProjectVersion(version string) error {
	if err := p.doc.Set(projectVersionPath, version); err != nil {
		return fmt.Errorf("set %s: %w", projectVersionPath, err)
	}
	p.logger.Debug("set project version", "version", version)
	return nil
}

// SetProjectVersionFromEnv assigns project.version from the environment
// variable key. An unset or empty variable fails with *ConfigurationError
// and leaves the document untouched.
func (p *Patcher) SetProjectVersionFromEnv(key string) error {
	version, _ := p.lookupEnv(key)
	if version == "" {
		return &ConfigurationError{Variable: key}
	}
	return p.SetProjectVersion(version)
}

// RemoveDependency removes every requirement in the array at list whose
// package name equals moduleName exactly. Names are compared as written,
// without normalization. Removing an absent name is a no-op.
func (p *Patcher) RemoveDependency(list tomldoc.Path, moduleName string) error {
	arr, err := p.doc.Array(list)
	if err != nil {
		return fmt.Errorf("remove %s from %s: %w", moduleName, list, err)
	}

	var matches []int
	for i := range arr.Len() {
		entry, ok := arr.Index(i).String()
		if !ok {
			continue
		}
		name, err := requirement.Name(entry)
		if err != nil {
			return fmt.Errorf("remove %s from %s: %w", moduleName, list, err)
		}
		if name == moduleName {
			matches = append(matches, i)
		}
	}

	for _, i := range slices.Backward(matches) {
		if err := p.doc.RemoveElement(list, i); err != nil {
			return fmt.Errorf("remove %s from %s: %w", moduleName, list, err)
		}
	}
	if len(matches) > 0 {
		p.logger.Debug("removed dependency", "list", list.String(), "name", moduleName, "count", len(matches))
	}
	return nil
}

// RemoveBuildSystemDependency removes moduleName from build-system.requires.
func (p *Patcher) RemoveBuildSystemDependency(moduleName string) error {
	return p.RemoveDependency(buildSystemRequiresKey, moduleName)
}

// RemoveSetuptoolsGitVersioning drops the setuptools-git-versioning plugin:
// "version" is removed from project.dynamic, the [tool.setuptools-git-versioning]
// section is deleted and the plugin is removed from build-system.requires.
// Every step is strict about its target existing, except the requirement
// removal itself.
func (p *Patcher) RemoveSetuptoolsGitVersioning() error {
	if err := p.doc.RemoveString(projectDynamicPath, "version"); err != nil {
		return fmt.Errorf("remove dynamic version: %w", err)
	}
	if err := p.RemoveSetuptoolsGitVersioningSection(); err != nil {
		return err
	}
	return p.RemoveBuildSystemDependency(GitVersioningTool)
}

// RemoveSetuptoolsGitVersioningSection deletes [tool.setuptools-git-versioning]
// and nothing else.
func (p *Patcher) RemoveSetuptoolsGitVersioningSection() error {
	if err := p.doc.Delete(gitVersioningPath); err != nil {
		return fmt.Errorf("delete %s: %w", gitVersioningPath, err)
	}
	p.logger.Debug("deleted section", "path", gitVersioningPath.String())
	return nil
}

// Project returns the [project] table.
func (p *Patcher) Project() (tomldoc.Node, error) {
	return p.doc.Table(projectPath)
}
