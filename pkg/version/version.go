// SPDX-License-Identifier: MPL-2.0

// Package version discovers the version of a project, preferring the static
// version declared in a local manifest over the version recorded in the Go
// build information of the running binary.
package version

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime/debug"

	"github.com/pelletier/go-toml/v2"

	"pyproject-patcher/pkg/tomldoc"
)

const (
	// SourceNone means no version could be found.
	SourceNone Source = iota
	// SourceManifest means the version was read from a pyproject.toml.
	SourceManifest
	// SourceBuildInfo means the version came from the binary's build information.
	SourceBuildInfo
)

// develVersion is reported by the Go toolchain for builds from a work tree.
const develVersion = "(devel)"

type (
	// Source identifies where a version was found.
	Source uint8

	// Info is the result of Discover.
	Info struct {
		Version string
		Source  Source
		// Key is the manifest key the version was read from, or the module
		// path for SourceBuildInfo.
		Key string
	}

	// Options configures Discover.
	Options struct {
		// ManifestPath is the manifest to read first. Empty skips the manifest.
		ManifestPath string
		// ModulePath is the module to look up in the build information.
		// Empty selects the main module.
		ModulePath string
		// ReadBuildInfo replaces debug.ReadBuildInfo.
		ReadBuildInfo func() (*debug.BuildInfo, bool)
	}

	manifest struct {
		Project struct {
			Version string `toml:"version"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Version string `toml:"version"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
)

// String returns a short label for the source.
func (s Source) String() string {
	switch s {
	case SourceManifest:
		return "manifest"
	case SourceBuildInfo:
		return "build info"
	default:
		return "none"
	}
}

// Found reports whether a version was discovered.
func (i Info) Found() bool { return i.Source != SourceNone }

// Discover returns the first version found, in order: project.version and
// tool.poetry.version of the manifest when the file exists, then the module
// version in the build information. A missing manifest is not an error; an
// unreadable or malformed one is.
func Discover(opts Options) (Info, error) {
	if opts.ManifestPath != "" {
		info, err := fromManifest(opts.ManifestPath)
		if err != nil {
			return Info{}, err
		}
		if info.Found() {
			return info, nil
		}
	}

	readBuildInfo := opts.ReadBuildInfo
	if readBuildInfo == nil {
		readBuildInfo = debug.ReadBuildInfo
	}
	return fromBuildInfo(readBuildInfo, opts.ModulePath), nil
}

func fromManifest(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Info{}, nil
	}
	if err != nil {
		return Info{}, fmt.Errorf("read %s: %w", path, err)
	}

	var m manifest
	if err := toml.Unmarshal(tomldoc.TrimBOM(data), &m); err != nil {
		return Info{}, fmt.Errorf("parse %s: %w", path, err)
	}

	switch {
	case m.Project.Version != "":
		return Info{Version: m.Project.Version, Source: SourceManifest, Key: "project.version"}, nil
	case m.Tool.Poetry.Version != "":
		return Info{Version: m.Tool.Poetry.Version, Source: SourceManifest, Key: "tool.poetry.version"}, nil
	default:
		return Info{}, nil
	}
}

func fromBuildInfo(read func() (*debug.BuildInfo, bool), modulePath string) Info {
	bi, ok := read()
	if !ok || bi == nil {
		return Info{}
	}

	mod := &bi.Main
	if modulePath != "" && modulePath != bi.Main.Path {
		mod = nil
		for _, dep := range bi.Deps {
			if dep.Path == modulePath {
				mod = dep
				break
			}
		}
	}
	if mod == nil {
		return Info{}
	}
	path, v := mod.Path, mod.Version
	if mod.Replace != nil && mod.Replace.Version != "" {
		v = mod.Replace.Version
	}
	if v == "" || v == develVersion {
		return Info{}
	}
	return Info{Version: v, Source: SourceBuildInfo, Key: path}
}
