// SPDX-License-Identifier: MPL-2.0

package version

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"
)

func buildInfo(main debug.Module, deps ...*debug.Module) func() (*debug.BuildInfo, bool) {
	return func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: main, Deps: deps}, true
	}
}

func noBuildInfo() (*debug.BuildInfo, bool) { return nil, false }

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	mainModule := debug.Module{Path: "pyproject-patcher", Version: "v1.2.0"}

	tests := []struct {
		name     string
		manifest string // empty means no manifest file
		module   string
		read     func() (*debug.BuildInfo, bool)
		want     Info
	}{
		{
			name:     "project version wins",
			manifest: "[project]\nversion = \"3.1.4\"\n\n[tool.poetry]\nversion = \"0.0.1\"\n",
			read:     buildInfo(mainModule),
			want:     Info{Version: "3.1.4", Source: SourceManifest, Key: "project.version"},
		},
		{
			name:     "poetry version",
			manifest: "[tool.poetry]\nname = \"demo\"\nversion = \"0.9.0\"\n",
			read:     buildInfo(mainModule),
			want:     Info{Version: "0.9.0", Source: SourceManifest, Key: "tool.poetry.version"},
		},
		{
			name:     "manifest with byte order mark",
			manifest: "\xEF\xBB\xBF[project]\nversion = \"2.0.0\"\n",
			read:     noBuildInfo,
			want:     Info{Version: "2.0.0", Source: SourceManifest, Key: "project.version"},
		},
		{
			name:     "manifest without version falls back",
			manifest: "[project]\nname = \"demo\"\ndynamic = [\"version\"]\n",
			read:     buildInfo(mainModule),
			want:     Info{Version: "v1.2.0", Source: SourceBuildInfo, Key: "pyproject-patcher"},
		},
		{
			name: "no manifest uses main module",
			read: buildInfo(mainModule),
			want: Info{Version: "v1.2.0", Source: SourceBuildInfo, Key: "pyproject-patcher"},
		},
		{
			name:   "dependency module",
			module: "github.com/spf13/cobra",
			read:   buildInfo(mainModule, &debug.Module{Path: "github.com/spf13/cobra", Version: "v1.10.2"}),
			want:   Info{Version: "v1.10.2", Source: SourceBuildInfo, Key: "github.com/spf13/cobra"},
		},
		{
			name:   "replaced dependency",
			module: "example.com/lib",
			read: buildInfo(mainModule, &debug.Module{
				Path:    "example.com/lib",
				Version: "v0.1.0",
				Replace: &debug.Module{Path: "example.com/fork", Version: "v0.1.1"},
			}),
			want: Info{Version: "v0.1.1", Source: SourceBuildInfo, Key: "example.com/lib"},
		},
		{
			name:   "unknown module",
			module: "example.com/absent",
			read:   buildInfo(mainModule),
			want:   Info{},
		},
		{
			name: "devel build",
			read: buildInfo(debug.Module{Path: "pyproject-patcher", Version: "(devel)"}),
			want: Info{},
		},
		{
			name: "no build info",
			read: noBuildInfo,
			want: Info{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := Options{
				ManifestPath:  filepath.Join(t.TempDir(), "pyproject.toml"),
				ModulePath:    tt.module,
				ReadBuildInfo: tt.read,
			}
			if tt.manifest != "" {
				opts.ManifestPath = writeFile(t, tt.manifest)
			}

			got, err := Discover(opts)
			if err != nil {
				t.Fatalf("Discover() returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Discover() = %+v, want %+v", got, tt.want)
			}
			if got.Found() != (tt.want.Source != SourceNone) {
				t.Errorf("Found() = %v", got.Found())
			}
		})
	}
}

func TestDiscover_MalformedManifest(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "[project\nversion = 1\n")
	if _, err := Discover(Options{ManifestPath: path, ReadBuildInfo: noBuildInfo}); err == nil {
		t.Error("expected error for malformed manifest")
	}
}

func TestSource_String(t *testing.T) {
	t.Parallel()

	tests := map[Source]string{
		SourceNone:      "none",
		SourceManifest:  "manifest",
		SourceBuildInfo: "build info",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("Source(%d).String() = %q, want %q", s, got, want)
		}
	}
}
