// SPDX-License-Identifier: MPL-2.0

package tomldoc

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const gitVersioningFixture = `[build-system]
requires = ["setuptools", "wheel", "setuptools-git-versioning<2"]
build-backend = "setuptools.build_meta"

[project]
name = "toml_with_git_versioning_lt_2"
description = "Test"
dynamic = ["version"]

[tool.setuptools]
packages = ["toml_with_git_versioning_lt_2"]

[tool.setuptools-git-versioning]
enabled = true
starting_version = "0.1.0"
`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	return doc
}

func TestParse_RoundTripIsIdentity(t *testing.T) {
	t.Parallel()

	src := "# leading comment\n" + gitVersioningFixture + "\n# trailing comment\n"
	doc := mustParse(t, src)
	if diff := cmp.Diff(src, doc.String()); diff != "" {
		t.Errorf("round trip changed the document (-want +got):\n%s", diff)
	}
}

func TestParse_ByteOrderMark(t *testing.T) {
	t.Parallel()

	src := "\xEF\xBB\xBF[project]\nname = \"demo\"\nversion = \"0.0.0\"\n"
	doc := mustParse(t, src)
	if diff := cmp.Diff(src, doc.String()); diff != "" {
		t.Errorf("round trip changed the document (-want +got):\n%s", diff)
	}

	if err := doc.Set(Path{"project", "version"}, "1.0.0"); err != nil {
		t.Fatalf("Set() returned error: %v", err)
	}
	want := "\xEF\xBB\xBF[project]\nname = \"demo\"\nversion = \"1.0.0\"\n"
	if diff := cmp.Diff(want, string(doc.Bytes())); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_InvalidTOML(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("[project\nname = 1\n"))
	if err == nil {
		t.Fatal("expected error for unterminated table header")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if pe.Line != 1 {
		t.Errorf("ParseError.Line = %d, want 1", pe.Line)
	}
}

func TestDocument_Lookup(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, gitVersioningFixture)

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		n, err := doc.Table(Path{"tool", "setuptools-git-versioning"})
		if err != nil {
			t.Fatalf("Table() returned error: %v", err)
		}
		if !n.Has("enabled") {
			t.Error("expected table to contain 'enabled'")
		}
		child, ok := n.Child("starting_version")
		if !ok {
			t.Fatal("expected 'starting_version' child")
		}
		if s, _ := child.String(); s != "0.1.0" {
			t.Errorf("starting_version = %q, want %q", s, "0.1.0")
		}
	})

	t.Run("array", func(t *testing.T) {
		t.Parallel()

		n, err := doc.Array(Path{"build-system", "requires"})
		if err != nil {
			t.Fatalf("Array() returned error: %v", err)
		}
		want := []string{"setuptools", "wheel", "setuptools-git-versioning<2"}
		if diff := cmp.Diff(want, n.Strings()); diff != "" {
			t.Errorf("requires mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing table", func(t *testing.T) {
		t.Parallel()

		_, err := doc.Table(Path{"tool", "poetry"})
		if !errors.Is(err, ErrSectionMissing) {
			t.Fatalf("expected ErrSectionMissing, got %v", err)
		}
	})

	t.Run("wrong shape", func(t *testing.T) {
		t.Parallel()

		_, err := doc.Table(Path{"project", "name"})
		var se *SectionMissingError
		if !errors.As(err, &se) {
			t.Fatalf("expected *SectionMissingError, got %v", err)
		}
		if se.Found != KindScalar {
			t.Errorf("Found = %s, want %s", se.Found, KindScalar)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		_, err := doc.Array(Path{"project", "dependencies"})
		var ke *KeyMissingError
		if !errors.As(err, &ke) {
			t.Fatalf("expected *KeyMissingError, got %v", err)
		}
		if ke.Key != "dependencies" {
			t.Errorf("Key = %q, want %q", ke.Key, "dependencies")
		}
	})
}

func TestDocument_Set(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		path  Path
		value any
		want  string
	}{
		{
			name:  "append to header section",
			src:   "[project]\nname = \"demo\"\ndynamic = [\"version\"]\n\n[tool.setuptools]\npackages = []\n",
			path:  Path{"project", "version"},
			value: "1.2.3",
			want:  "[project]\nname = \"demo\"\ndynamic = [\"version\"]\nversion = \"1.2.3\"\n\n[tool.setuptools]\npackages = []\n",
		},
		{
			name:  "overwrite keeps position and comment",
			src:   "[project]\nversion = '0.0.0' # placeholder\nname = \"demo\"\n",
			path:  Path{"project", "version"},
			value: "2.0.1",
			want:  "[project]\nversion = \"2.0.1\" # placeholder\nname = \"demo\"\n",
		},
		{
			name:  "empty section",
			src:   "[project]\n\n[tool]\n",
			path:  Path{"project", "version"},
			value: "1.0",
			want:  "[project]\nversion = \"1.0\"\n\n[tool]\n",
		},
		{
			name:  "section at end without newline",
			src:   "[project]\nname = \"demo\"",
			path:  Path{"project", "version"},
			value: "1.0",
			want:  "[project]\nname = \"demo\"\nversion = \"1.0\"\n",
		},
		{
			name:  "inline table",
			src:   "project = { name = \"demo\" }\n",
			path:  Path{"project", "version"},
			value: "1.0",
			want:  "project = { name = \"demo\", version = \"1.0\" }\n",
		},
		{
			name:  "dotted keys",
			src:   "project.name = \"demo\"\nother = 1\n",
			path:  Path{"project", "version"},
			value: "1.0",
			want:  "project.name = \"demo\"\nproject.version = \"1.0\"\nother = 1\n",
		},
		{
			name:  "boolean value",
			src:   "[tool.setuptools]\npackages = []\n",
			path:  Path{"tool", "setuptools", "include-package-data"},
			value: false,
			want:  "[tool.setuptools]\npackages = []\ninclude-package-data = false\n",
		},
		{
			name:  "indentation is reused",
			src:   "[project]\n  name = \"demo\"\n",
			path:  Path{"project", "version"},
			value: "1.0",
			want:  "[project]\n  name = \"demo\"\n  version = \"1.0\"\n",
		},
		{
			name:  "crlf line endings",
			src:   "[project]\r\nname = \"demo\"\r\n",
			path:  Path{"project", "version"},
			value: "1.0",
			want:  "[project]\r\nname = \"demo\"\r\nversion = \"1.0\"\r\n",
		},
		{
			name:  "string escaping",
			src:   "[project]\n",
			path:  Path{"project", "description"},
			value: "say \"hi\"\n",
			want:  "[project]\ndescription = \"say \\\"hi\\\"\\n\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, tt.src)
			if err := doc.Set(tt.path, tt.value); err != nil {
				t.Fatalf("Set() returned error: %v", err)
			}
			if diff := cmp.Diff(tt.want, doc.String()); diff != "" {
				t.Errorf("document mismatch (-want +got):\n%s", diff)
			}
			n, ok := doc.Get(tt.path)
			if !ok {
				t.Fatal("value not found after Set()")
			}
			if n.Value() != tt.value {
				t.Errorf("Get() = %v, want %v", n.Value(), tt.value)
			}
		})
	}
}

func TestDocument_Set_MissingSection(t *testing.T) {
	t.Parallel()

	src := "[build-system]\nrequires = []\n"
	doc := mustParse(t, src)

	err := doc.Set(Path{"project", "version"}, "1.0")
	if !errors.Is(err, ErrSectionMissing) {
		t.Fatalf("expected ErrSectionMissing, got %v", err)
	}
	if doc.String() != src {
		t.Errorf("document changed after failed Set():\n%s", doc.String())
	}
}

func TestDocument_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		path Path
		want string
	}{
		{
			name: "last section takes preceding blank lines",
			src:  gitVersioningFixture,
			path: Path{"tool", "setuptools-git-versioning"},
			want: `[build-system]
requires = ["setuptools", "wheel", "setuptools-git-versioning<2"]
build-backend = "setuptools.build_meta"

[project]
name = "toml_with_git_versioning_lt_2"
description = "Test"
dynamic = ["version"]

[tool.setuptools]
packages = ["toml_with_git_versioning_lt_2"]
`,
		},
		{
			name: "middle section keeps following comment",
			src:  "[tool.sgv]\nenabled = true\n\n# formatter\n[tool.black]\nline-length = 88\n",
			path: Path{"tool", "sgv"},
			want: "# formatter\n[tool.black]\nline-length = 88\n",
		},
		{
			name: "comment directly above the header goes with the section",
			src:  "# plugin config\n[tool.sgv]\nenabled = true\n\n[tool.setuptools]\npackages = []\n",
			path: Path{"tool", "sgv"},
			want: "[tool.setuptools]\npackages = []\n",
		},
		{
			name: "attached comment block of the last section",
			src:  "[tool.setuptools]\npackages = []\n\n# plugin config\n# see upstream docs\n[tool.sgv]\nenabled = true\n",
			path: Path{"tool", "sgv"},
			want: "[tool.setuptools]\npackages = []\n",
		},
		{
			name: "comment attached to the next header stays",
			src:  "[tool.sgv]\nenabled = true\n# formatter\n[tool.black]\nline-length = 88\n",
			path: Path{"tool", "sgv"},
			want: "# formatter\n[tool.black]\nline-length = 88\n",
		},
		{
			name: "comment separated by a blank line stays",
			src:  "# project notes\n\n[tool.sgv]\nenabled = true\n\n[b]\ny = 2\n",
			path: Path{"tool", "sgv"},
			want: "# project notes\n\n[b]\ny = 2\n",
		},
		{
			name: "sub-tables go with their parent",
			src:  "[a]\nx = 1\n\n[tool.sgv]\nenabled = true\n\n[tool.sgv.template]\ndev = \"{tag}\"\n\n[b]\ny = 2\n",
			path: Path{"tool", "sgv"},
			want: "[a]\nx = 1\n\n[b]\ny = 2\n",
		},
		{
			name: "dotted keys in parent section",
			src:  "[tool]\nsgv.enabled = true\nsgv.starting_version = \"0.1.0\"\nother = 1\n",
			path: Path{"tool", "sgv"},
			want: "[tool]\nother = 1\n",
		},
		{
			name: "inline table entry",
			src:  "tool = { sgv = { enabled = true }, other = 1 }\n",
			path: Path{"tool", "sgv"},
			want: "tool = { other = 1 }\n",
		},
		{
			name: "scalar key",
			src:  "[project]\nname = \"demo\"\nversion = \"1.0\" # static\ndynamic = []\n",
			path: Path{"project", "version"},
			want: "[project]\nname = \"demo\"\ndynamic = []\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, tt.src)
			if err := doc.Delete(tt.path); err != nil {
				t.Fatalf("Delete() returned error: %v", err)
			}
			if diff := cmp.Diff(tt.want, doc.String()); diff != "" {
				t.Errorf("document mismatch (-want +got):\n%s", diff)
			}
			if _, ok := doc.Get(tt.path); ok {
				t.Error("path still resolves after Delete()")
			}
		})
	}
}

func TestDocument_Delete_Strict(t *testing.T) {
	t.Parallel()

	t.Run("missing parent", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, "[project]\nname = \"demo\"\n")
		err := doc.Delete(Path{"tool", "sgv"})
		if !errors.Is(err, ErrSectionMissing) {
			t.Fatalf("expected ErrSectionMissing, got %v", err)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, "[tool.black]\nline-length = 88\n")
		err := doc.Delete(Path{"tool", "sgv"})
		if !errors.Is(err, ErrKeyMissing) {
			t.Fatalf("expected ErrKeyMissing, got %v", err)
		}
	})
}

func TestDocument_RemoveElement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		index int
		want  string
	}{
		{
			name:  "last inline element",
			src:   "requires = [\"setuptools\", \"wheel\", \"setuptools-git-versioning<2\"]\n",
			index: 2,
			want:  "requires = [\"setuptools\", \"wheel\"]\n",
		},
		{
			name:  "first inline element",
			src:   "requires = [\"setuptools\", \"wheel\", \"setuptools-git-versioning<2\"]\n",
			index: 0,
			want:  "requires = [\"wheel\", \"setuptools-git-versioning<2\"]\n",
		},
		{
			name:  "sole element",
			src:   "requires = [ \"version\" ]\n",
			index: 0,
			want:  "requires = []\n",
		},
		{
			name:  "trailing comma",
			src:   "requires = [\"a\", \"b\",]\n",
			index: 1,
			want:  "requires = [\"a\"]\n",
		},
		{
			name:  "own line with comment",
			src:   "requires = [\n    \"setuptools\",  # backend\n    \"setuptools-git-versioning<2\",\n]\n",
			index: 0,
			want:  "requires = [\n    \"setuptools-git-versioning<2\",\n]\n",
		},
		{
			name:  "own line without trailing comma",
			src:   "requires = [\n    \"setuptools\",\n    \"setuptools-git-versioning<2\"\n]\n",
			index: 1,
			want:  "requires = [\n    \"setuptools\",\n]\n",
		},
		{
			name:  "comment line between elements stays",
			src:   "requires = [\n    \"a\",\n    # pinned below\n    \"b\",\n]\n",
			index: 1,
			want:  "requires = [\n    \"a\",\n    # pinned below\n]\n",
		},
		{
			name:  "date-time element",
			src:   "requires = [true, 1979-05-27T07:32:00Z, [1, 2], { a = 1 }]\n",
			index: 1,
			want:  "requires = [true, [1, 2], { a = 1 }]\n",
		},
		{
			name:  "nested array element",
			src:   "requires = [true, 1979-05-27T07:32:00Z, [1, 2], { a = 1 }]\n",
			index: 2,
			want:  "requires = [true, 1979-05-27T07:32:00Z, { a = 1 }]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, tt.src)
			if err := doc.RemoveElement(Path{"requires"}, tt.index); err != nil {
				t.Fatalf("RemoveElement() returned error: %v", err)
			}
			if diff := cmp.Diff(tt.want, doc.String()); diff != "" {
				t.Errorf("document mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDocument_RemoveString(t *testing.T) {
	t.Parallel()

	t.Run("removes first match", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, "[project]\ndynamic = [\"readme\", \"version\"]\n")
		if err := doc.RemoveString(Path{"project", "dynamic"}, "version"); err != nil {
			t.Fatalf("RemoveString() returned error: %v", err)
		}
		want := "[project]\ndynamic = [\"readme\"]\n"
		if diff := cmp.Diff(want, doc.String()); diff != "" {
			t.Errorf("document mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("absent element is an error", func(t *testing.T) {
		t.Parallel()

		src := "[project]\ndynamic = [\"readme\"]\n"
		doc := mustParse(t, src)
		err := doc.RemoveString(Path{"project", "dynamic"}, "version")
		var ee *ElementMissingError
		if !errors.As(err, &ee) {
			t.Fatalf("expected *ElementMissingError, got %v", err)
		}
		if doc.String() != src {
			t.Error("document changed after failed RemoveString()")
		}
	})
}
