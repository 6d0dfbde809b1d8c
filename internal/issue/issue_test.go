// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func allIds() []Id {
	return []Id{
		ManifestNotFoundId,
		ManifestParseErrorId,
		SectionMissingId,
		KeyMissingId,
		ElementMissingId,
		VersionNotSetId,
		InvalidRequirementId,
		ConfigLoadFailedId,
		PermissionDeniedId,
	}
}

// stubRender replaces the glamour renderer with the identity function.
func stubRender(t *testing.T) {
	t.Helper()
	original := render
	t.Cleanup(func() { render = original })
	render = func(in string, _ string) (string, error) { return in, nil }
}

func TestId_Constants(t *testing.T) {
	t.Parallel()

	seen := make(map[Id]bool)
	for _, id := range allIds() {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}
	if ManifestNotFoundId != 1 {
		t.Errorf("ManifestNotFoundId = %d, want 1", ManifestNotFoundId)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{ManifestNotFoundId, false, "No manifest found"},
		{ManifestParseErrorId, false, "not valid TOML"},
		{SectionMissingId, false, "required table is missing"},
		{KeyMissingId, false, "required key is missing"},
		{ElementMissingId, false, "list entry not found"},
		{VersionNotSetId, false, "Version variable not set"},
		{InvalidRequirementId, false, "Invalid requirement"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{PermissionDeniedId, false, "Permission denied"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			t.Parallel()

			issue := Get(tt.id)
			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}
			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Get(%d).Id() = %d", tt.id, issue.Id())
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	t.Parallel()

	issues := Values()
	if len(issues) != len(allIds()) {
		t.Fatalf("Values() returned %d issues, want %d", len(issues), len(allIds()))
	}
	for i, issue := range issues {
		if issue.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, issue.Id(), i+1)
		}
		if issue.MarkdownMsg() == "" {
			t.Errorf("issue %d has empty MarkdownMsg", issue.Id())
		}
	}
}

func TestIssue_DocLinksAreCloned(t *testing.T) {
	t.Parallel()

	issue := Get(ManifestNotFoundId)
	links := issue.DocLinks()
	if len(links) == 0 {
		t.Fatal("ManifestNotFound should carry doc links")
	}
	original := links[0]
	links[0] = "modified"
	if issue.DocLinks()[0] != original {
		t.Error("DocLinks() should return a clone")
	}
}

func TestIssue_Markdown(t *testing.T) {
	t.Parallel()

	withLinks := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test Issue",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}
	want := "# Test Issue\n\n## See also\n- <https://docs.example.com>\n- <https://external.example.com>\n"
	if got := withLinks.Markdown(); got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}

	noLinks := &Issue{id: Id(9998), mdMsg: "# Test Issue"}
	if got := noLinks.Markdown(); strings.Contains(got, "See also") {
		t.Errorf("Markdown() without links should not contain 'See also': %q", got)
	}
}

//nolint:paralleltest // mutates the package-level renderer
func TestAllIssuesAreRenderable(t *testing.T) {
	stubRender(t)

	for _, issue := range Values() {
		rendered, err := issue.Render("dark")
		if err != nil {
			t.Errorf("issue %d failed to render: %v", issue.Id(), err)
		}
		if rendered != issue.Markdown() {
			t.Errorf("issue %d rendered unexpected content", issue.Id())
		}
	}
}

//nolint:paralleltest // uses the real glamour renderer with a fixed style
func TestIssue_Render_Glamour(t *testing.T) {
	rendered, err := Get(VersionNotSetId).Render("notty")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "export pkgver=1.2.3") {
		t.Errorf("rendered guide should keep the code block, got:\n%s", rendered)
	}
}
