// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"pyproject-patcher/internal/issue"
	"pyproject-patcher/pkg/pyproject"
	"pyproject-patcher/pkg/requirement"
	"pyproject-patcher/pkg/tomldoc"
)

func TestClassifyPatchError(t *testing.T) {
	t.Parallel()

	_, parseErr := tomldoc.Parse([]byte("[project\n"))
	_, reqErr := requirement.Parse("foo >= ")

	tests := []struct {
		name        string
		err         error
		wantIssueID issue.Id
		wantInStyle []string
	}{
		{
			name:        "missing manifest",
			err:         fmt.Errorf("open pyproject.toml: %w", fs.ErrNotExist),
			wantIssueID: issue.ManifestNotFoundId,
			wantInStyle: []string{"Error:", "file does not exist"},
		},
		{
			name:        "permission denied",
			err:         fmt.Errorf("write pyproject.toml: %w", fs.ErrPermission),
			wantIssueID: issue.PermissionDeniedId,
		},
		{
			name:        "parse error",
			err:         fmt.Errorf("parse pyproject.toml: %w", parseErr),
			wantIssueID: issue.ManifestParseErrorId,
		},
		{
			name:        "unset version variable",
			err:         &pyproject.ConfigurationError{Variable: "pkgver"},
			wantIssueID: issue.VersionNotSetId,
			wantInStyle: []string{"`pkgver` not set in environment"},
		},
		{
			name:        "section missing",
			err:         &tomldoc.SectionMissingError{Path: tomldoc.Path{"project"}},
			wantIssueID: issue.SectionMissingId,
		},
		{
			name:        "key missing",
			err:         &tomldoc.KeyMissingError{Table: tomldoc.Path{"build-system"}, Key: "requires"},
			wantIssueID: issue.KeyMissingId,
		},
		{
			name:        "element missing",
			err:         &tomldoc.ElementMissingError{Path: tomldoc.Path{"project", "dynamic"}, Value: "version"},
			wantIssueID: issue.ElementMissingId,
		},
		{
			name:        "invalid requirement",
			err:         reqErr,
			wantIssueID: issue.InvalidRequirementId,
		},
		{
			name: "actionable error keeps suggestions",
			err: issue.NewErrorContext().
				WithOperation("set project version").
				WithResource("pyproject.toml").
				Wrap(&pyproject.ConfigurationError{Variable: "pkgver"}).
				BuildError(),
			wantIssueID: issue.VersionNotSetId,
			wantInStyle: []string{"failed to set project version in pyproject.toml", "export pkgver=<version>"},
		},
		{
			name:        "unknown error",
			err:         fmt.Errorf("boom"),
			wantIssueID: 0,
			wantInStyle: []string{"boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.err == nil {
				t.Fatal("test case error is nil")
			}
			issueID, styled := classifyPatchError(tt.err, false)
			if issueID != tt.wantIssueID {
				t.Errorf("issueID = %d, want %d", issueID, tt.wantIssueID)
			}
			for _, want := range tt.wantInStyle {
				if !strings.Contains(styled, want) {
					t.Errorf("styled message %q does not contain %q", styled, want)
				}
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	if got := exitCodeFor(&pyproject.ConfigurationError{Variable: "pkgver"}); got != exitUsage {
		t.Errorf("exitCodeFor(ConfigurationError) = %d, want %d", got, exitUsage)
	}
	if got := exitCodeFor(tomldoc.ErrSectionMissing); got != exitFailure {
		t.Errorf("exitCodeFor(ErrSectionMissing) = %d, want %d", got, exitFailure)
	}
}
