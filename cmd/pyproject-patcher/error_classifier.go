// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"pyproject-patcher/internal/issue"
	"pyproject-patcher/pkg/pyproject"
	"pyproject-patcher/pkg/requirement"
	"pyproject-patcher/pkg/tomldoc"
)

// classifyPatchError maps patch failures to issue catalog IDs and returns a
// styled message for CLI rendering. It preserves actionable error details.
func classifyPatchError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	var parseErr *tomldoc.ParseError

	switch {
	case errors.Is(err, fs.ErrNotExist):
		issueID = issue.ManifestNotFoundId
	case errors.Is(err, fs.ErrPermission):
		issueID = issue.PermissionDeniedId
	case errors.As(err, &parseErr):
		issueID = issue.ManifestParseErrorId
	case errors.Is(err, pyproject.ErrConfiguration):
		issueID = issue.VersionNotSetId
	case errors.Is(err, tomldoc.ErrSectionMissing):
		issueID = issue.SectionMissingId
	case errors.Is(err, tomldoc.ErrKeyMissing):
		issueID = issue.KeyMissingId
	case errors.Is(err, tomldoc.ErrElementMissing):
		issueID = issue.ElementMissingId
	case errors.Is(err, requirement.ErrSyntax):
		issueID = issue.InvalidRequirementId
	}

	return issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// exitCodeFor returns exitUsage for errors the user fixes in the environment
// and exitFailure otherwise.
func exitCodeFor(err error) int {
	if errors.Is(err, pyproject.ErrConfiguration) {
		return exitUsage
	}
	return exitFailure
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
