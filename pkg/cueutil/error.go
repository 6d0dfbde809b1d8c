// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrValidation is the sentinel error wrapped by ValidationError.
var ErrValidation = errors.New("schema validation failed")

type (
	// Issue is one schema violation.
	Issue struct {
		// Path is the dotted key path of the invalid value (e.g. "ui.color").
		Path string
		// Message describes the violation.
		Message string
	}

	// ValidationError collects the schema violations of one file.
	ValidationError struct {
		FilePath string
		Issues   []Issue
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.Path != "" {
			lines = append(lines, is.Path+": "+is.Message)
		} else {
			lines = append(lines, is.Message)
		}
	}
	if len(lines) == 1 {
		return fmt.Sprintf("%s: %s", e.FilePath, lines[0])
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
}

// Unwrap returns ErrValidation for errors.Is() compatibility.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// FormatError converts a CUE error into a *ValidationError whose issues carry
// dotted key paths, e.g. `config.toml: ui.color: conflicting values`.
// Errors that are not CUE errors are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// cueerrors.Errors promotes any error, so check the chain first.
	var ce cueerrors.Error
	if !errors.As(err, &ce) {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	ve := &ValidationError{FilePath: filePath}
	for _, e := range cueerrors.Errors(err) {
		path := formatPath(e.Path())
		msg := e.Error()

		// CUE sometimes includes the path in the message itself.
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimPrefix(msg, path)
			msg = strings.TrimPrefix(msg, ":")
			msg = strings.TrimSpace(msg)
		}
		ve.Issues = append(ve.Issues, Issue{Path: path, Message: msg})
	}
	return ve
}

// formatPath converts a CUE error path to key-path notation. CUE reports
// paths as flat slices (["rules", "0", "name"]) where numeric elements are
// list indices; the result reads "rules[0].name".
func formatPath(path []string) string {
	var result strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			result.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			result.WriteString(".")
		}
		result.WriteString(part)
	}
	return result.String()
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize verifies that data does not exceed maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
