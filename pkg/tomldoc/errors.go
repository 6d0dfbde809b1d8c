// SPDX-License-Identifier: MPL-2.0

package tomldoc

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrSectionMissing is the sentinel error wrapped by SectionMissingError.
	ErrSectionMissing = errors.New("section missing")
	// ErrKeyMissing is the sentinel error wrapped by KeyMissingError.
	ErrKeyMissing = errors.New("key missing")
	// ErrElementMissing is the sentinel error wrapped by ElementMissingError.
	ErrElementMissing = errors.New("element missing")
	// ErrInvalidPath is returned when a key path is empty or malformed.
	ErrInvalidPath = errors.New("invalid key path")
	// ErrUnsupportedValue is returned when a Go value has no inline TOML encoding.
	ErrUnsupportedValue = errors.New("unsupported value")
)

type (
	// SectionMissingError is returned when a mutation targets a path that does
	// not exist, or exists with the wrong shape (e.g. a scalar where a table is
	// expected). Found is KindInvalid when the path is absent.
	SectionMissingError struct {
		Path  Path
		Want  Kind
		Found Kind
	}

	// KeyMissingError is returned when a key is absent from an existing table.
	KeyMissingError struct {
		Table Path
		Key   string
	}

	// ElementMissingError is returned by strict list removal when the list does
	// not contain the requested element.
	ElementMissingError struct {
		Path  Path
		Value string
	}

	// ParseError reports TOML that could not be decoded. Line and Column are
	// 1-based and point at the offending byte.
	ParseError struct {
		Line    int
		Column  int
		Message string
		cause   error
	}
)

// Error implements the error interface.
func (e *SectionMissingError) Error() string {
	if e.Found == KindInvalid {
		return fmt.Sprintf("section [%s] not found", e.Path)
	}
	return fmt.Sprintf("[%s] is %s, expected %s", e.Path, e.Found.article(), e.Want.article())
}

// Unwrap returns ErrSectionMissing for errors.Is() compatibility.
func (e *SectionMissingError) Unwrap() error { return ErrSectionMissing }

// Error implements the error interface.
func (e *KeyMissingError) Error() string {
	if len(e.Table) == 0 {
		return fmt.Sprintf("key %q not found at the top level", e.Key)
	}
	return fmt.Sprintf("key %q not found in [%s]", e.Key, e.Table)
}

// Unwrap returns ErrKeyMissing for errors.Is() compatibility.
func (e *KeyMissingError) Unwrap() error { return ErrKeyMissing }

// Error implements the error interface.
func (e *ElementMissingError) Error() string {
	return fmt.Sprintf("%q not found in %s", e.Value, e.Path)
}

// Unwrap returns ErrElementMissing for errors.Is() compatibility.
func (e *ElementMissingError) Unwrap() error { return ErrElementMissing }

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Unwrap returns the underlying go-toml decode error.
func (e *ParseError) Unwrap() error { return e.cause }

// newParseError converts a go-toml error into a ParseError when position
// information is available.
func newParseError(err error) error {
	var de *toml.DecodeError
	if errors.As(err, &de) {
		row, col := de.Position()
		return &ParseError{Line: row, Column: col, Message: de.Error(), cause: err}
	}
	return fmt.Errorf("decode toml: %w", err)
}
