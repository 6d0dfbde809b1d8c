// SPDX-License-Identifier: MPL-2.0

package pyproject

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is the sentinel error wrapped by ConfigurationError.
	ErrConfiguration = errors.New("configuration error")
	// ErrSessionClosed is returned when a closed session is closed again.
	ErrSessionClosed = errors.New("edit session already closed")
)

// ConfigurationError is returned when a required runtime input is missing,
// such as the environment variable that carries the version number.
type ConfigurationError struct {
	Variable string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("`%s` not set in environment. Did you `export %s`?", e.Variable, e.Variable)
}

// Unwrap returns ErrConfiguration for errors.Is() compatibility.
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// Suggestion returns a remediation hint for the user.
func (e *ConfigurationError) Suggestion() string {
	return fmt.Sprintf("Run 'export %s=<version>' before patching", e.Variable)
}
