// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LogLevelDebug logs every mutation.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs one line per patched file.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// ColorAuto styles output when stdout is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways styles output unconditionally.
	ColorAlways ColorMode = "always"
	// ColorNever disables styling.
	ColorNever ColorMode = "never"

	// DefaultManifest is the manifest patched when none is configured.
	DefaultManifest = "pyproject.toml"
	// DefaultVersionEnv is the variable holding the version in packaging
	// scripts such as PKGBUILDs.
	DefaultVersionEnv = "pkgver"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidColorMode is returned when a ColorMode value is not recognized.
	ErrInvalidColorMode = errors.New("invalid color mode")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of log output.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// ColorMode controls terminal styling.
	ColorMode string

	// InvalidColorModeError is returned when a ColorMode value is not recognized.
	// It wraps ErrInvalidColorMode for errors.Is() compatibility.
	InvalidColorModeError struct {
		Value ColorMode
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It collects the field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Manifest is the pyproject.toml patched when --file is not given.
		Manifest string `json:"manifest" mapstructure:"manifest" toml:"manifest"`
		// VersionEnv names the variable read by set-version --from-env.
		VersionEnv string `json:"version_env" mapstructure:"version_env" toml:"version_env"`
		// LogLevel sets the minimum log level.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level" toml:"log_level"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// Color controls styling of command output.
		Color ColorMode `json:"color" mapstructure:"color" toml:"color"`
		// Verbose enables verbose output.
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Manifest:   DefaultManifest,
		VersionEnv: DefaultVersionEnv,
		LogLevel:   LogLevelInfo,
		UI: UIConfig{
			Color:   ColorAuto,
			Verbose: false,
		},
	}
}

// String returns the level name.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the mode name.
func (m ColorMode) String() string { return string(m) }

// IsValid returns whether the ColorMode is one of the defined modes.
func (m ColorMode) IsValid() (bool, []error) {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true, nil
	default:
		return false, []error{&InvalidColorModeError{Value: m}}
	}
}

// Error implements the error interface.
func (e *InvalidColorModeError) Error() string {
	return fmt.Sprintf("invalid color mode %q (valid: auto, always, never)", e.Value)
}

// Unwrap returns ErrInvalidColorMode for errors.Is() compatibility.
func (e *InvalidColorModeError) Unwrap() error { return ErrInvalidColorMode }

// IsValid returns whether the Config has valid fields. Environment overrides
// bypass the CUE schema, so the enumerations are checked again here.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.Manifest == "" {
		errs = append(errs, errors.New("manifest must not be empty"))
	}
	if c.VersionEnv == "" {
		errs = append(errs, errors.New("version_env must not be empty"))
	}
	if valid, fieldErrs := c.LogLevel.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.Color.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so both the
// sentinel and the field-level sentinels match with errors.Is().
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
