// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with TOML as
// the file format.
//
// Configuration is loaded from ~/.config/pyproject-patcher/config.toml (or the
// XDG equivalent on Linux, ~/Library/Application Support/pyproject-patcher on
// macOS, %APPDATA%\pyproject-patcher on Windows), from ./pyproject-patcher.toml,
// or from an explicit --config path. Values can be overridden with
// PYPROJECT_PATCHER_* environment variables.
//
// Files are validated against an embedded CUE schema (config_schema.cue) so
// that unknown keys and wrong types are reported with their key path.
package config
