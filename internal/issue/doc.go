// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the manifest or config file
// involved and remediation hints. The issue catalog holds Markdown guides for
// the failure classes of manifest patching, rendered with glamour.
package issue
