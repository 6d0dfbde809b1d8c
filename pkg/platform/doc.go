// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes operating system names used when resolving
// per-platform directories.
package platform
