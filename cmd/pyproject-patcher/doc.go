// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the pyproject-patcher command tree.
//
// Every patching command opens the manifest in one scoped session and writes
// it back only when all requested mutations succeed.
package cmd
