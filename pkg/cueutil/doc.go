// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates decoded configuration values against an embedded
// CUE schema.
//
// Configuration files are TOML. They are decoded first, then the resulting Go
// value is encoded into CUE, unified with a schema definition and decoded
// back into the caller's type:
//
//	//go:embed config_schema.cue
//	var schema string
//
//	result, err := cueutil.Decode[map[string]any](
//	    schema,
//	    raw,
//	    "#Config",
//	    cueutil.WithFilename("config.toml"),
//	    cueutil.WithConcrete(false),
//	)
//	if err != nil {
//	    return nil, err // Error includes the offending key path
//	}
package cueutil
