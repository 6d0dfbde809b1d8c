// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Result contains the outcome of a successful Decode.
type Result[T any] struct {
	// Value is the decoded Go value.
	Value *T

	// Unified is the unified CUE value, available for looking up schema
	// defaults or other metadata.
	Unified cue.Value
}

// Decode validates data against the schema definition and decodes the
// unified value into T.
//
// Parameters:
//   - schema: the embedded CUE schema source
//   - data: an already decoded document (maps, slices and scalars)
//   - definition: the path of the root definition (e.g. "#Config")
//   - opts: optional configuration
func Decode[T any](schema string, data any, definition string, opts ...Option) (*Result[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	root := schemaValue.LookupPath(cue.ParsePath(definition))
	if root.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", definition, root.Err())
	}

	userValue := ctx.Encode(data)
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), options.filename)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return nil, FormatError(err, options.filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, options.filename)
	}

	return &Result[T]{Value: &result, Unified: unified}, nil
}
