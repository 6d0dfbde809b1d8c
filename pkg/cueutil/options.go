// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the default maximum configuration file size (1MB).
const DefaultMaxFileSize int64 = 1 << 20

type (
	// decodeOptions holds configuration for schema validation.
	decodeOptions struct {
		concrete bool
		filename string
	}

	// Option configures validation behavior.
	Option func(*decodeOptions)
)

func defaultOptions() decodeOptions {
	return decodeOptions{
		concrete: true,
		filename: "<input>",
	}
}

// WithConcrete sets whether all values must be concrete after unification.
// Default is true.
//
// Set to false for config files where every field is optional.
func WithConcrete(concrete bool) Option {
	return func(o *decodeOptions) {
		o.concrete = concrete
	}
}

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(o *decodeOptions) {
		if name != "" {
			o.filename = name
		}
	}
}
