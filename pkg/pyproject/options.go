// SPDX-License-Identifier: MPL-2.0

package pyproject

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

type (
	// Option configures a Patcher or a Session.
	Option func(*options)

	options struct {
		logger    *log.Logger
		lookupEnv func(string) (string, bool)
	}
)

// WithLogger sets the logger used to report mutations at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLookupEnv replaces os.LookupEnv for SetProjectVersionFromEnv.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(o *options) {
		if lookup != nil {
			o.lookupEnv = lookup
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:    log.New(io.Discard),
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
