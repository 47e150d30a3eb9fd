package sse

import "github.com/rs/zerolog"

// options configures a stream adapter at construction time. There is no
// natural external config file for a parser core, so - following the
// functional-options idiom used throughout the reference corpus - a
// caller passes zero or more Option values to New / NewBytesEventStream.
type options struct {
	initialBufferCapacity int
	maxBufferSize         int
	logger                zerolog.Logger
}

func defaultOptions() options {
	return options{
		initialBufferCapacity: defaultInitialBufferCapacity,
		logger:                zerolog.Nop(),
	}
}

// Option configures a stream adapter.
type Option func(*options)

// WithLogger attaches a structured logger used for diagnostic breadcrumbs
// (UTF-8 errors, transport errors). It never changes parsing behavior.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithInitialBufferCapacity sets the starting capacity of the adapter's
// growing work buffer, to avoid early reallocations for callers who know
// their typical line/event size up front.
func WithInitialBufferCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialBufferCapacity = n
		}
	}
}

// WithMaxBufferSize bounds how large the unterminated work buffer may
// grow before ErrBufferTooLarge is returned, guarding against a
// misbehaving upstream that never sends a line terminator. Zero (the
// default) means unbounded, matching the core this package is adapted
// from, which trusts its caller completely.
func WithMaxBufferSize(n int) Option {
	return func(o *options) {
		o.maxBufferSize = n
	}
}
