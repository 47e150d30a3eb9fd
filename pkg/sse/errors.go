package sse

import (
	"fmt"

	"github.com/pkg/errors"
)

// UTF8Error reports that a field value's bytes were not valid UTF-8. Pos
// is the byte offset of the first invalid byte within the field value,
// mirroring Rust's core::str::Utf8Error::valid_up_to.
type UTF8Error struct {
	Pos int
}

func (e *UTF8Error) Error() string {
	return fmt.Sprintf("sse: invalid UTF-8 at byte offset %d", e.Pos)
}

// TransportError wraps whatever error the upstream chunk source returned.
// It is never constructed directly by the parser; Unwrap lets callers get
// back to the underlying transport error with errors.As/errors.Is.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return errors.Wrap(e.Err, "sse: transport error").Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrBufferTooLarge is returned when the adapter's work buffer would grow
// past the limit set with WithMaxBufferSize without ever seeing a line
// terminator. This guards a misbehaving or malicious upstream from
// causing unbounded memory growth; the original core this package is
// based on has no such guard and trusts its caller completely.
var ErrBufferTooLarge = errors.New("sse: buffered data exceeds configured maximum without a line terminator")
