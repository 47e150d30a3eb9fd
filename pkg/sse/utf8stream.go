package sse

import (
	"context"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Utf8Stitcher wraps a ByteSource that may split a multi-byte UTF-8
// codepoint across two chunks, and yields strings that are always
// individually valid UTF-8 - joining a split codepoint's trailing bytes
// onto the front of the next chunk before handing anything back.
//
// It never reports an error for bytes that are undecodable only because
// they arrived at a chunk boundary: any trailing bytes that don't yet
// form a complete, valid rune are optimistically carried over and given
// the chance to complete with more input, even if on their own they look
// like outright garbage rather than a truncated lead byte. A UTF8Error
// is only ever raised once upstream reaches io.EOF with such bytes still
// pending - at that point there is no more input coming that could ever
// complete them, so they are reported at the offset where the carry
// began.
type Utf8Stitcher struct {
	source ByteSource
	carry  []byte
	logger zerolog.Logger
}

// NewUtf8Stitcher constructs a Utf8Stitcher over the given ByteSource.
// It accepts the same functional Options as New / NewBytesEventStream;
// only WithLogger is meaningful here, the buffer-sizing options have
// nothing to apply to since the stitcher keeps no growing work buffer.
func NewUtf8Stitcher(source ByteSource, opts ...Option) *Utf8Stitcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Utf8Stitcher{source: source, logger: o.logger}
}

// Next returns the next chunk-boundary-safe, valid-UTF-8 string, or
// io.EOF once upstream is exhausted and any carried bytes have been
// successfully flushed. A non-nil, non-EOF error is either a
// TransportError from upstream or a UTF8Error for bytes left over at
// true EOF that never completed into valid UTF-8.
func (u *Utf8Stitcher) Next(ctx context.Context) (string, error) {
	for {
		chunk, err := u.source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(u.carry) == 0 {
					return "", io.EOF
				}
				u.logger.Debug().Int("pos", 0).Msg("sse: utf-8 stream ended with incomplete trailing bytes")
				u.carry = nil
				return "", &UTF8Error{Pos: 0}
			}
			u.logger.Warn().Err(err).Int("buffered", len(u.carry)).
				Msg("sse: transport error from source")
			return "", &TransportError{Err: err}
		}

		if len(chunk) == 0 {
			continue
		}

		var buf []byte
		if len(u.carry) > 0 {
			buf = append(u.carry, chunk...)
			u.carry = nil
		} else {
			buf = chunk
		}

		if utf8.Valid(buf) {
			return string(buf), nil
		}

		valid := validUpTo(buf)
		tail := buf[valid:]
		u.carry = append(u.carry[:0:0], tail...)

		return string(buf[:valid]), nil
	}
}

// validUpTo returns the length of the longest prefix of b that decodes
// as complete, valid UTF-8 runes. Anything left over - whether a
// genuinely invalid byte or a lead byte merely truncated by a chunk
// boundary - is left for the caller to carry forward.
func validUpTo(b []byte) int {
	pos := 0
	for pos < len(b) {
		r, size := utf8.DecodeRune(b[pos:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		pos += size
	}
	return pos
}
