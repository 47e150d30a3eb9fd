package sse

import (
	"bufio"
	"context"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// readerChunkSize is how much a readerSource asks its underlying
// bufio.Reader for on each Next call.
const readerChunkSize = 4096

// readerSource adapts an io.Reader into a ByteSource, the same role
// bufio.NewReader plus a UTF-8-validating transform.Reader plays ahead
// of the scanner in the teacher this core is adapted from. Unlike the
// teacher, readerSource does not itself peek for and discard a leading
// BOM: that is handled more carefully by the core's own chunk-boundary-
// aware BOM classification (§4.4 step 6), so duplicating a simplistic
// peek-and-discard here would risk mishandling a BOM split across reads.
//
// Because the bytes are pre-validated by encoding.UTF8Validator, a
// reader-backed stream reports invalid UTF-8 as a transport-level read
// error rather than the precise per-field UTF8Error a ByteSource
// implementation with full control over its chunking can produce;
// callers who need the exact byte offset should implement ByteSource
// directly instead of going through NewFromReader.
type readerSource struct {
	r *bufio.Reader
}

func newReaderSource(r io.Reader) *readerSource {
	validated := transform.NewReader(bufio.NewReader(r), encoding.UTF8Validator)
	return &readerSource{r: bufio.NewReaderSize(validated, readerChunkSize)}
}

// Next implements ByteSource. It ignores ctx beyond an initial check,
// since bufio.Reader offers no way to cancel an in-flight Read; callers
// needing cancellation should wrap their io.Reader accordingly, the same
// limitation the teacher's bufio.Scanner-based loop has.
func (s *readerSource) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf := make([]byte, readerChunkSize)
	n, err := s.r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	return nil, err
}

// NewFromReader constructs a BytesEventStream reading from r, validating
// its bytes as UTF-8 the same way the teacher's HTTP-response-body
// stream did, but driven through this core's full
// tokenizer/builder/dispatch pipeline (including its own BOM handling)
// instead of a bufio.Scanner split function.
func NewFromReader(r io.Reader, opts ...Option) *BytesEventStream {
	return NewBytesEventStream(newReaderSource(r), opts...)
}
