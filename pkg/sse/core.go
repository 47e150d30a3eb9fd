package sse

import (
	"bytes"

	"github.com/rs/zerolog"
)

// streamState is the three-state machine from §4.4: NotStarted permits a
// single BOM strip opportunity, Started is normal operation, Terminated
// means upstream EOF has been observed and the final flush performed.
type streamState int

const (
	stateNotStarted streamState = iota
	stateStarted
	stateTerminated
)

// core holds everything the tokenizer/builder drain loop needs,
// independent of how chunks are pulled from upstream. Both EventStream
// (generic) and BytesEventStream (ref-slice specialized) embed one of
// these and drive it against their own buffer.
type core struct {
	builder       eventBuilder
	state         streamState
	lastEventID   string
	maxBufferSize int
	logger        zerolog.Logger
}

func newCore(opts options) core {
	return core{
		state:         stateNotStarted,
		maxBufferSize: opts.maxBufferSize,
		logger:        opts.logger,
	}
}

// drainFrom repeatedly tokenizes, validates and feeds lines from *buf into
// the builder, advancing *buf past every line consumed (even a line that
// failed UTF-8 validation - per §7 the offending line is never retried).
// It returns as soon as a dispatch produces an event, on the first UTF-8
// error, or once *buf holds no further complete line.
func (c *core) drainFrom(buf *[]byte) (Event, bool, error) {
	for {
		raw, consumed, ok := parseLine(*buf)
		if !ok {
			return Event{}, false, nil
		}

		line, err := raw.validate()
		*buf = (*buf)[consumed:]
		if err != nil {
			if uerr, ok := err.(*UTF8Error); ok {
				c.logger.Debug().Int("pos", uerr.Pos).Msg("sse: dropping field with invalid utf-8")
			}
			return Event{}, false, err
		}

		c.builder.add(line)

		if c.builder.isComplete {
			if event, dispatched := c.builder.dispatch(); dispatched {
				c.lastEventID = event.ID
				return event, true, nil
			}
		}
	}
}

// classifyBOM applies §4.4 step 6 to *buf, which must only be called
// while c.state is NotStarted. It returns false when the buffer is too
// short to decide yet (1 or 2 bytes that are themselves a strict prefix
// of the BOM) - in that case no bytes are consumed and the caller should
// wait for more input before attempting to drain anything, so that a BOM
// split across chunks is never misread as content.
func (c *core) classifyBOM(buf *[]byte) (decided bool) {
	b := *buf

	if len(b) >= len(bom) {
		c.state = stateStarted
		if bytes.HasPrefix(b, bom) {
			*buf = b[len(bom):]
		}
		return true
	}

	if len(b) > 0 && bytes.HasPrefix(bom, b) {
		// 1 or 2 bytes that could still grow into a full BOM.
		return false
	}

	c.state = stateStarted
	return true
}

// commitTrailingCR implements the EOF edge case from §4.4 step 3b: a lone
// CR at the very end of the buffer is not a terminator on its own (it
// might have become CRLF with more input) but at true EOF there is no
// more input coming, so it is committed by synthetically completing it.
func commitTrailingCR(buf *[]byte) {
	b := *buf
	if n := len(b); n > 0 && b[n-1] == cr {
		*buf = append(b, lf)
	}
}
