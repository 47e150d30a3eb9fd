package sse

import (
	"context"
	"errors"
	"io"
)

// ByteSource is the specialized upstream contract for chunks that are
// already raw, shareable byte slices - the Go analogue of a
// reference-counted buffer type. Unlike Source, there is no wrapper
// object between the chunk and its bytes, which is what lets
// BytesEventStream tokenize directly out of a freshly arrived chunk
// without first copying it into a work buffer.
//
// A []byte returned by Next must not be mutated by the caller afterwards
// (BytesEventStream may retain a sub-slice of it across calls via its
// remainder fast path); handing over a fresh slice per call, as an
// http.Response body reader or a channel of network reads naturally
// does, satisfies this.
type ByteSource interface {
	Next(ctx context.Context) ([]byte, error)
}

// BytesEventStream is the ref-counted-buffer specialization of EventStream
// described in §4.4. It maintains a remainder holding the most recently
// arrived chunk as-is, in addition to the generic work buffer: when both
// are empty, a new chunk is tokenized directly out of the remainder with
// no copy, since Go slices already share their backing array the way a
// reference-counted buffer would. Only once a chunk ends in an
// incomplete trailing line does that remainder get folded into the work
// buffer, falling back to the generic (copying) path for that leftover
// tail.
type BytesEventStream struct {
	source    ByteSource
	buffer    []byte
	remainder []byte
	core      core
}

// NewBytesEventStream constructs a BytesEventStream over the given
// ByteSource.
func NewBytesEventStream(source ByteSource, opts ...Option) *BytesEventStream {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &BytesEventStream{
		source: source,
		buffer: make([]byte, 0, o.initialBufferCapacity),
		core:   newCore(o),
	}
}

// Next has the same contract as (*EventStream).Next.
func (s *BytesEventStream) Next(ctx context.Context) (Event, error) {
	if len(s.remainder) > 0 {
		event, found, err := s.core.drainFrom(&s.remainder)
		if err != nil {
			return Event{}, err
		}
		if found {
			return event, nil
		}
		// incomplete trailing line left in the remainder: fold it into
		// the work buffer and continue in the generic, copying path.
		if len(s.remainder) > 0 {
			s.buffer = append(s.buffer, s.remainder...)
			s.remainder = nil
		}
	}

	if event, found, err := s.core.drainFrom(&s.buffer); err != nil {
		return Event{}, err
	} else if found {
		return event, nil
	}

	if s.core.state == stateTerminated {
		return Event{}, io.EOF
	}

	for {
		chunk, err := s.source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return s.terminate()
			}
			s.core.logger.Warn().Err(err).Int("buffered", len(s.buffer)+len(s.remainder)).
				Msg("sse: transport error from source")
			return Event{}, &TransportError{Err: err}
		}

		if len(chunk) == 0 {
			continue
		}

		if len(s.buffer) == 0 {
			// fast path: nothing buffered yet, tokenize directly out of
			// the fresh chunk with no copy.
			s.remainder = chunk
		} else {
			s.buffer = append(s.buffer, chunk...)
			s.remainder = nil
		}

		target := &s.buffer
		if len(s.remainder) > 0 {
			target = &s.remainder
		}

		if s.core.state == stateNotStarted {
			if !s.core.classifyBOM(target) {
				// too short to tell yet whether this is a BOM; fold into
				// the work buffer so the next chunk is appended instead of
				// overwriting these pending bytes via the fast path.
				if target == &s.remainder {
					s.buffer = append(s.buffer, s.remainder...)
					s.remainder = nil
				}
				continue
			}
		}

		event, found, err := s.core.drainFrom(target)
		if err != nil {
			return Event{}, err
		}
		if found {
			return event, nil
		}

		if target == &s.remainder && len(s.remainder) > 0 {
			// slow path: incomplete line left over in the remainder,
			// fold it into the work buffer so the next chunk can extend
			// it with a normal append/copy.
			s.buffer = append(s.buffer, s.remainder...)
			s.remainder = nil
		}

		// only an unterminated tail is left buffered at this point.
		if s.core.maxBufferSize > 0 && len(s.buffer)+len(s.remainder) > s.core.maxBufferSize {
			return Event{}, ErrBufferTooLarge
		}
	}
}

// terminate mirrors (*EventStream).terminate, draining whichever of
// buffer/remainder currently holds the tail of the stream.
func (s *BytesEventStream) terminate() (Event, error) {
	s.core.state = stateTerminated

	if len(s.remainder) > 0 {
		s.buffer = append(s.buffer, s.remainder...)
		s.remainder = nil
	}

	commitTrailingCR(&s.buffer)

	event, found, err := s.core.drainFrom(&s.buffer)
	if err != nil {
		return Event{}, err
	}
	if found {
		return event, nil
	}
	return Event{}, io.EOF
}

// LastEventID returns the id of the most recently emitted event.
func (s *BytesEventStream) LastEventID() string {
	return s.core.lastEventID
}

// SetLastEventID seeds the sticky last-event-id, for resumability.
func (s *BytesEventStream) SetLastEventID(id string) {
	s.core.lastEventID = id
}

// TakeBuffers surrenders both the adapter's work buffer and its pending
// remainder, for diagnostic or resumption use when abandoning the stream
// mid-parse. After calling TakeBuffers the BytesEventStream must not be
// used again.
func (s *BytesEventStream) TakeBuffers() (buffer, remainder []byte) {
	buffer, remainder = s.buffer, s.remainder
	s.buffer, s.remainder = nil, nil
	return buffer, remainder
}
