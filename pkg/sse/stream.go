package sse

import (
	"context"
	"errors"
	"io"
)

// Chunk is any buffer type that can hand back a byte view of itself -
// for example a pooled buffer, or a frame type from some other protocol
// layer. Source implementations only need to satisfy this to be usable
// with EventStream; a Chunk's bytes are read once per Next call and
// copied into the adapter's own buffer, so the Chunk may be reused or
// recycled by the caller immediately afterwards.
type Chunk interface {
	Bytes() []byte
}

// Source is the generic upstream contract: "a generic one over any
// chunk type exposing a byte view" (§4.4). Next blocks until the next
// chunk is available or ctx is done, and returns io.EOF once upstream is
// exhausted. Any other error is treated as a transport error and wrapped
// in TransportError before being surfaced to the caller.
//
// If the upstream already deals in raw []byte slices, BytesEventStream
// is both simpler to implement against and faster, since it can skip the
// copy into the adapter's buffer for chunks that arrive already
// line-aligned.
type Source interface {
	Next(ctx context.Context) (Chunk, error)
}

// EventStream is the streaming adapter from §4.4: it owns a growing
// input buffer and a {NotStarted, Started, Terminated} state machine,
// and turns a Source of byte chunks into a strictly ordered sequence of
// Events. It is not safe for concurrent use; a single EventStream must
// only ever be driven by one goroutine at a time, though independent
// EventStreams over independent Sources may run concurrently.
type EventStream struct {
	source Source
	buffer []byte
	core   core
}

// New constructs an EventStream over the given Source.
func New(source Source, opts ...Option) *EventStream {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &EventStream{
		source: source,
		buffer: make([]byte, 0, o.initialBufferCapacity),
		core:   newCore(o),
	}
}

// Next returns the next event in the stream, blocking until one is
// available, the stream ends (io.EOF), or an error occurs. Exactly one
// event is produced per successful call, matching the "one item per
// Ready" streaming contract described in §5: callers loop on Next until
// it returns io.EOF.
func (s *EventStream) Next(ctx context.Context) (Event, error) {
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
			s.core.logger.Warn().Err(err).Int("buffered", len(s.buffer)).
				Msg("sse: transport error from source")
			return Event{}, &TransportError{Err: err}
		}

		data := chunk.Bytes()
		if len(data) == 0 {
			continue
		}

		s.buffer = append(s.buffer, data...)

		if s.core.state == stateNotStarted {
			if !s.core.classifyBOM(&s.buffer) {
				continue
			}
		}

		if event, found, err := s.core.drainFrom(&s.buffer); err != nil {
			return Event{}, err
		} else if found {
			return event, nil
		}

		// only an unterminated tail is left in the buffer at this point.
		if s.core.maxBufferSize > 0 && len(s.buffer) > s.core.maxBufferSize {
			return Event{}, ErrBufferTooLarge
		}
	}
}

// terminate performs the EOF handling of §4.4 step 3: commit any
// trailing lone CR, flush whatever final event the buffer now yields,
// and mark the stream Terminated either way.
func (s *EventStream) terminate() (Event, error) {
	s.core.state = stateTerminated
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

// LastEventID returns the id of the most recently emitted event, which is
// sticky across events that carry no "id" line of their own (see
// Event.ID). A value seeded with SetLastEventID is returned until the
// next event is emitted, and is then replaced by that event's id.
func (s *EventStream) LastEventID() string {
	return s.core.lastEventID
}

// SetLastEventID seeds the sticky last-event-id, for a reconnection
// collaborator constructing a fresh EventStream over a reconnected
// transport and resuming from where a previous one left off.
func (s *EventStream) SetLastEventID(id string) {
	s.core.lastEventID = id
}

// TakeBuffer surrenders the adapter's residual buffered bytes, for
// diagnostic or resumption use when abandoning the stream mid-parse.
// After calling TakeBuffer the EventStream must not be used again.
func (s *EventStream) TakeBuffer() []byte {
	b := s.buffer
	s.buffer = nil
	return b
}
