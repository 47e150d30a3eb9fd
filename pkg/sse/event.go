package sse

import (
	"strconv"
	"strings"
	"time"
)

// Event is a single, complete Server-Sent Event. It is immutable once
// produced; Event is emitted in the order its terminating empty line
// appeared in the input.
type Event struct {
	// Event is the event type, defaulting to "message" when the server
	// never set one for this event.
	Event string
	// Data is the joined "data" lines, separated by '\n' with no
	// trailing newline. May be empty.
	Data string
	// ID is the sticky last-event-id, carried over from a previous
	// event if this one didn't set a new one.
	ID string
	// Retry is the reconnection time given (in milliseconds) by a valid
	// "retry" field, if any. Unlike ID this is NOT sticky: it
	// is only set on events whose own field block included a valid
	// "retry" line.
	Retry *time.Duration
}

// eventBuilder accumulates field lines into a partial event and
// implements the HTML spec's event-source dispatch algorithm. The zero
// value is ready to use.
type eventBuilder struct {
	event      string
	id         string
	retry      *time.Duration
	data       dataBuffer
	isComplete bool
}

// add folds one validated line into the builder's accumulators. Comments
// and ignored fields have no effect, matching §4.3 of the design this
// builder implements.
func (b *eventBuilder) add(line validatedLine) {
	switch line.kind {
	case validatedEmpty:
		b.isComplete = true
	case validatedComment:
		// no effect
	case validatedField:
		switch line.name {
		case FieldEvent:
			if line.hasValue {
				b.event = line.value
			}
			// Field{Event, None} has no effect.
		case FieldData:
			if line.hasValue {
				b.data.addLine(line.value)
			} else {
				b.data.addLine("")
			}
		case FieldID:
			value := ""
			if line.hasValue {
				value = line.value
			}
			if strings.IndexByte(value, nul) < 0 {
				b.id = value
			}
			// a NUL byte in the proposed id silently discards the field.
		case FieldRetry:
			if line.hasValue {
				if ms, err := parseRetry(line.value); err == nil {
					d := time.Duration(ms) * time.Millisecond
					b.retry = &d
				}
			}
		case FieldIgnored:
			// no effect
		}
	}
}

// parseRetry accepts only a non-negative base-10 integer, per spec; any
// other shape (empty, signed, hex, fractional) is a parse failure and the
// field is ignored by the caller.
func parseRetry(value string) (uint64, error) {
	return strconv.ParseUint(value, 10, 64)
}

// dispatch implements the HTML spec's "dispatch the event" algorithm.
// It returns the completed Event and true when one is produced, or
// false when the data buffer was empty (no event: spec step 2). Either
// way, event/data/retry/isComplete are reset; id is preserved across
// dispatches until explicitly overwritten by a later "id" field.
func (b *eventBuilder) dispatch() (Event, bool) {
	b.isComplete = false

	if b.data.isEmpty() {
		b.event = ""
		b.retry = nil
		return Event{}, false
	}

	data := b.data.freeze()

	eventType := b.event
	if eventType == "" {
		eventType = messageEventType
	}
	b.event = ""

	retry := b.retry
	b.retry = nil

	return Event{
		Event: eventType,
		Data:  data,
		ID:    b.id,
		Retry: retry,
	}, true
}
