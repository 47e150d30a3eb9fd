// Package sse implements a streaming parser for the Server-Sent Events
// wire format defined by the HTML Living Standard
// (https://html.spec.whatwg.org/multipage/server-sent-events.html#parsing-an-event-stream).
//
// The package accepts an arbitrarily fragmented sequence of byte chunks -
// a line, a UTF-8 codepoint, or the leading byte-order mark may be split
// across any number of chunks - and produces a strictly ordered sequence
// of parsed events. It does not perform HTTP transport, reconnection, or
// Last-Event-ID header handling; those are left to a collaborator that
// consumes the events this package emits (see RetryPolicy).
package sse
