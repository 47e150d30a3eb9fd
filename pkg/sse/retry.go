package sse

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// LastAttemptState is the information a RetryPolicy is given about the
// connection attempt that just ended, so it can decide how long to wait
// (or whether to give up) before the next one.
type LastAttemptState struct {
	// Attempt is the number of consecutive failed attempts so far,
	// starting at 1 for the first failure.
	Attempt int
	// LastEventID is the sticky id of the most recent event this stream
	// successfully delivered, for a collaborator that resumes a
	// reconnection with a Last-Event-ID header.
	LastEventID string
}

// RetryPolicy is the reconnection boundary this package hands control
// to. Parsing a single connection's byte stream is this package's whole
// job; deciding whether and when to reconnect after that stream ends is
// explicitly out of scope (§1 Non-goals) and left to a collaborator
// implementing this interface.
type RetryPolicy interface {
	// Retry is consulted after a stream ends in error (or unexpected
	// EOF). It returns how long to wait before reconnecting, and whether
	// to reconnect at all.
	Retry(err error, last LastAttemptState) (time.Duration, bool)
	// SetReconnectionTime updates the policy's base/current delay from a
	// server-sent "retry" field, per the HTML spec's reconnection time
	// concept. Not sticky across policy instances; it only affects this
	// policy's in-memory state.
	SetReconnectionTime(d time.Duration)
}

// BackoffRetryPolicy adapts a backoff.BackOff cursor from
// github.com/cenkalti/backoff/v4 into a RetryPolicy: every call to Retry
// advances the cursor and reconnects unless it reports backoff.Stop,
// while SetReconnectionTime lets a server-provided "retry" field push a
// new base interval into the underlying ExponentialBackOff, the same way
// r3labs/sse's client layers a server-chosen delay on top of a generic
// backoff cursor.
type BackoffRetryPolicy struct {
	backoff backoff.BackOff
}

// NewBackoffRetryPolicy wraps b as a RetryPolicy. A nil b defaults to
// backoff.NewExponentialBackOff() with its standard settings.
func NewBackoffRetryPolicy(b backoff.BackOff) *BackoffRetryPolicy {
	if b == nil {
		b = backoff.NewExponentialBackOff()
	}
	return &BackoffRetryPolicy{backoff: b}
}

// Retry implements RetryPolicy by advancing the wrapped cursor. last is
// not otherwise consulted: the cursor already tracks attempt count and
// elapsed time internally.
func (p *BackoffRetryPolicy) Retry(err error, last LastAttemptState) (time.Duration, bool) {
	d := p.backoff.NextBackOff()
	if d == backoff.Stop {
		return 0, false
	}
	return d, true
}

// SetReconnectionTime pushes d into the wrapped cursor as its new base
// interval, when the cursor supports one. Cursors that don't (a fixed
// interval, or a caller-supplied custom BackOff) silently ignore this.
func (p *BackoffRetryPolicy) SetReconnectionTime(d time.Duration) {
	switch b := p.backoff.(type) {
	case *backoff.ExponentialBackOff:
		b.InitialInterval = d
		b.Reset()
	}
}
