package future

import (
	"time"

	"github.com/kbukum/asynctime/observability"
	"github.com/kbukum/asynctime/poll"
)

// Delay holds off polling an inner future until a deadline future resolves.
// The deadline is not polled again once it has fired.
type Delay[T any] struct {
	inner    poll.Future[T]
	deadline poll.Future[time.Time]
	started  bool
}

// NewDelay wraps inner so that it is first polled once deadline resolves.
func NewDelay[T any](inner poll.Future[T], deadline poll.Future[time.Time]) *Delay[T] {
	return &Delay[T]{inner: inner, deadline: deadline}
}

// Poll implements poll.Future.
func (d *Delay[T]) Poll(cx *poll.Context) (T, bool) {
	if !d.started {
		if _, ok := d.deadline.Poll(cx); !ok {
			var zero T
			return zero, false
		}
		d.started = true
		observability.Global().RecordDelayElapsed(cx.Context(), "future")
	}
	return d.inner.Poll(cx)
}
