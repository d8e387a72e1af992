package stream

import (
	"time"

	"github.com/kbukum/asynctime/observability"
	"github.com/kbukum/asynctime/poll"
	"github.com/kbukum/asynctime/timer"
)

// Delay holds back an inner stream until a fixed span after construction has
// elapsed. Items are forwarded unchanged once it has.
type Delay[T any] struct {
	inner     poll.Stream[T]
	timer     *timer.Timer
	streaming bool
}

// NewDelay wraps inner so that nothing is polled from it until d has
// elapsed.
func NewDelay[T any](inner poll.Stream[T], d time.Duration, opts ...timer.Option) *Delay[T] {
	return &Delay[T]{inner: inner, timer: timer.After(d, opts...)}
}

// PollNext implements poll.Stream. The call that observes the timer firing
// also polls the inner stream.
func (d *Delay[T]) PollNext(cx *poll.Context) (T, poll.Status) {
	if !d.streaming {
		if _, ok := d.timer.Poll(cx); !ok {
			var zero T
			return zero, poll.Pending
		}
		d.streaming = true
		d.timer = nil
		observability.Global().RecordDelayElapsed(cx.Context(), "stream")
	}
	return d.inner.PollNext(cx)
}
