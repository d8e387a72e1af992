// Package timer provides the poll-driven timer that every time-based
// combinator in asynctime is built on.
//
// A Timer is armed with a deadline when constructed but only registers a
// wakeup with its clock the first time it is polled while the deadline is
// still ahead. Rearming with SetAfter or SetUntil reuses the same Timer.
package timer

import (
	"sync"
	"time"

	"github.com/kbukum/asynctime/clock"
	"github.com/kbukum/asynctime/poll"
)

// Options configures timers and the combinators built on them.
type Options struct {
	Clock clock.Clock
}

// Option is a functional option for timer construction.
type Option func(*Options)

// WithClock sets the time source. The default is clock.Real.
func WithClock(c clock.Clock) Option {
	return func(o *Options) { o.Clock = c }
}

// Resolve applies opts over the defaults.
func Resolve(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	o.Clock = clock.OrReal(o.Clock)
	return o
}

// Timer fires once at its deadline. It is a poll.Future[time.Time] yielding
// the deadline it fired for. A fired Timer keeps reporting ready until it is
// rearmed.
type Timer struct {
	clk clock.Clock

	mu       sync.Mutex
	deadline time.Time
	fired    bool
	gen      uint64
	waker    poll.Waker
	pending  clock.Timer
}

// After creates a timer that fires d from now.
func After(d time.Duration, opts ...Option) *Timer {
	o := Resolve(opts...)
	return &Timer{clk: o.Clock, deadline: o.Clock.Now().Add(d)}
}

// Until creates a timer that fires at deadline.
func Until(deadline time.Time, opts ...Option) *Timer {
	o := Resolve(opts...)
	return &Timer{clk: o.Clock, deadline: deadline}
}

// Clock returns the timer's time source.
func (t *Timer) Clock() clock.Clock { return t.clk }

// Deadline returns the instant the timer is armed for.
func (t *Timer) Deadline() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deadline
}

// Poll reports whether the deadline has passed. While pending it stores the
// waker from cx, replacing any earlier one, and makes sure a clock callback
// is scheduled to call it.
func (t *Timer) Poll(cx *poll.Context) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.fired {
		now := t.clk.Now()
		if now.Before(t.deadline) {
			t.waker = cx.Waker()
			if t.pending == nil {
				gen := t.gen
				t.pending = t.clk.AfterFunc(t.deadline.Sub(now), func() { t.fire(gen) })
			}
			return time.Time{}, false
		}
		t.fired = true
		t.release()
	}
	return t.deadline, true
}

// SetAfter rearms the timer to fire d from now.
func (t *Timer) SetAfter(d time.Duration) {
	t.SetUntil(t.clk.Now().Add(d))
}

// SetUntil rearms the timer to fire at deadline. A callback scheduled for
// the previous deadline is cancelled and will not wake the new one.
func (t *Timer) SetUntil(deadline time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.release()
	t.gen++
	t.deadline = deadline
	t.fired = false
}

// Stop cancels any scheduled callback and drops the stored waker. A later
// Poll schedules a new callback if the deadline is still ahead.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.release()
	t.gen++
}

// release drops the scheduled callback and waker. Callers hold t.mu.
func (t *Timer) release() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.waker = nil
}

func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	t.pending = nil
	w := t.waker
	t.waker = nil
	t.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}
