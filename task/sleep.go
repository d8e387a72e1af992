package task

import (
	"context"
	"time"

	"github.com/kbukum/asynctime/errors"
	"github.com/kbukum/asynctime/logger"
	"github.com/kbukum/asynctime/observability"
	"github.com/kbukum/asynctime/poll"
	"github.com/kbukum/asynctime/timer"
)

const component = "task.sleep"

// Sleeper is a future that resolves once its deadline passes. It yields the
// deadline it fired for. A resolved Sleeper must not be polled again until
// ResetDeadline rearms it.
type Sleeper struct {
	timer     *timer.Timer
	dur       time.Duration
	completed bool
}

// Sleep returns a Sleeper that fires d from now.
func Sleep(d time.Duration, opts ...timer.Option) *Sleeper {
	if d < 0 {
		d = 0
	}
	return &Sleeper{timer: timer.After(d, opts...), dur: d}
}

// SleepUntil returns a Sleeper that fires at deadline. ResetDeadline on it
// rearms for the span between now and deadline as measured here, or
// immediately if deadline is already past.
func SleepUntil(deadline time.Time, opts ...timer.Option) *Sleeper {
	o := timer.Resolve(opts...)
	d := deadline.Sub(o.Clock.Now())
	if d < 0 {
		d = 0
	}
	return &Sleeper{timer: timer.Until(deadline, timer.WithClock(o.Clock)), dur: d}
}

// Poll implements poll.Future. It panics if the Sleeper already resolved.
func (s *Sleeper) Poll(cx *poll.Context) (time.Time, bool) {
	if s.completed {
		panic(errors.PolledAfterCompletion("sleep"))
	}
	at, ok := s.timer.Poll(cx)
	if !ok {
		return time.Time{}, false
	}
	s.completed = true
	observability.Global().RecordSleepFired(cx.Context())
	if log := logger.Get(component); log.DebugEnabled() {
		log.Debug("sleep fired", logger.Fields(logger.FieldDeadline, at))
	}
	return at, true
}

// ResetDeadline rearms the Sleeper to fire its duration from now and makes it
// pollable again.
func (s *Sleeper) ResetDeadline() {
	s.timer.SetAfter(s.dur)
	s.completed = false
	observability.Global().RecordSleepReset(context.Background())
}

// Deadline returns the instant the Sleeper is armed for.
func (s *Sleeper) Deadline() time.Time { return s.timer.Deadline() }

// Duration returns the span ResetDeadline rearms for.
func (s *Sleeper) Duration() time.Duration { return s.dur }

// Done reports whether the Sleeper has resolved since it was last armed.
func (s *Sleeper) Done() bool { return s.completed }

// Stop cancels the pending wakeup without resolving the Sleeper.
func (s *Sleeper) Stop() { s.timer.Stop() }
