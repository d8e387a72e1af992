package stream

import (
	"time"

	"github.com/kbukum/asynctime/errors"
	"github.com/kbukum/asynctime/observability"
	"github.com/kbukum/asynctime/poll"
	"github.com/kbukum/asynctime/timer"
)

// Ticker is an endless stream yielding the scheduled instant of each tick.
// Ticks are scheduled from the previous deadline, not from when they were
// observed, so a slow consumer receives the missed ticks back to back.
type Ticker struct {
	timer  *timer.Timer
	period time.Duration
}

// Interval returns a stream that ticks every d, starting d from now. It
// panics if d is not positive.
func Interval(d time.Duration, opts ...timer.Option) *Ticker {
	if d <= 0 {
		panic(errors.Validation("stream: non-positive interval"))
	}
	return &Ticker{timer: timer.After(d, opts...), period: d}
}

// PollNext implements poll.Stream. It never reports Done.
func (t *Ticker) PollNext(cx *poll.Context) (time.Time, poll.Status) {
	at, ok := t.timer.Poll(cx)
	if !ok {
		return time.Time{}, poll.Pending
	}
	t.timer.SetUntil(at.Add(t.period))
	observability.Global().RecordIntervalTick(cx.Context())
	return at, poll.Ready
}

// Period returns the tick spacing.
func (t *Ticker) Period() time.Duration { return t.period }

// Stop releases the pending wakeup. A later poll schedules it again.
func (t *Ticker) Stop() { t.timer.Stop() }
