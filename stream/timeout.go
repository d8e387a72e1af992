package stream

import (
	"time"

	"github.com/kbukum/asynctime/errors"
	"github.com/kbukum/asynctime/logger"
	"github.com/kbukum/asynctime/observability"
	"github.com/kbukum/asynctime/poll"
	"github.com/kbukum/asynctime/task"
	"github.com/kbukum/asynctime/timer"
)

// Timeout requires each item of an inner stream to arrive within a window
// of the previous one, or of construction for the first item. Every window
// that elapses without an item yields one timeout error; the stream keeps
// going afterwards and ends when the inner stream does.
type Timeout[T any] struct {
	inner poll.Stream[T]
	sleep *task.Sleeper
	done  bool
}

// NewTimeout wraps inner with a per-item window of d.
func NewTimeout[T any](inner poll.Stream[T], d time.Duration, opts ...timer.Option) *Timeout[T] {
	return &Timeout[T]{inner: inner, sleep: task.Sleep(d, opts...)}
}

// PollNext implements poll.Stream. It panics if called after Done.
func (t *Timeout[T]) PollNext(cx *poll.Context) (poll.Result[T], poll.Status) {
	if t.done {
		panic(errors.PolledAfterCompletion("stream timeout"))
	}
	v, status := t.inner.PollNext(cx)
	switch status {
	case poll.Ready:
		t.sleep.ResetDeadline()
		return poll.Ok(v), poll.Ready
	case poll.Done:
		t.done = true
		t.sleep.Stop()
		return poll.Result[T]{}, poll.Done
	}

	if _, ok := t.sleep.Poll(cx); !ok {
		return poll.Result[T]{}, poll.Pending
	}
	t.sleep.ResetDeadline()
	observability.Global().RecordTimeout(cx.Context(), timeoutOperation, observability.OutcomeTimedOut)
	if log := logger.Get(component); log.DebugEnabled() {
		log.WithContext(cx.Context()).Debug("stream window elapsed", logger.DurationFields(timeoutOperation, t.sleep.Duration()))
	}
	err := errors.Timeout(timeoutOperation).WithDetails(map[string]any{
		"window": t.sleep.Duration().String(),
	})
	return poll.Fail[T](err), poll.Ready
}
