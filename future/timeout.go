package future

import (
	"time"

	"github.com/kbukum/asynctime/errors"
	"github.com/kbukum/asynctime/logger"
	"github.com/kbukum/asynctime/observability"
	"github.com/kbukum/asynctime/poll"
)

// Timeout races an inner future against a deadline future. The inner future
// is polled first on every call, so it wins when both are ready together.
//
// A Timeout resolves once. Polling it again panics.
type Timeout[T any] struct {
	inner    poll.Future[T]
	deadline poll.Future[time.Time]
	done     bool
}

// NewTimeout wraps inner so that it fails with a timeout error if deadline
// resolves first. deadline is typically a *task.Sleeper.
func NewTimeout[T any](inner poll.Future[T], deadline poll.Future[time.Time]) *Timeout[T] {
	return &Timeout[T]{inner: inner, deadline: deadline}
}

// Poll implements poll.Future. The inner value is passed through unchanged;
// the timeout outcome is reported as an error matching errors.IsTimeout.
func (t *Timeout[T]) Poll(cx *poll.Context) (poll.Result[T], bool) {
	if t.done {
		panic(errors.PolledAfterCompletion("timeout"))
	}
	if v, ok := t.inner.Poll(cx); ok {
		t.resolve(cx, observability.OutcomeCompleted)
		return poll.Ok(v), true
	}
	if _, ok := t.deadline.Poll(cx); ok {
		t.resolve(cx, observability.OutcomeTimedOut)
		return poll.Fail[T](errors.Timeout(operation)), true
	}
	return poll.Result[T]{}, false
}

func (t *Timeout[T]) resolve(cx *poll.Context, outcome string) {
	t.done = true
	observability.Global().RecordTimeout(cx.Context(), operation, outcome)
	if log := logger.Get(component); log.DebugEnabled() {
		log.WithContext(cx.Context()).Debug("timeout resolved", logger.Fields(
			logger.FieldOperation, operation,
			logger.FieldOutcome, outcome,
		))
	}
}
