package future

import (
	"time"

	"github.com/kbukum/asynctime/poll"
	"github.com/kbukum/asynctime/task"
	"github.com/kbukum/asynctime/timer"
)

const (
	component = "future"
	operation = "future.timeout"
)

// Ext attaches time combinators to a future. It embeds the wrapped future,
// so an Ext is itself a poll.Future[T].
type Ext[T any] struct {
	poll.Future[T]
}

// Extend wraps f.
func Extend[T any](f poll.Future[T]) Ext[T] {
	return Ext[T]{Future: f}
}

// Timeout fails the future with a timeout error unless it resolves within d.
func (e Ext[T]) Timeout(d time.Duration, opts ...timer.Option) *Timeout[T] {
	return NewTimeout(e.Future, task.Sleep(d, opts...))
}

// Delay starts polling the future at the given instant.
func (e Ext[T]) Delay(at time.Time, opts ...timer.Option) *Delay[T] {
	return NewDelay(e.Future, task.SleepUntil(at, opts...))
}
