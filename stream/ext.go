package stream

import (
	"time"

	"github.com/kbukum/asynctime/channel"
	"github.com/kbukum/asynctime/poll"
	"github.com/kbukum/asynctime/timer"
)

const (
	component        = "stream"
	parkComponent    = "stream.park"
	timeoutOperation = "stream.timeout"
)

// Ext attaches time combinators to a stream. It embeds the wrapped stream,
// so an Ext is itself a poll.Stream[T].
type Ext[T any] struct {
	poll.Stream[T]
}

// Extend wraps s.
func Extend[T any](s poll.Stream[T]) Ext[T] {
	return Ext[T]{Stream: s}
}

// Delay holds the stream back for d.
func (e Ext[T]) Delay(d time.Duration, opts ...timer.Option) *Delay[T] {
	return NewDelay(e.Stream, d, opts...)
}

// Park gates the stream with signals from ctrl. The result starts
// suspended.
func (e Ext[T]) Park(ctrl poll.Stream[channel.Parker]) *Park[T] {
	return NewPark(e.Stream, ctrl)
}

// Timeout yields a timeout error for every window of d without an item.
func (e Ext[T]) Timeout(d time.Duration, opts ...timer.Option) *Timeout[T] {
	return NewTimeout(e.Stream, d, opts...)
}
