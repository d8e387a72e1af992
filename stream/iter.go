package stream

import (
	"context"

	"github.com/kbukum/asynctime/poll"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

type pollIter[T any] struct {
	s    poll.Stream[T]
	done bool
}

// Iter adapts s to an Iterator. Each Next blocks the calling goroutine until
// s yields, ends or ctx is done. After the end of s or Close, Next reports
// exhaustion without polling s again.
func Iter[T any](s poll.Stream[T]) Iterator[T] {
	return &pollIter[T]{s: s}
}

func (it *pollIter[T]) Next(ctx context.Context) (T, bool, error) {
	if it.done {
		var zero T
		return zero, false, nil
	}
	v, ok, err := poll.Next(ctx, it.s)
	if err == nil && !ok {
		it.done = true
	}
	return v, ok, err
}

func (it *pollIter[T]) Close() error {
	it.done = true
	if c, ok := it.s.(interface{ Stop() }); ok {
		c.Stop()
	}
	return nil
}
