package stream

import "github.com/kbukum/asynctime/poll"

type sliceStream[T any] struct {
	items []T
	pos   int
}

// FromSlice returns a stream that yields items in order and then ends.
func FromSlice[T any](items []T) poll.Stream[T] {
	return &sliceStream[T]{items: items}
}

func (s *sliceStream[T]) PollNext(*poll.Context) (T, poll.Status) {
	if s.pos >= len(s.items) {
		var zero T
		return zero, poll.Done
	}
	v := s.items[s.pos]
	s.pos++
	return v, poll.Ready
}
