package channel

import (
	stderrors "errors"
	"sync"

	"github.com/kbukum/asynctime/poll"
)

// ErrClosed is returned by Send once either end of the channel is closed.
var ErrClosed = stderrors.New("channel: closed")

// state is shared by both ends of a channel.
type state[T any] struct {
	mu     sync.Mutex
	queue  []T
	closed bool
	waker  poll.Waker
}

// Sender is the producing end of an unbounded channel.
type Sender[T any] struct {
	s *state[T]
}

// Receiver is the consuming end of an unbounded channel. It is a
// poll.Stream[T] that ends once the channel is closed and drained.
type Receiver[T any] struct {
	s *state[T]
}

// New creates an unbounded channel and returns both ends.
func New[T any]() (*Sender[T], *Receiver[T]) {
	s := &state[T]{}
	return &Sender[T]{s: s}, &Receiver[T]{s: s}
}

// Send queues v and wakes a pending receiver.
func (tx *Sender[T]) Send(v T) error {
	s := tx.s
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.queue = append(s.queue, v)
	w := s.take()
	s.mu.Unlock()

	if w != nil {
		w.Wake()
	}
	return nil
}

// Close marks the channel closed. Values already queued are still
// delivered, after which the receiver reports Done. Closing twice is a
// no-op.
func (tx *Sender[T]) Close() {
	s := tx.s
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	w := s.take()
	s.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}

// PollNext returns the next queued value, Done once the channel is closed
// and empty, or Pending after storing the waker from cx.
func (rx *Receiver[T]) PollNext(cx *poll.Context) (T, poll.Status) {
	s := rx.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if len(s.queue) > 0 {
		v := s.queue[0]
		s.queue[0] = zero
		s.queue = s.queue[1:]
		return v, poll.Ready
	}
	if s.closed {
		return zero, poll.Done
	}
	s.waker = cx.Waker()
	return zero, poll.Pending
}

// Len reports the number of queued values.
func (rx *Receiver[T]) Len() int {
	rx.s.mu.Lock()
	defer rx.s.mu.Unlock()
	return len(rx.s.queue)
}

// Close closes the channel from the receiving side and drops anything still
// queued. Later sends fail with ErrClosed.
func (rx *Receiver[T]) Close() {
	s := rx.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.queue = nil
	s.waker = nil
}

// take removes the stored waker. Callers hold s.mu.
func (s *state[T]) take() poll.Waker {
	w := s.waker
	s.waker = nil
	return w
}
