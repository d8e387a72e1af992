package poll

import "context"

// Status is the outcome of polling a Stream.
type Status int

const (
	// Pending means no value is available yet; the waker will be called.
	Pending Status = iota
	// Ready means a value was produced.
	Ready
	// Done means the stream is exhausted.
	Done
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Waker is notified when a pending producer can make progress.
type Waker interface {
	Wake()
}

// WakerFunc adapts a function to Waker.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }

// NoopWaker ignores wakeups. Useful for a single probing poll.
var NoopWaker Waker = WakerFunc(func() {})

// Context is passed to every poll. It carries the waker for the current
// task and the context.Context the task runs under.
type Context struct {
	ctx   context.Context
	waker Waker
}

// NewContext creates a poll context. A nil ctx becomes context.Background
// and a nil waker becomes NoopWaker.
func NewContext(ctx context.Context, w Waker) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if w == nil {
		w = NoopWaker
	}
	return &Context{ctx: ctx, waker: w}
}

// Background returns a poll context with a background context and no waker.
func Background() *Context {
	return NewContext(context.Background(), NoopWaker)
}

// Waker returns the waker to register while pending.
func (c *Context) Waker() Waker { return c.waker }

// Context returns the context.Context of the polling task.
func (c *Context) Context() context.Context { return c.ctx }

// Future is a single-value producer.
type Future[T any] interface {
	// Poll returns (value, true) once resolved, (zero, false) while pending.
	Poll(cx *Context) (T, bool)
}

// Stream is a multi-value producer.
type Stream[T any] interface {
	// PollNext returns the next value with Ready, or Pending / Done.
	PollNext(cx *Context) (T, Status)
}

// Result carries a value or an error out of a fallible producer.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{Value: v} }

// Fail wraps an error.
func Fail[T any](err error) Result[T] { return Result[T]{Err: err} }

// Get returns the value and error as a pair.
func (r Result[T]) Get() (T, error) { return r.Value, r.Err }
