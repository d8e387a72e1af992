package poll

// FutureFunc adapts a poll function to Future.
type FutureFunc[T any] func(cx *Context) (T, bool)

// Poll calls f.
func (f FutureFunc[T]) Poll(cx *Context) (T, bool) { return f(cx) }

// StreamFunc adapts a poll function to Stream.
type StreamFunc[T any] func(cx *Context) (T, Status)

// PollNext calls f.
func (f StreamFunc[T]) PollNext(cx *Context) (T, Status) { return f(cx) }

// Value returns a future that is immediately ready with v.
func Value[T any](v T) Future[T] {
	return FutureFunc[T](func(*Context) (T, bool) { return v, true })
}

// Never returns a future that stays pending forever.
func Never[T any]() Future[T] {
	return FutureFunc[T](func(*Context) (T, bool) {
		var zero T
		return zero, false
	})
}

// Empty returns a stream that is immediately done.
func Empty[T any]() Stream[T] {
	return StreamFunc[T](func(*Context) (T, Status) {
		var zero T
		return zero, Done
	})
}
