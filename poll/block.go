package poll

import "context"

// wakeSignal is a one-slot wake channel; repeated wakes between polls
// collapse into one.
type wakeSignal chan struct{}

func newWakeSignal() wakeSignal { return make(wakeSignal, 1) }

func (w wakeSignal) Wake() {
	select {
	case w <- struct{}{}:
	default:
	}
}

// Block polls f until it resolves, parking the goroutine between polls.
// It returns ctx.Err() if ctx is done first; f is not polled again after
// that.
func Block[T any](ctx context.Context, f Future[T]) (T, error) {
	wake := newWakeSignal()
	cx := NewContext(ctx, wake)
	for {
		if v, ok := f.Poll(cx); ok {
			return v, nil
		}
		select {
		case <-wake:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Next polls s until it yields a value or ends. It returns (value, true, nil)
// for a value and (zero, false, nil) at end of stream.
func Next[T any](ctx context.Context, s Stream[T]) (T, bool, error) {
	return next(ctx, s, newWakeSignal())
}

func next[T any](ctx context.Context, s Stream[T], wake wakeSignal) (T, bool, error) {
	cx := NewContext(ctx, wake)
	for {
		v, status := s.PollNext(cx)
		switch status {
		case Ready:
			return v, true, nil
		case Done:
			var zero T
			return zero, false, nil
		}
		select {
		case <-wake:
		case <-ctx.Done():
			var zero T
			return zero, false, ctx.Err()
		}
	}
}

// Collect drains s into a slice. On context cancellation it returns the
// values received so far together with ctx.Err().
func Collect[T any](ctx context.Context, s Stream[T]) ([]T, error) {
	wake := newWakeSignal()
	var out []T
	for {
		v, ok, err := next(ctx, s, wake)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

// ForEach calls fn for every value of s until the stream ends, fn fails or
// ctx is done.
func ForEach[T any](ctx context.Context, s Stream[T], fn func(context.Context, T) error) error {
	wake := newWakeSignal()
	for {
		v, ok, err := next(ctx, s, wake)
		if err != nil || !ok {
			return err
		}
		if err := fn(ctx, v); err != nil {
			return err
		}
	}
}
