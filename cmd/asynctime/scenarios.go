package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/asynctime/bootstrap"
	"github.com/kbukum/asynctime/channel"
	"github.com/kbukum/asynctime/config"
	"github.com/kbukum/asynctime/errors"
	"github.com/kbukum/asynctime/future"
	"github.com/kbukum/asynctime/logger"
	"github.com/kbukum/asynctime/observability"
	"github.com/kbukum/asynctime/poll"
	"github.com/kbukum/asynctime/stream"
	"github.com/kbukum/asynctime/task"
)

// scenario runs one combinator and returns a short outcome label.
type scenario struct {
	name string
	run  func(ctx context.Context, t config.Timing) (string, error)
}

var scenarios = []scenario{
	{name: "sleep", run: runSleep},
	{name: "timeout", run: runTimeoutCompleted},
	{name: "timeout.expired", run: runTimeoutExpired},
	{name: "delay.future", run: runFutureDelay},
	{name: "delay.stream", run: runStreamDelay},
	{name: "park", run: runPark},
	{name: "interval", run: runInterval},
	{name: "stream.timeout", run: runStreamTimeout},
}

// runScenarios runs every scenario in order, each in its own span, and
// records the results.
func runScenarios(ctx context.Context, t config.Timing, summary *bootstrap.Summary) {
	for _, sc := range scenarios {
		if ctx.Err() != nil {
			summary.Record(sc.name, "skipped", 0, ctx.Err())
			continue
		}
		sctx, span := observability.StartSpan(ctx, "scenario."+sc.name)
		start := time.Now()
		outcome, err := attempt(sctx, sc, t)
		elapsed := time.Since(start)

		observability.SetSpanAttributes(sctx,
			observability.AttrScenario, sc.name,
			observability.AttrOutcome, outcome,
		)
		observability.EndSpan(span, err)
		summary.Record(sc.name, outcome, elapsed, err)

		logger.Get("scenario").WithContext(sctx).Debug("scenario done", logger.Fields(
			logger.FieldOperation, sc.name,
			logger.FieldOutcome, outcome,
		))
	}
}

// attempt runs sc, retrying once when it fails with a retryable error such
// as a timeout.
func attempt(ctx context.Context, sc scenario, t config.Timing) (string, error) {
	outcome, err := guarded(ctx, sc, t)
	if err != nil && errors.IsRetryable(err) && ctx.Err() == nil {
		logger.Get("scenario").WithContext(ctx).Warn("retrying scenario", logger.ErrorFields(sc.name, err))
		outcome, err = guarded(ctx, sc, t)
	}
	return outcome, err
}

// guarded runs sc and reports a panic inside it as an internal error.
func guarded(ctx context.Context, sc scenario, t config.Timing) (outcome string, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			outcome = "panicked"
			err = errors.Internal(cause).WithDetail("scenario", sc.name)
		}
	}()
	return sc.run(ctx, t)
}

func runSleep(ctx context.Context, t config.Timing) (string, error) {
	s := task.Sleep(t.Sleep)
	first, err := poll.Block[time.Time](ctx, s)
	if err != nil {
		return "", err
	}
	s.ResetDeadline()
	second, err := poll.Block[time.Time](ctx, s)
	if err != nil {
		return "", err
	}
	if second.Sub(first) < t.Sleep {
		return "", fmt.Errorf("reset sleep fired %v after the first, want >= %v", second.Sub(first), t.Sleep)
	}
	return "fired_twice", nil
}

func runTimeoutCompleted(ctx context.Context, t config.Timing) (string, error) {
	work := future.Extend[time.Time](task.Sleep(t.Work)).Timeout(t.Timeout)
	res, err := poll.Block[poll.Result[time.Time]](ctx, work)
	if err != nil {
		return "", err
	}
	if res.Err != nil {
		return observability.OutcomeTimedOut, fmt.Errorf("work of %v did not finish within %v: %w", t.Work, t.Timeout, res.Err)
	}
	return observability.OutcomeCompleted, nil
}

func runTimeoutExpired(ctx context.Context, t config.Timing) (string, error) {
	slow := future.Extend[time.Time](task.Sleep(2 * t.Timeout)).Timeout(t.Timeout)
	res, err := poll.Block[poll.Result[time.Time]](ctx, slow)
	if err != nil {
		return "", err
	}
	if !errors.IsTimeout(res.Err) {
		return observability.OutcomeCompleted, fmt.Errorf("work of %v finished within %v", 2*t.Timeout, t.Timeout)
	}
	return observability.OutcomeTimedOut, nil
}

func runFutureDelay(ctx context.Context, t config.Timing) (string, error) {
	start := time.Now()
	d := future.Extend(poll.Value("payload")).Delay(start.Add(t.Delay))
	v, err := poll.Block[string](ctx, d)
	if err != nil {
		return "", err
	}
	if elapsed := time.Since(start); elapsed < t.Delay {
		return "", fmt.Errorf("delayed future resolved after %v, want >= %v", elapsed, t.Delay)
	}
	return v, nil
}

func runStreamDelay(ctx context.Context, t config.Timing) (string, error) {
	start := time.Now()
	items, err := poll.Collect[int](ctx, stream.Extend(stream.FromSlice([]int{1, 2, 3})).Delay(t.Delay))
	if err != nil {
		return "", err
	}
	if elapsed := time.Since(start); elapsed < t.Delay {
		return "", fmt.Errorf("delayed stream ended after %v, want >= %v", elapsed, t.Delay)
	}
	return fmt.Sprintf("items=%v", items), nil
}

// runPark resumes, pauses and resumes a ticking stream from a controller
// goroutine, then drops the channel so the rest passes through.
func runPark(ctx context.Context, t config.Timing) (string, error) {
	ctrl, rx := channel.NewParker()
	ticks := take[time.Time](stream.Interval(t.Interval), t.Ticks)
	parked := stream.Extend(ticks).Park(rx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		steps := []func() error{ctrl.Unpark, ctrl.Park, ctrl.Unpark}
		for _, step := range steps {
			select {
			case <-time.After(t.Interval):
			case <-ctx.Done():
			}
			_ = step()
		}
		ctrl.Close()
	}()

	items, err := poll.Collect[time.Time](ctx, parked)
	wg.Wait()
	if err != nil {
		return "", err
	}
	if len(items) != t.Ticks {
		return "", fmt.Errorf("parked stream yielded %d ticks, want %d", len(items), t.Ticks)
	}
	return fmt.Sprintf("ticks=%d state=%s", len(items), parked.State()), nil
}

func runInterval(ctx context.Context, t config.Timing) (string, error) {
	start := time.Now()
	ticks, err := poll.Collect[time.Time](ctx, take[time.Time](stream.Interval(t.Interval), t.Ticks))
	if err != nil {
		return "", err
	}
	if want := time.Duration(t.Ticks) * t.Interval; time.Since(start) < want {
		return "", fmt.Errorf("%d ticks took %v, want >= %v", t.Ticks, time.Since(start), want)
	}
	return fmt.Sprintf("ticks=%d", len(ticks)), nil
}

// runStreamTimeout feeds a stream ticking slower than the window through
// Timeout, so windows elapse between items.
func runStreamTimeout(ctx context.Context, t config.Timing) (string, error) {
	slow := take[time.Time](stream.Interval(2*t.Window), t.Ticks)
	results, err := poll.Collect[poll.Result[time.Time]](ctx, stream.Extend(slow).Timeout(t.Window))
	if err != nil {
		return "", err
	}
	var items, timeouts int
	for _, r := range results {
		switch {
		case r.Err == nil:
			items++
		case errors.IsTimeout(r.Err):
			timeouts++
		default:
			return "", r.Err
		}
	}
	if items != t.Ticks {
		return "", fmt.Errorf("got %d items through the timeout, want %d", items, t.Ticks)
	}
	return fmt.Sprintf("items=%d timeouts=%d", items, timeouts), nil
}

// takeStream ends s after n items.
type takeStream[T any] struct {
	s poll.Stream[T]
	n int
}

func take[T any](s poll.Stream[T], n int) poll.Stream[T] {
	return &takeStream[T]{s: s, n: n}
}

func (t *takeStream[T]) PollNext(cx *poll.Context) (T, poll.Status) {
	if t.n <= 0 {
		var zero T
		return zero, poll.Done
	}
	v, status := t.s.PollNext(cx)
	if status == poll.Ready {
		t.n--
	}
	return v, status
}
