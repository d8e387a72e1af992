package task

import (
	"context"
	"testing"
	"time"

	"github.com/go-test/deep"

	"github.com/kbukum/asynctime/clock"
	"github.com/kbukum/asynctime/errors"
	"github.com/kbukum/asynctime/observability/metrictest"
	"github.com/kbukum/asynctime/poll"
	"github.com/kbukum/asynctime/timer"
)

var epoch = time.Unix(1_700_000_000, 0)

func TestSleep_ShorterResolvesFirst(t *testing.T) {
	tests := []struct {
		name   string
		d1, d2 time.Duration
	}{
		{name: "ms apart", d1: time.Millisecond, d2: 2 * time.Millisecond},
		{name: "zero and one", d1: 0, d2: time.Nanosecond},
		{name: "seconds", d1: time.Second, d2: time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := clock.NewManual(epoch)
			s1 := Sleep(tt.d1, timer.WithClock(clk))
			s2 := Sleep(tt.d2, timer.WithClock(clk))
			cx := poll.Background()

			var order []int
			s1done, s2done := false, false
			for step := 0; !(s1done && s2done) && step < 1000; step++ {
				if !s1done {
					if _, ok := s1.Poll(cx); ok {
						s1done = true
						order = append(order, 1)
					}
				}
				if !s2done {
					if _, ok := s2.Poll(cx); ok {
						s2done = true
						order = append(order, 2)
					}
				}
				if next, ok := clk.NextDeadline(); ok {
					clk.Set(next)
				}
			}
			if diff := deep.Equal(order, []int{1, 2}); diff != nil {
				t.Error(diff)
			}
		})
	}
}

func TestSleep_YieldsDeadline(t *testing.T) {
	clk := clock.NewManual(epoch)
	s := Sleep(time.Second, timer.WithClock(clk))
	if _, ok := s.Poll(poll.Background()); ok {
		t.Fatal("sleep ready before deadline")
	}
	clk.Advance(time.Second)
	at, ok := s.Poll(poll.Background())
	if !ok || !at.Equal(epoch.Add(time.Second)) {
		t.Errorf("Poll() = %v, %v", at, ok)
	}
	if !s.Done() {
		t.Error("Done() = false after resolving")
	}
}

func TestSleep_PanicsAfterCompletion(t *testing.T) {
	s := Sleep(0, timer.WithClock(clock.NewManual(epoch)))
	if _, ok := s.Poll(poll.Background()); !ok {
		t.Fatal("zero sleep should resolve on first poll")
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on second poll")
		}
		err, ok := r.(error)
		if !ok || !errors.IsCode(err, errors.ErrCodePolledAfterCompletion) {
			t.Errorf("panic value = %v, want polled-after-completion error", r)
		}
	}()
	s.Poll(poll.Background())
}

// trace polls s once per millisecond of manual time and records whether
// each poll was ready. It stops at the first ready poll.
func trace(clk *clock.Manual, s *Sleeper, steps int) []bool {
	out := make([]bool, 0, steps)
	for i := 0; i < steps; i++ {
		_, ok := s.Poll(poll.Background())
		out = append(out, ok)
		if ok {
			break
		}
		clk.Advance(time.Millisecond)
	}
	return out
}

func TestSleep_ResetBehavesLikeFresh(t *testing.T) {
	const d = 5 * time.Millisecond

	freshClk := clock.NewManual(epoch)
	want := trace(freshClk, Sleep(d, timer.WithClock(freshClk)), 20)

	clk := clock.NewManual(epoch)
	reused := Sleep(d, timer.WithClock(clk))
	trace(clk, reused, 20)
	clk.Advance(3 * time.Millisecond)
	reused.ResetDeadline()

	if reused.Done() {
		t.Fatal("Done() = true after reset")
	}
	if !reused.Deadline().Equal(clk.Now().Add(d)) {
		t.Errorf("Deadline() = %v, want %v", reused.Deadline(), clk.Now().Add(d))
	}
	if diff := deep.Equal(trace(clk, reused, 20), want); diff != nil {
		t.Error(diff)
	}
}

func TestSleepUntil(t *testing.T) {
	tests := []struct {
		name     string
		offset   time.Duration
		wantDur  time.Duration
		readyNow bool
	}{
		{name: "future instant", offset: 3 * time.Second, wantDur: 3 * time.Second},
		{name: "past instant", offset: -time.Second, wantDur: 0, readyNow: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := clock.NewManual(epoch)
			s := SleepUntil(epoch.Add(tt.offset), timer.WithClock(clk))
			if s.Duration() != tt.wantDur {
				t.Errorf("Duration() = %v, want %v", s.Duration(), tt.wantDur)
			}
			if _, ok := s.Poll(poll.Background()); ok != tt.readyNow {
				t.Errorf("first poll ready = %v, want %v", ok, tt.readyNow)
			}
		})
	}
}

func TestSleep_WakesBlockingDriver(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	start := time.Now()
	if _, err := poll.Block[time.Time](ctx, Sleep(10*time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("resolved after %v, want >= 10ms", elapsed)
	}
}

func TestSleep_Metrics(t *testing.T) {
	rec := metrictest.Install(t)
	clk := clock.NewManual(epoch)
	s := Sleep(time.Millisecond, timer.WithClock(clk))

	clk.Advance(time.Millisecond)
	s.Poll(poll.Background())
	s.ResetDeadline()
	clk.Advance(time.Millisecond)
	s.Poll(poll.Background())

	if got := rec.Sum("asynctime.sleep.fired"); got != 2 {
		t.Errorf("sleep.fired = %d, want 2", got)
	}
	if got := rec.Sum("asynctime.sleep.resets"); got != 1 {
		t.Errorf("sleep.resets = %d, want 1", got)
	}
}
