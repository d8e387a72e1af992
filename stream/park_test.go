package stream

import (
	"context"
	"testing"
	"time"

	"github.com/go-test/deep"

	"github.com/kbukum/asynctime/channel"
	"github.com/kbukum/asynctime/errors"
	"github.com/kbukum/asynctime/observability/metrictest"
	"github.com/kbukum/asynctime/poll"
)

// pollOnce polls s once with a counting waker.
func pollOnce[T any](s poll.Stream[T], woken *int) (T, poll.Status) {
	return s.PollNext(poll.NewContext(nil, poll.WakerFunc(func() { *woken++ })))
}

func TestPark_StartsSuspended(t *testing.T) {
	_, rx := channel.NewParker()
	p := Extend(FromSlice([]int{1, 2, 3})).Park(rx)
	if p.State() != Suspended {
		t.Fatalf("initial state = %v, want suspended", p.State())
	}
	woken := 0
	for i := 0; i < 100; i++ {
		if v, status := pollOnce[int](p, &woken); status != poll.Pending {
			t.Fatalf("poll %d = %d, %v before any Unpark", i, v, status)
		}
	}
	if p.State() != Suspended {
		t.Errorf("state = %v, want suspended", p.State())
	}
}

func TestPark_UnparkWakesAndFlows(t *testing.T) {
	ctrl, rx := channel.NewParker()
	p := NewPark(FromSlice([]string{"a", "b"}), rx)

	woken := 0
	pollOnce[string](p, &woken)
	if err := ctrl.Unpark(); err != nil {
		t.Fatal(err)
	}
	if woken != 1 {
		t.Fatalf("Unpark woke %d times, want 1", woken)
	}

	var got []string
	for i := 0; i < 2; i++ {
		v, status := pollOnce[string](p, &woken)
		if status != poll.Ready {
			t.Fatalf("poll %d status = %v", i, status)
		}
		got = append(got, v)
	}
	if diff := deep.Equal(got, []string{"a", "b"}); diff != nil {
		t.Error(diff)
	}
	if p.State() != Active {
		t.Errorf("state = %v, want active", p.State())
	}
}

func TestPark_ParkPreemptsReadyItem(t *testing.T) {
	ctrl, rx := channel.NewParker()
	p := NewPark(FromSlice([]int{1, 2, 3}), rx)
	woken := 0

	_ = ctrl.Unpark()
	if v, status := pollOnce[int](p, &woken); status != poll.Ready || v != 1 {
		t.Fatalf("first poll = %d, %v", v, status)
	}

	_ = ctrl.Park()
	for i := 0; i < 5; i++ {
		if v, status := pollOnce[int](p, &woken); status != poll.Pending {
			t.Fatalf("poll while parked = %d, %v", v, status)
		}
	}
	if p.State() != Suspended {
		t.Fatalf("state = %v, want suspended", p.State())
	}

	_ = ctrl.Unpark()
	var got []int
	for {
		v, status := pollOnce[int](p, &woken)
		if status == poll.Done {
			break
		}
		if status != poll.Ready {
			t.Fatalf("unexpected status %v", status)
		}
		got = append(got, v)
	}
	if diff := deep.Equal(got, []int{2, 3}); diff != nil {
		t.Errorf("items after resume: %v", diff)
	}
}

func TestPark_UnparkWhileActiveIgnored(t *testing.T) {
	ctrl, rx := channel.NewParker()
	p := NewPark(FromSlice([]int{1, 2}), rx)
	woken := 0

	_ = ctrl.Unpark()
	pollOnce[int](p, &woken)
	_ = ctrl.Unpark()
	_ = ctrl.Unpark()
	v, status := pollOnce[int](p, &woken)
	if status != poll.Ready || v != 2 {
		t.Errorf("poll = %d, %v, want 2 ready", v, status)
	}
	if rx.Len() != 0 {
		t.Errorf("%d signals left queued", rx.Len())
	}
}

func TestPark_ParkSignalYieldsNothing(t *testing.T) {
	tests := []struct {
		name      string
		before    func(*channel.Controller)
		items     []int
		primed    int
		wantState ParkState
		want      int
	}{
		{
			name:      "while suspended",
			before:    func(*channel.Controller) {},
			items:     []int{9},
			wantState: Suspended,
			want:      9,
		},
		{
			name:      "while active",
			before:    func(c *channel.Controller) { _ = c.Unpark() },
			items:     []int{1, 2},
			primed:    1,
			wantState: Suspended,
			want:      2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, rx := channel.NewParker()
			p := NewPark(FromSlice(tt.items), rx)
			woken := 0

			tt.before(ctrl)
			for i := 0; i < tt.primed; i++ {
				if _, status := pollOnce[int](p, &woken); status != poll.Ready {
					t.Fatalf("priming poll %d status = %v", i, status)
				}
			}

			_ = ctrl.Park()
			_ = ctrl.Unpark()
			woken = 0
			if v, status := pollOnce[int](p, &woken); status != poll.Pending {
				t.Fatalf("poll consuming Park = %d, %v, want pending", v, status)
			}
			if p.State() != tt.wantState {
				t.Errorf("state after Park = %v, want %v", p.State(), tt.wantState)
			}
			if woken != 1 {
				t.Errorf("woken %d times after consuming Park, want 1", woken)
			}

			v, status := pollOnce[int](p, &woken)
			if status != poll.Ready || v != tt.want {
				t.Errorf("next poll = %d, %v, want %d ready", v, status, tt.want)
			}
			if p.State() != Active {
				t.Errorf("state = %v, want active", p.State())
			}
		})
	}
}

func TestPark_ChannelDroppedBecomesPassthrough(t *testing.T) {
	tests := []struct {
		name    string
		signals func(*channel.Controller)
	}{
		{name: "while suspended", signals: func(*channel.Controller) {}},
		{name: "while active", signals: func(c *channel.Controller) { _ = c.Unpark() }},
		{name: "after park", signals: func(c *channel.Controller) { _ = c.Unpark(); _ = c.Park() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, rx := channel.NewParker()
			p := NewPark(FromSlice([]int{1, 2, 3}), rx)
			tt.signals(ctrl)
			ctrl.Close()

			got, err := poll.Collect[int](context.Background(), p)
			if err != nil {
				t.Fatal(err)
			}
			if diff := deep.Equal(got, []int{1, 2, 3}); diff != nil {
				t.Error(diff)
			}
			if p.State() != Completed {
				t.Errorf("state = %v, want completed", p.State())
			}
		})
	}
}

func TestPark_EndToEnd(t *testing.T) {
	ctrl, rx := channel.NewParker()
	p := Extend(FromSlice([]int{1, 2, 3})).Park(rx)

	done := make(chan struct{})
	var got []int
	var err error
	go func() {
		defer close(done)
		got, err = poll.Collect[int](context.Background(), p)
	}()

	select {
	case <-done:
		t.Fatal("stream finished before Unpark")
	case <-time.After(20 * time.Millisecond):
	}

	_ = ctrl.Unpark()
	ctrl.Close()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not finish after Unpark and close")
	}
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(got, []int{1, 2, 3}); diff != nil {
		t.Error(diff)
	}
}

func TestPark_PanicsAfterCompletion(t *testing.T) {
	ctrl, rx := channel.NewParker()
	ctrl.Close()
	p := NewPark(FromSlice[int](nil), rx)
	if _, status := p.PollNext(poll.Background()); status != poll.Done {
		t.Fatalf("status = %v, want done", status)
	}
	defer func() {
		err, _ := recover().(error)
		if !errors.IsCode(err, errors.ErrCodePolledAfterCompletion) {
			t.Errorf("recovered %v, want polled-after-completion", err)
		}
	}()
	p.PollNext(poll.Background())
}

func TestPark_Metrics(t *testing.T) {
	rec := metrictest.Install(t)
	ctrl, rx := channel.NewParker()
	p := NewPark(FromSlice([]int{1}), rx)
	_ = ctrl.Unpark()
	ctrl.Close()
	if _, err := poll.Collect[int](context.Background(), p); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		from, to ParkState
		want     int64
	}{
		{Suspended, Active, 1},
		{Active, NoChannel, 1},
		{NoChannel, Completed, 1},
		{Active, Suspended, 0},
	}
	for _, tt := range tests {
		got := rec.Sum("asynctime.park.transitions", "from", tt.from.String(), "to", tt.to.String())
		if got != tt.want {
			t.Errorf("%v -> %v = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
	if p.ID() == "" {
		t.Error("park instance has no ID")
	}
}

func TestParkState_String(t *testing.T) {
	tests := []struct {
		s    ParkState
		want string
	}{
		{Suspended, "suspended"},
		{Active, "active"},
		{NoChannel, "no_channel"},
		{Completed, "completed"},
		{ParkState(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
