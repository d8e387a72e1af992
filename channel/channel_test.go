package channel

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/go-test/deep"

	"github.com/kbukum/asynctime/poll"
)

func TestReceiver_FIFO(t *testing.T) {
	tx, rx := New[int]()
	for i := 1; i <= 3; i++ {
		if err := tx.Send(i); err != nil {
			t.Fatalf("Send(%d): %v", i, err)
		}
	}
	tx.Close()

	got, err := poll.Collect(context.Background(), rx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(got, []int{1, 2, 3}); diff != nil {
		t.Error(diff)
	}
}

func TestReceiver_PendingThenWoken(t *testing.T) {
	tx, rx := New[string]()
	woken := 0
	cx := poll.NewContext(nil, poll.WakerFunc(func() { woken++ }))

	if _, status := rx.PollNext(cx); status != poll.Pending {
		t.Fatalf("empty channel status = %v, want pending", status)
	}
	if err := tx.Send("a"); err != nil {
		t.Fatal(err)
	}
	if woken != 1 {
		t.Fatalf("expected send to wake receiver once, got %d", woken)
	}
	v, status := rx.PollNext(cx)
	if status != poll.Ready || v != "a" {
		t.Errorf("PollNext() = %q, %v", v, status)
	}
}

func TestSender_Close(t *testing.T) {
	tests := []struct {
		name   string
		queued []int
	}{
		{name: "empty", queued: nil},
		{name: "drains queued values first", queued: []int{7, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, rx := New[int]()
			for _, v := range tt.queued {
				_ = tx.Send(v)
			}
			tx.Close()
			tx.Close()

			for _, want := range tt.queued {
				v, status := rx.PollNext(poll.Background())
				if status != poll.Ready || v != want {
					t.Fatalf("PollNext() = %d, %v, want %d", v, status, want)
				}
			}
			if _, status := rx.PollNext(poll.Background()); status != poll.Done {
				t.Errorf("status after drain = %v, want done", status)
			}
			if err := tx.Send(1); !stderrors.Is(err, ErrClosed) {
				t.Errorf("Send after close = %v, want ErrClosed", err)
			}
		})
	}
}

func TestSender_CloseWakesReceiver(t *testing.T) {
	tx, rx := New[int]()
	woken := false
	rx.PollNext(poll.NewContext(nil, poll.WakerFunc(func() { woken = true })))
	tx.Close()
	if !woken {
		t.Error("close did not wake pending receiver")
	}
}

func TestReceiver_Close(t *testing.T) {
	tx, rx := New[int]()
	_ = tx.Send(1)
	rx.Close()
	if rx.Len() != 0 {
		t.Errorf("Len() = %d after receiver close", rx.Len())
	}
	if _, status := rx.PollNext(poll.Background()); status != poll.Done {
		t.Errorf("status = %v, want done", status)
	}
	if err := tx.Send(2); !stderrors.Is(err, ErrClosed) {
		t.Errorf("Send = %v, want ErrClosed", err)
	}
}

func TestReceiver_ConcurrentSenders(t *testing.T) {
	tx, rx := New[int]()
	const senders, each = 4, 50

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				_ = tx.Send(j)
			}
		}()
	}
	go func() {
		wg.Wait()
		tx.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := poll.Collect(ctx, rx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != senders*each {
		t.Errorf("received %d values, want %d", len(got), senders*each)
	}
}

func TestController(t *testing.T) {
	ctrl, rx := NewParker()
	if err := ctrl.Unpark(); err != nil {
		t.Fatal(err)
	}
	if err := ctrl.Park(); err != nil {
		t.Fatal(err)
	}
	ctrl.Close()

	got, err := poll.Collect(context.Background(), rx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(got, []Parker{Unpark, Park}); diff != nil {
		t.Error(diff)
	}
	if err := ctrl.Unpark(); !stderrors.Is(err, ErrClosed) {
		t.Errorf("Unpark after close = %v, want ErrClosed", err)
	}
}

func TestParker_String(t *testing.T) {
	tests := []struct {
		p    Parker
		want string
	}{
		{Park, "park"},
		{Unpark, "unpark"},
		{Parker(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Parker(%d).String() = %q, want %q", int(tt.p), got, tt.want)
		}
	}
}
