// Package clock abstracts the time source used by timers.
//
// Real delegates to the time package: Now carries a monotonic reading and
// AfterFunc runs its callback on a runtime goroutine. Manual is a
// deterministic clock for tests: time only moves when Advance or Set is
// called, and due callbacks run synchronously inside that call, in deadline
// order.
//
//	clk := clock.NewManual(time.Unix(0, 0))
//	clk.AfterFunc(time.Second, func() { fmt.Println("fired") })
//	clk.Advance(time.Second) // prints "fired"
package clock
