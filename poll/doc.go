// Package poll defines the cooperative polling contract shared by every
// producer in asynctime.
//
// A Future resolves once: Poll returns (value, true) when ready and
// (zero, false) while pending. A Stream yields many values: PollNext returns
// a Status of Ready (with a value), Done (exhausted) or Pending. A producer
// that returns pending must have arranged for cx.Waker() to be called when
// progress becomes possible; the driver then polls again.
//
// Nothing in this package schedules work. Block, Next and Collect are
// minimal drivers that park the calling goroutine between polls; any host
// loop that honours the waker contract works equally well.
//
//	sleep := task.Sleep(100 * time.Millisecond)
//	at, err := poll.Block(ctx, sleep)
package poll
