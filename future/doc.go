// Package future provides time combinators for single-value producers.
//
//	res, err := poll.Block(ctx, future.Extend(work).Timeout(time.Second))
//	if err == nil && errors.IsTimeout(res.Err) {
//		// work did not finish in time
//	}
//
// Timeout races the future against a deadline; Delay waits for an instant
// before polling it at all.
package future
