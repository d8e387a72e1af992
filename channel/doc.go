// Package channel provides the unbounded, poll-driven channel that carries
// control signals into stream combinators.
//
// The Receiver end implements poll.Stream, so it can be polled directly or
// drained with the helpers in package poll:
//
//	ctrl, rx := channel.NewParker()
//	parked := stream.Extend(src).Park(rx)
//	_ = ctrl.Unpark()
//
// Sending never blocks. Closing the Sender lets the Receiver drain what is
// queued and then report poll.Done.
package channel
