// Package stream provides time combinators for multi-value producers.
//
// Combinators are attached through Extend:
//
//	delayed := stream.Extend(src).Delay(time.Second)
//	items, err := poll.Collect(ctx, delayed)
//
// Delay holds a stream back once, at the start. Park suspends and resumes
// it on control signals. Timeout reports every window in which no item
// arrived. Interval is a source that ticks at a fixed period.
//
// Iter adapts any stream to the blocking Iterator contract for callers
// that are not poll-driven.
package stream
