// Package task provides standalone time futures.
//
// Sleep and SleepUntil return a *Sleeper, a poll.Future[time.Time] that can
// be rearmed in place with ResetDeadline:
//
//	s := task.Sleep(time.Second)
//	at, err := poll.Block(ctx, s)
//	s.ResetDeadline()
//	at, err = poll.Block(ctx, s)
package task
