package stream

import (
	"github.com/google/uuid"

	"github.com/kbukum/asynctime/channel"
	"github.com/kbukum/asynctime/errors"
	"github.com/kbukum/asynctime/logger"
	"github.com/kbukum/asynctime/observability"
	"github.com/kbukum/asynctime/poll"
)

// ParkState is the state of a Park combinator.
type ParkState int

const (
	// Suspended waits for an Unpark signal. Park starts here.
	Suspended ParkState = iota
	// Active forwards items from the inner stream.
	Active
	// NoChannel forwards items and no longer reads control signals.
	NoChannel
	// Completed means the inner stream ended.
	Completed
)

func (s ParkState) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Active:
		return "active"
	case NoChannel:
		return "no_channel"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Park gates an inner stream with Park and Unpark signals read from a
// control stream. It starts suspended. Once the control stream ends, Park
// passes the inner stream straight through.
//
// While active, a pending Park signal is acted on before the inner stream is
// polled, so pausing wins over an item that is already available. The poll
// that consumes a Park signal always yields nothing, even when an Unpark is
// queued right behind it.
type Park[T any] struct {
	inner poll.Stream[T]
	ctrl  poll.Stream[channel.Parker]
	state ParkState
	id    string
}

// NewPark wraps inner, reading control signals from ctrl. ctrl is usually
// the receiver returned by channel.NewParker.
func NewPark[T any](inner poll.Stream[T], ctrl poll.Stream[channel.Parker]) *Park[T] {
	return &Park[T]{inner: inner, ctrl: ctrl, state: Suspended, id: uuid.NewString()}
}

// State returns the current state.
func (p *Park[T]) State() ParkState { return p.state }

// ID returns the identifier used in this instance's log lines.
func (p *Park[T]) ID() string { return p.id }

// PollNext implements poll.Stream. It panics if called after the stream
// reported Done.
func (p *Park[T]) PollNext(cx *poll.Context) (T, poll.Status) {
	var zero T
	for {
		switch p.state {
		case Suspended:
			sig, status := p.ctrl.PollNext(cx)
			switch {
			case status == poll.Pending:
				return zero, poll.Pending
			case status == poll.Done:
				p.transition(cx, NoChannel)
			case sig == channel.Unpark:
				p.transition(cx, Active)
			default:
				return p.hold(cx)
			}

		case Active:
			sig, status := p.nextSignal(cx)
			switch {
			case status == poll.Done:
				p.transition(cx, NoChannel)
				continue
			case status == poll.Ready && sig == channel.Park:
				p.transition(cx, Suspended)
				return p.hold(cx)
			}
			return p.forward(cx)

		case NoChannel:
			return p.forward(cx)

		default:
			panic(errors.PolledAfterCompletion("park"))
		}
	}
}

// nextSignal reads the control stream, skipping Unpark signals which are
// no-ops while active.
func (p *Park[T]) nextSignal(cx *poll.Context) (channel.Parker, poll.Status) {
	for {
		sig, status := p.ctrl.PollNext(cx)
		if status != poll.Ready || sig != channel.Unpark {
			return sig, status
		}
	}
}

// hold yields nothing for a consumed Park signal. The control stream has not
// registered the waker on this call, so the task is woken to read the next
// signal on its following poll.
func (p *Park[T]) hold(cx *poll.Context) (T, poll.Status) {
	var zero T
	cx.Waker().Wake()
	return zero, poll.Pending
}

func (p *Park[T]) forward(cx *poll.Context) (T, poll.Status) {
	v, status := p.inner.PollNext(cx)
	if status == poll.Done {
		p.transition(cx, Completed)
	}
	return v, status
}

func (p *Park[T]) transition(cx *poll.Context, to ParkState) {
	from := p.state
	p.state = to
	observability.Global().RecordParkTransition(cx.Context(), from.String(), to.String())
	if log := logger.Get(parkComponent); log.DebugEnabled() {
		log.WithContext(cx.Context()).Debug("park transition",
			logger.TransitionFields(from.String(), to.String()),
			logger.Fields(logger.FieldParkID, p.id))
	}
}
