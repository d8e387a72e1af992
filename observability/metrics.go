package observability

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName is the meter and tracer name used by asynctime.
const InstrumentationName = "github.com/kbukum/asynctime"

// Outcome attribute values for timeout resolution.
const (
	OutcomeCompleted = "completed"
	OutcomeTimedOut  = "timed_out"
)

// Metrics holds the instruments combinators report to.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	timeoutResolved metric.Int64Counter
	sleepFired      metric.Int64Counter
	sleepResets     metric.Int64Counter
	parkTransitions metric.Int64Counter
	delayElapsed    metric.Int64Counter
	intervalTicks   metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	timeoutResolved, err := meter.Int64Counter("asynctime.timeout.resolved",
		metric.WithDescription("Timeouts resolved, by operation and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating asynctime.timeout.resolved counter: %w", err)
	}

	sleepFired, err := meter.Int64Counter("asynctime.sleep.fired",
		metric.WithDescription("Sleep futures that reached their deadline"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating asynctime.sleep.fired counter: %w", err)
	}

	sleepResets, err := meter.Int64Counter("asynctime.sleep.resets",
		metric.WithDescription("Sleep deadlines rearmed in place"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating asynctime.sleep.resets counter: %w", err)
	}

	parkTransitions, err := meter.Int64Counter("asynctime.park.transitions",
		metric.WithDescription("Park state machine transitions, by from and to state"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating asynctime.park.transitions counter: %w", err)
	}

	delayElapsed, err := meter.Int64Counter("asynctime.delay.elapsed",
		metric.WithDescription("Delay windows that elapsed, by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating asynctime.delay.elapsed counter: %w", err)
	}

	intervalTicks, err := meter.Int64Counter("asynctime.interval.ticks",
		metric.WithDescription("Interval ticks emitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating asynctime.interval.ticks counter: %w", err)
	}

	return &Metrics{
		timeoutResolved: timeoutResolved,
		sleepFired:      sleepFired,
		sleepResets:     sleepResets,
		parkTransitions: parkTransitions,
		delayElapsed:    delayElapsed,
		intervalTicks:   intervalTicks,
	}, nil
}

// RecordTimeout records how a timeout resolved.
func (m *Metrics) RecordTimeout(ctx context.Context, operation, outcome string) {
	if m == nil {
		return
	}
	m.timeoutResolved.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

// RecordSleepFired records a sleep reaching its deadline.
func (m *Metrics) RecordSleepFired(ctx context.Context) {
	if m == nil {
		return
	}
	m.sleepFired.Add(ctx, 1)
}

// RecordSleepReset records a sleep deadline being rearmed.
func (m *Metrics) RecordSleepReset(ctx context.Context) {
	if m == nil {
		return
	}
	m.sleepResets.Add(ctx, 1)
}

// RecordParkTransition records a park state change.
func (m *Metrics) RecordParkTransition(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	m.parkTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordDelayElapsed records a delay window elapsing. kind is "future" or
// "stream".
func (m *Metrics) RecordDelayElapsed(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.delayElapsed.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordIntervalTick records one interval tick.
func (m *Metrics) RecordIntervalTick(ctx context.Context) {
	if m == nil {
		return
	}
	m.intervalTicks.Add(ctx, 1)
}

var global atomic.Pointer[Metrics]

// SetMetrics installs m as the process-wide recorder. Passing nil disables
// recording.
func SetMetrics(m *Metrics) {
	global.Store(m)
}

// Global returns the process-wide recorder, possibly nil.
func Global() *Metrics {
	return global.Load()
}
