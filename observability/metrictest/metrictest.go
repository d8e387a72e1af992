// Package metrictest installs an in-memory metrics recorder for tests.
package metrictest

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/kbukum/asynctime/observability"
)

// Recorder reads back what combinators recorded.
type Recorder struct {
	t      testing.TB
	reader *sdkmetric.ManualReader
}

// Install creates metrics backed by a manual reader, installs them as the
// global recorder and restores the previous one on cleanup. Tests using it
// must not run in parallel with other tests that record metrics.
func Install(t testing.TB) *Recorder {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := observability.NewMetrics(mp.Meter(observability.InstrumentationName))
	if err != nil {
		t.Fatalf("creating metrics: %v", err)
	}
	prev := observability.Global()
	observability.SetMetrics(m)
	t.Cleanup(func() {
		observability.SetMetrics(prev)
		_ = mp.Shutdown(context.Background())
	})
	return &Recorder{t: t, reader: reader}
}

// Sum returns the total of the int64 counter name across data points whose
// attributes include every key/value pair in kvs.
func (r *Recorder) Sum(name string, kvs ...string) int64 {
	r.t.Helper()
	var rm metricdata.ResourceMetrics
	if err := r.reader.Collect(context.Background(), &rm); err != nil {
		r.t.Fatalf("collecting metrics: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				r.t.Fatalf("metric %s is %T, not an int64 sum", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				if matches(dp.Attributes, kvs) {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func matches(set attribute.Set, kvs []string) bool {
	for i := 0; i+1 < len(kvs); i += 2 {
		v, ok := set.Value(attribute.Key(kvs[i]))
		if !ok || v.AsString() != kvs[i+1] {
			return false
		}
	}
	return true
}
