// Package observability provides OpenTelemetry metrics and tracing for
// asynctime.
//
// Combinators report through the process-wide recorder returned by Global.
// Until SetMetrics installs one, recording is a no-op:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("demo"))
//	defer mp.Shutdown(ctx)
//
//	m, err := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
//	observability.SetMetrics(m)
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("demo"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "scenario.park")
//	defer span.End()
package observability
