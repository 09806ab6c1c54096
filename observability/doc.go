// Package observability bootstraps OpenTelemetry tracing and metrics for
// sandbox clients and provides the client-side request instruments used by
// httpclient.Tracing and httpclient.Metrics.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("sandbox-cli"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("sandbox-cli"))
//	defer mp.Shutdown(ctx)
//
//	m, err := observability.NewClientMetrics(mp.Meter(observability.InstrumentationName))
package observability
