// Package telemetry sets up OpenTelemetry tracing and metrics export for
// eventdates.
//
// Spans cover one patient each during a run. Metrics cover the HTTP
// surface. Both are exported over OTLP (grpc or http/protobuf) to a
// collector when enabled:
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: grpc
//	  sampling:
//	    rate: 1.0
//	  metrics:
//	    enabled: true
//	    export_interval: 15s
//
// When disabled, Tracer and Meter fall back to the global no-op
// providers. Initialization failures degrade the instance instead of
// failing the run.
//
// Tests use TestTelemetry, which records spans and metrics in memory:
//
//	tt := telemetry.NewTestTelemetry()
//	_, span := tt.Tracer("test").Start(ctx, "pipeline.patient")
//	span.End()
//	tt.AssertSpanExists(t, "pipeline.patient")
package telemetry
