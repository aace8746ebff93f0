package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestContextFields_Empty(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
}

func TestContextFields_OTELTracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("test")

	ctx, span := tracer.Start(context.Background(), "process-patient")
	defer span.End()

	keys := map[string]string{}
	for _, f := range ContextFields(ctx) {
		keys[f.Key] = f.String
	}
	assert.Equal(t, span.SpanContext().TraceID().String(), keys["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), keys["span_id"])
}

func TestRunAndPatientIDs(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RunIDFromContext(ctx))
	assert.Empty(t, PatientIDFromContext(ctx))

	ctx = WithPatientID(WithRunID(ctx, "run-7"), "MRN1")
	assert.Equal(t, "run-7", RunIDFromContext(ctx))
	assert.Equal(t, "MRN1", PatientIDFromContext(ctx))
	assert.Len(t, ContextFields(ctx), 2)
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	logger := NewNop()
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}
