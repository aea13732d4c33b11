// Package tracing wraps the two inference suspension points — encoder
// forward passes and decoder/joint steps — in OpenTelemetry spans, so a
// caller who wires a real exporter gets latency breakdowns for free. With
// no exporter configured, otel's global no-op tracer keeps these calls free.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "streaming-asr-core"

// Tracer returns the process-wide tracer for the core's spans.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartEncoderSpan starts a span around one encoder forward pass.
func StartEncoderSpan(ctx context.Context) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "asrcore.encoder.forward")
}

// StartDecoderSpan starts a span around one chunk's full decode loop.
func StartDecoderSpan(ctx context.Context) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "asrcore.decoder.step")
}
