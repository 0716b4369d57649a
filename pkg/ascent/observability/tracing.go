package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/ascent/pkg/ascent/expr"
)

const tracerName = "github.com/randalmurphal/ascent"

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartEvaluateSpan starts a span covering compile and evaluation.
	StartEvaluateSpan(ctx context.Context, source, evalID string) (context.Context, trace.Span)

	// StartCompileSpan starts a child span for compilation.
	StartCompileSpan(ctx context.Context) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager that uses the global OTel tracer
// provider.
func NewSpanManager() SpanManager {
	return &otelSpanManager{tracer: otel.Tracer(tracerName)}
}

// NewSpanManagerWithProvider returns a SpanManager bound to provider.
func NewSpanManagerWithProvider(provider trace.TracerProvider) SpanManager {
	return &otelSpanManager{tracer: provider.Tracer(tracerName)}
}

// StartEvaluateSpan starts the root span for one evaluation.
func (m *otelSpanManager) StartEvaluateSpan(ctx context.Context, source, evalID string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "ascent.evaluate",
		trace.WithAttributes(
			attribute.String("ascent.expression", truncate(source)),
			attribute.String("ascent.eval_id", evalID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartCompileSpan starts a span for compilation.
func (m *otelSpanManager) StartCompileSpan(ctx context.Context) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "ascent.compile", trace.WithSpanKind(trace.SpanKindInternal))
}

// EndSpanWithError completes a span. Expression errors are tagged with
// their kind, stage and position.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if e, ok := expr.AsError(err); ok {
			span.SetAttributes(
				attribute.String("ascent.error.kind", e.Kind.String()),
				attribute.String("ascent.error.stage", e.Stage.String()),
				attribute.Int("ascent.error.pos", e.Pos),
			)
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
