package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable"
)

// TracingCollector implements observable.TracingCollector with an OpenTelemetry tracer.
// The subscription span becomes the parent of spans started from the context passed to handlers' callers.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a tracing collector that starts spans with tracer.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a span with attrs and returns the derived context.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, observable.SpanContext) {
	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan adds attrs, maps status to a span status, and ends the span.
// Span contexts not created by this collector are ignored.
func (t *TracingCollector) FinishSpan(spanCtx observable.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(toAttributes(attrs)...)
	otelSpanCtx.SetStatus(status)
	otelSpanCtx.span.End()
}

var _ observable.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext wraps an OpenTelemetry span as observable.SpanContext.
type OTelSpanContext struct {
	span   trace.Span
	status string
}

// SetStatus maps a subscription status to an OpenTelemetry status code.
//
//	completed -> Ok
//	error     -> Error
//	canceled  -> Unset, with a "subscription.canceled" event
//
// Other values are kept as a "status" attribute. Setting the same status twice has no further effect.
func (s *OTelSpanContext) SetStatus(status string) {
	if status == s.status {
		return
	}

	s.status = status

	switch status {
	case "completed":
		s.span.SetStatus(codes.Ok, "")
	case "error":
		s.span.SetStatus(codes.Error, "subscription terminated with error")
	case "canceled":
		s.span.AddEvent("subscription.canceled")
	default:
		s.span.SetAttributes(attribute.String("status", status))
	}
}

// AddAttribute adds a string attribute to the span.
func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

var _ observable.SpanContext = (*OTelSpanContext)(nil)
