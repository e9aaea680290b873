package oteladapters_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable"
	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable/oteladapters"
)

func newTestTracer() (*tracetest.InMemoryExporter, *oteladapters.TracingCollector) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))

	return exporter, oteladapters.NewTracingCollector(provider.Tracer("test"))
}

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// arrange
	exporter, collector := newTestTracer()

	// act
	ctx, spanCtx := collector.StartSpan(context.Background(), "observable.subscription", map[string]string{"observable": "numbers"})
	spanCtx.AddAttribute("custom", "value")
	collector.FinishSpan(spanCtx, "completed", map[string]string{"notification_count": "3"})

	// assert
	assert.NotNil(t, ctx)
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "observable.subscription", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assertSpanHasAttribute(t, spans[0], "observable", "numbers")
	assertSpanHasAttribute(t, spans[0], "custom", "value")
	assertSpanHasAttribute(t, spans[0], "notification_count", "3")
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	tests := []struct {
		status        string
		expectedCode  codes.Code
		expectedEvent string
	}{
		{status: "completed", expectedCode: codes.Ok},
		{status: "error", expectedCode: codes.Error},
		{status: "canceled", expectedCode: codes.Unset, expectedEvent: "subscription.canceled"},
		{status: "paused", expectedCode: codes.Unset},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			// arrange
			exporter, collector := newTestTracer()
			_, spanCtx := collector.StartSpan(context.Background(), "test", nil)

			// act
			spanCtx.SetStatus(tt.status)
			collector.FinishSpan(spanCtx, tt.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.expectedCode, spans[0].Status.Code)

			if tt.expectedEvent != "" {
				require.Len(t, spans[0].Events, 1, "repeated status must not add the event twice")
				assert.Equal(t, tt.expectedEvent, spans[0].Events[0].Name)
			}
		})
	}
}

func Test_TracingCollector_FinishForeignSpanContextIsIgnored(t *testing.T) {
	exporter, collector := newTestTracer()

	assert.NotPanics(t, func() { collector.FinishSpan(nil, "completed", nil) })
	assert.Empty(t, exporter.GetSpans())
}

func Test_TracingCollector_WiredIntoObservable(t *testing.T) {
	// arrange
	exporter, collector := newTestTracer()
	boom := errors.New("boom")
	obs, err := observable.Throw[int](boom, observable.WithName("failing"), observable.WithTracing(collector))
	require.NoError(t, err)

	// act
	sub := obs.Subscribe(observable.Handlers[int, error]{})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "observable.subscription", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assertSpanHasAttribute(t, spans[0], "observable", "failing")
	assertSpanHasAttribute(t, spans[0], "subscription_id", sub.ID())
	assertSpanHasAttribute(t, spans[0], "notification_count", "1")
}

func Test_TracingCollector_SpanStaysOpenUntilUnsubscribe(t *testing.T) {
	// arrange
	exporter, collector := newTestTracer()
	obs, err := observable.New(
		func(o *observable.Observer[int, error]) observable.Teardown {
			o.Next(1)
			return nil
		},
		observable.WithTracing(collector),
	)
	require.NoError(t, err)

	// act
	sub := obs.Subscribe(observable.Handlers[int, error]{})
	require.Empty(t, exporter.GetSpans())

	sub.Unsubscribe()

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "subscription.canceled", spans[0].Events[0].Name)
}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, expectedValue string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) {
			assert.Equal(t, expectedValue, attr.Value.AsString(), "attribute %s", key)
			return
		}
	}

	t.Errorf("attribute %s not found in span", key)
}
