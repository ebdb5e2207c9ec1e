package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// withRecorder installs a recording tracer provider for the duration of the test
func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	recorder := withRecorder(t)

	t.Run("ok span", func(t *testing.T) {
		ctx, span := StartServiceSpan(context.Background(), "invoice", "send", AttrCompanyID.String("c-1"))
		assert.NotEmpty(t, TraceID(ctx))
		EndSpan(span, nil)

		ended := recorder.Ended()
		require.NotEmpty(t, ended)
		last := ended[len(ended)-1]
		assert.Equal(t, "invoice.send", last.Name())
		assert.Equal(t, codes.Ok, last.Status().Code)
		assert.Contains(t, last.Attributes(), AttrCompanyID.String("c-1"))
	})

	t.Run("error span", func(t *testing.T) {
		_, span := StartServiceSpan(context.Background(), "invoice", "record_payment")
		EndSpan(span, errors.New("overpayment"))

		ended := recorder.Ended()
		last := ended[len(ended)-1]
		assert.Equal(t, codes.Error, last.Status().Code)
		assert.Equal(t, "overpayment", last.Status().Description)
		require.Len(t, last.Events(), 1)
		assert.Equal(t, "exception", last.Events()[0].Name)
	})
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}
