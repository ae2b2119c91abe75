package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func contextWithSpan(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		l := zap.NewExample()
		ctx := WithContext(context.Background(), l)
		assert.Same(t, l, FromContext(ctx))
	})

	t.Run("returns no-op logger when absent", func(t *testing.T) {
		l := FromContext(context.Background())
		require.NotNil(t, l)
		assert.NotPanics(t, func() { l.Info("ignored") })
	})
}

func TestRequestAndTenantIDs(t *testing.T) {
	ctx := WithTenantID(WithRequestID(context.Background(), "req-1"), "tenant-1")

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "tenant-1", TenantID(ctx))
	assert.Empty(t, RequestID(context.Background()))
	assert.Empty(t, TenantID(context.Background()))
}

func TestTraceID(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", TraceID(contextWithSpan(t)))
}

func TestCtx(t *testing.T) {
	t.Run("adds correlation fields", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		ctx := WithTenantID(WithRequestID(contextWithSpan(t), "req-7"), "tenant-7")

		Ctx(ctx, zap.New(core)).Info("synced")

		require.Equal(t, 1, recorded.Len())
		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
		assert.Equal(t, "req-7", fields["request_id"])
		assert.Equal(t, "tenant-7", fields["tenant_id"])
	})

	t.Run("returns base unchanged without fields", func(t *testing.T) {
		base := zap.NewExample()
		assert.Same(t, base, Ctx(context.Background(), base))
	})

	t.Run("falls back to context logger when base is nil", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		ctx := WithContext(context.Background(), zap.New(core))

		Ctx(ctx, nil).Info("from context")

		assert.Equal(t, 1, recorded.Len())
	})
}
