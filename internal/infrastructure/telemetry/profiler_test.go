package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{ServerAddress: "http://localhost:4040", ApplicationName: "pricelist"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProfilerConfig
		want string
	}{
		{
			name: "server address required",
			cfg:  ProfilerConfig{Enabled: true, ApplicationName: "pricelist"},
			want: "server address is required",
		},
		{
			name: "application name required",
			cfg:  ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"},
			want: "application name is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProfiler(tt.cfg, zaptest.NewLogger(t))
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestProfileTypes(t *testing.T) {
	base := profileTypes(ProfilerConfig{})
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocObjects,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileInuseObjects,
		pyroscope.ProfileInuseSpace,
	}, base)

	all := profileTypes(ProfilerConfig{ProfileGoroutines: true, ProfileMutex: true, ProfileBlock: true})
	assert.Len(t, all, len(base)+5)
	assert.Contains(t, all, pyroscope.ProfileGoroutines)
	assert.Contains(t, all, pyroscope.ProfileMutexDuration)
	assert.Contains(t, all, pyroscope.ProfileBlockCount)
}

func TestRateOrDefault(t *testing.T) {
	assert.Equal(t, defaultProfileRate, rateOrDefault(0))
	assert.Equal(t, defaultProfileRate, rateOrDefault(-1))
	assert.Equal(t, 10, rateOrDefault(10))
}

func TestWithProfilingLabels(t *testing.T) {
	t.Run("attaches sorted labels and drops empty values", func(t *testing.T) {
		var route, tenant string
		var hasTenant bool
		WithProfilingLabels(context.Background(), map[string]string{
			ProfilingLabelRoute:    "/api/v1/pricing/resolve",
			ProfilingLabelTenantID: "",
		}, func(ctx context.Context) {
			route, _ = pprof.Label(ctx, ProfilingLabelRoute)
			tenant, hasTenant = pprof.Label(ctx, ProfilingLabelTenantID)
		})
		assert.Equal(t, "/api/v1/pricing/resolve", route)
		assert.False(t, hasTenant)
		assert.Empty(t, tenant)
	})

	t.Run("runs fn directly without labels", func(t *testing.T) {
		called := false
		WithProfilingLabels(context.Background(), nil, func(ctx context.Context) {
			called = true
			_, ok := pprof.Label(ctx, ProfilingLabelRoute)
			assert.False(t, ok)
		})
		assert.True(t, called)
	})

	t.Run("truncates long values", func(t *testing.T) {
		pairs := labelPairs(map[string]string{"Route": strings.Repeat("x", 200)})
		require.Len(t, pairs, 2)
		assert.Equal(t, "route", pairs[0])
		assert.Len(t, pairs[1], maxLabelValueLength)
	})
}

func TestTracerProvider_EnableSpanProfiles(t *testing.T) {
	t.Run("no-op when tracing is disabled", func(t *testing.T) {
		tp, err := NewTracerProvider(context.Background(), Config{}, zaptest.NewLogger(t))
		require.NoError(t, err)

		tp.EnableSpanProfiles()
		assert.False(t, tp.SpanProfilesEnabled())
	})

	t.Run("wraps the provider once", func(t *testing.T) {
		restoreGlobals(t)
		exporter := tracetest.NewInMemoryExporter()
		tp, err := newTracerProvider(testConfig(), zap.NewNop(), sdktrace.WithSyncer(exporter))
		require.NoError(t, err)
		t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

		tp.EnableSpanProfiles()
		wrapped := tp.Provider()
		tp.EnableSpanProfiles()

		assert.True(t, tp.SpanProfilesEnabled())
		assert.Same(t, wrapped, tp.Provider())
		assert.Same(t, wrapped, otel.GetTracerProvider())

		_, span := wrapped.Tracer("test").Start(context.Background(), "pricing.resolve")
		span.End()
		require.Len(t, exporter.GetSpans(), 1)
	})
}
