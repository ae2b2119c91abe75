package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() Config {
	return Config{
		Enabled:        true,
		ServiceName:    "pricelist-test",
		ServiceVersion: "1.2.3",
		SamplingRatio:  1,
		LogsEnabled:    true,
		DBTracing:      true,
	}
}

// restoreGlobals puts the global providers back after a test installs its own
func restoreGlobals(t *testing.T) {
	t.Helper()
	tp := otel.GetTracerProvider()
	mp := otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetMeterProvider(mp)
	})
}

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()
	providers, err := Setup(ctx, Config{ServiceName: "pricelist"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, providers.Tracer.IsEnabled())
	assert.False(t, providers.Meter.IsEnabled())
	assert.False(t, providers.Logs.IsEnabled())
	assert.NotNil(t, providers.Tracer.Provider())
	assert.NotNil(t, providers.Meter.Meter("test"))
	assert.NoError(t, providers.Tracer.ForceFlush(ctx))
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestTracerProvider_ExportsSpansWithServiceResource(t *testing.T) {
	restoreGlobals(t)
	exporter := tracetest.NewInMemoryExporter()
	tp, err := newTracerProvider(testConfig(), zap.NewNop(), sdktrace.WithSyncer(exporter))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	assert.True(t, tp.IsEnabled())
	_, span := otel.Tracer("test").Start(context.Background(), "pricing.resolve")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "pricing.resolve", spans[0].Name)
	assert.Contains(t, spans[0].Resource.Attributes(), semconv.ServiceName("pricelist-test"))
	assert.Contains(t, spans[0].Resource.Attributes(), semconv.ServiceVersion("1.2.3"))
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 1, want: "AlwaysOnSampler"},
		{ratio: 2, want: "AlwaysOnSampler"},
		{ratio: 0, want: "AlwaysOffSampler"},
		{ratio: 0.25, want: "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Contains(t, sampler(tt.ratio).Description(), tt.want)
	}
}

func TestMeterProvider_RecordsThroughGlobalMeter(t *testing.T) {
	restoreGlobals(t)
	reader := sdkmetric.NewManualReader()
	mp, err := newMeterProvider(testConfig(), zap.NewNop(), reader)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	counter, err := otel.Meter("test").Int64Counter("pricing.resolutions")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
}

// memoryLogExporter keeps exported log records
type memoryLogExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *memoryLogExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *memoryLogExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryLogExporter) ForceFlush(context.Context) error { return nil }

func (e *memoryLogExporter) bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.records))
	for i, r := range e.records {
		out[i] = r.Body().AsString()
	}
	return out
}

func TestBridgeLogger(t *testing.T) {
	exporter := &memoryLogExporter{}
	lp, err := newLoggerProvider(testConfig(), zap.NewNop(), sdklog.NewSimpleProcessor(exporter))
	require.NoError(t, err)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	base := zaptest.NewLogger(t, zaptest.Level(zapcore.DebugLevel))
	log := BridgeLogger(base, lp, zapcore.InfoLevel)

	log.Debug("resolution details")
	log.Info("template created", zap.String("code", "DESK"))
	log.With(zap.String("bill_id", "b-1")).Warn("vendor bill line references unknown product")

	assert.Equal(t, []string{"template created", "vendor bill line references unknown product"}, exporter.bodies())
}

func TestBridgeLogger_DisabledReturnsBase(t *testing.T) {
	base := zap.NewNop()
	lp, err := NewLoggerProvider(context.Background(), Config{Enabled: true}, zap.NewNop())
	require.NoError(t, err)

	assert.Same(t, base, BridgeLogger(base, lp, zapcore.InfoLevel))
	assert.Same(t, base, BridgeLogger(base, nil, zapcore.InfoLevel))
}

type tracedRow struct {
	ID   uint
	Code string
}

func TestDBTracingPlugin(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&tracedRow{}))

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	plugin := NewDBTracingPlugin(testConfig(), provider, zap.NewNop())
	require.NoError(t, plugin.Register(db))
	assert.NotNil(t, db.Callback().Query().Get("pricelist_slow_query:query"))
	assert.NotNil(t, db.Callback().Create().Get("pricelist_timing:before_create"))

	ctx, parent := provider.Tracer("test").Start(context.Background(), "pricing.create_template")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Code: "DESK"}).Error)
	var row tracedRow
	require.NoError(t, db.WithContext(ctx).First(&row).Error)
	parent.End()

	ended := recorder.Ended()
	require.Greater(t, len(ended), 1, "expected database spans besides the parent")
	for _, s := range ended {
		if s.Name() == "pricing.create_template" {
			continue
		}
		assert.Equal(t, parent.SpanContext().TraceID(), s.SpanContext().TraceID())
	}
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	cfg := testConfig()
	cfg.DBTracing = false
	require.NoError(t, NewDBTracingPlugin(cfg, nil, zap.NewNop()).Register(db))
	assert.Nil(t, db.Callback().Query().Get("pricelist_slow_query:query"))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	engine := gin.New()
	engine.Use(GinMiddleware("pricelist-test", provider))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/v1/templates/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/health", "/api/v1/templates/42"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Contains(t, ended[0].Name(), "/api/v1/templates/:id")
	assert.Contains(t, ended[0].Attributes(), attribute.String("http.route", "/api/v1/templates/:id"))
}
