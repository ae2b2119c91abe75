package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingPlugin registers otelgorm on a GORM handle and adds slow query
// marking to the active span.
type DBTracingPlugin struct {
	config   Config
	provider trace.TracerProvider
	logger   *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin. provider may be
// nil, in which case otelgorm uses the global tracer provider.
func NewDBTracingPlugin(cfg Config, provider trace.TracerProvider, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	return &DBTracingPlugin{config: cfg, provider: provider, logger: logger}
}

// Register installs the plugin on db. It does nothing unless both telemetry
// and DB tracing are enabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled || !p.config.DBTracing {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(db.Dialector.Name()),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.provider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.provider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func (p *DBTracingPlugin) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	slow := p.slowQueryCallback
	registrations := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("pricelist_timing:before_create", markQueryStart) },
		func() error { return cb.Query().Before("gorm:query").Register("pricelist_timing:before_query", markQueryStart) },
		func() error { return cb.Update().Before("gorm:update").Register("pricelist_timing:before_update", markQueryStart) },
		func() error { return cb.Delete().Before("gorm:delete").Register("pricelist_timing:before_delete", markQueryStart) },
		func() error { return cb.Row().Before("gorm:row").Register("pricelist_timing:before_row", markQueryStart) },
		func() error { return cb.Raw().Before("gorm:raw").Register("pricelist_timing:before_raw", markQueryStart) },
		func() error { return cb.Create().After("gorm:create").Register("pricelist_slow_query:create", slow) },
		func() error { return cb.Query().After("gorm:query").Register("pricelist_slow_query:query", slow) },
		func() error { return cb.Update().After("gorm:update").Register("pricelist_slow_query:update", slow) },
		func() error { return cb.Delete().After("gorm:delete").Register("pricelist_slow_query:delete", slow) },
		func() error { return cb.Row().After("gorm:row").Register("pricelist_slow_query:row", slow) },
		func() error { return cb.Raw().After("gorm:raw").Register("pricelist_slow_query:raw", slow) },
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// slowQueryCallback annotates the recording span with row counts, errors and
// a slow query event when the statement exceeded the threshold
func (p *DBTracingPlugin) slowQueryCallback(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
