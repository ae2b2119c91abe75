package pricing

import (
	"context"

	"github.com/erp/pricelist/internal/domain/pricing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

// serviceMetrics holds the pricing instruments
type serviceMetrics struct {
	resolutions        metric.Int64Counter
	variantsSynced     metric.Int64Counter
	propagationFailure metric.Int64Counter
	costsRecorded      metric.Int64Counter
}

func newServiceMetrics(meter metric.Meter) (*serviceMetrics, error) {
	resolutions, err := meter.Int64Counter("pricing.resolutions",
		metric.WithDescription("Price lookups by outcome and rule table"))
	if err != nil {
		return nil, err
	}
	variantsSynced, err := meter.Int64Counter("pricing.variants.synced",
		metric.WithDescription("Variants updated by template propagation"))
	if err != nil {
		return nil, err
	}
	propagationFailure, err := meter.Int64Counter("pricing.propagation.failures",
		metric.WithDescription("Template writes rolled back because propagation failed"))
	if err != nil {
		return nil, err
	}
	costsRecorded, err := meter.Int64Counter("pricing.acquisition_costs.recorded",
		metric.WithDescription("Acquisition costs applied to templates"))
	if err != nil {
		return nil, err
	}
	return &serviceMetrics{
		resolutions:        resolutions,
		variantsSynced:     variantsSynced,
		propagationFailure: propagationFailure,
		costsRecorded:      costsRecorded,
	}, nil
}

// mustServiceMetrics falls back to no-op instruments when meter rejects one
func mustServiceMetrics(meter metric.Meter, logger *zap.Logger) *serviceMetrics {
	m, err := newServiceMetrics(meter)
	if err == nil {
		return m
	}
	logger.Warn("failed to create pricing metrics, using no-op instruments", zap.Error(err))
	m, _ = newServiceMetrics(noop.NewMeterProvider().Meter(tracerName))
	return m
}

func (m *serviceMetrics) recordResolution(ctx context.Context, res pricing.Resolution) {
	m.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("matched", res.Matched),
		attribute.String("table", string(res.Table)),
	))
}

func (m *serviceMetrics) recordSync(ctx context.Context, scope pricing.SyncScope, synced int) {
	m.variantsSynced.Add(ctx, int64(synced), metric.WithAttributes(
		attribute.Bool("scalars", scope.Scalars),
	))
}
