package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/erp/pricelist/internal/application/pricing"

// ServiceConfig holds pricing defaults applied to new templates
type ServiceConfig struct {
	DefaultAutoSync bool
	DefaultStrategy pricing.Strategy
}

// DefaultServiceConfig returns the defaults used when none are configured
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		DefaultAutoSync: true,
		DefaultStrategy: pricing.StrategyRegular,
	}
}

// PricingService runs pricing use cases: template and variant pricing writes,
// propagation to variants, acquisition cost updates and price resolution.
// Every write runs in one transaction together with the propagation it triggers.
type PricingService struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	validate  *validator.Validate
	tracer    trace.Tracer
	meter     metric.Meter
	metrics   *serviceMetrics
	logger    *zap.Logger
	config    ServiceConfig
}

// ServiceOption configures a PricingService
type ServiceOption func(*PricingService)

// WithEventPublisher publishes domain events after each committed write
func WithEventPublisher(publisher shared.EventPublisher) ServiceOption {
	return func(s *PricingService) {
		s.publisher = publisher
	}
}

// WithServiceConfig overrides the pricing defaults
func WithServiceConfig(cfg ServiceConfig) ServiceOption {
	return func(s *PricingService) {
		s.config = cfg
	}
}

// WithTracer overrides the tracer used for operation spans
func WithTracer(tracer trace.Tracer) ServiceOption {
	return func(s *PricingService) {
		s.tracer = tracer
	}
}

// WithMeter overrides the meter used for pricing metrics
func WithMeter(meter metric.Meter) ServiceOption {
	return func(s *PricingService) {
		s.meter = meter
	}
}

// NewPricingService creates a new PricingService
func NewPricingService(scope TransactionScope, logger *zap.Logger, opts ...ServiceOption) *PricingService {
	s := &PricingService{
		scope:    scope,
		validate: newRequestValidator(),
		tracer:   otel.Tracer(tracerName),
		meter:    otel.Meter(tracerName),
		logger:   logger,
		config:   DefaultServiceConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = mustServiceMetrics(s.meter, logger)
	return s
}

// newRequestValidator reads the same `binding` tags gin validates at the HTTP edge,
// so requests arriving from events are checked identically.
func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

func (s *PricingService) validateRequest(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return shared.WrapDomainError(pricing.CodeValidation, "Invalid request", err)
	}
	return nil
}

// unitOfWork tracks aggregates touched by one operation so their events can be
// published once the transaction commits
type unitOfWork struct {
	aggregates []shared.AggregateRoot
}

func (u *unitOfWork) track(aggregates ...shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregates...)
}

func (s *PricingService) run(ctx context.Context, op string, fn func(ctx context.Context, repos TransactionalRepositories, uow *unitOfWork) error) error {
	ctx, span := s.tracer.Start(ctx, "pricing."+op)
	defer span.End()

	uow := &unitOfWork{}
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return fn(ctx, repos, uow)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.publish(ctx, shared.CollectEvents(uow.aggregates...))
	return nil
}

func (s *PricingService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish pricing events",
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}

// propagate writes the template into its eligible variants within the current
// transaction. Any failure is reported as a propagation failure so the caller's
// transaction rolls back as a whole.
func (s *PricingService) propagate(ctx context.Context, repos TransactionalRepositories, uow *unitOfWork, t *pricing.Template, scope pricing.SyncScope) (pricing.SyncResult, error) {
	span := trace.SpanFromContext(ctx)

	variants, err := repos.Variants().FindByTemplate(ctx, t.TenantID, t.ID)
	if err != nil {
		return pricing.SyncResult{}, s.propagationError(ctx, t, err)
	}

	eligible := pricing.EligibleVariants(t, variants)
	result := pricing.Propagate(t, variants, scope)
	if result.Count() == 0 {
		return result, nil
	}

	for _, v := range eligible {
		uow.track(v)
	}
	if err := repos.Variants().SaveBatch(ctx, eligible); err != nil {
		return pricing.SyncResult{}, s.propagationError(ctx, t, err)
	}
	uow.track(t)
	s.metrics.recordSync(ctx, scope, result.Count())

	span.SetAttributes(
		attribute.String("pricing.template_id", t.ID.String()),
		attribute.Int("pricing.synced_variants", result.Count()),
	)
	s.logger.Info("template pricing propagated to variants",
		zap.String("template_id", t.ID.String()),
		zap.String("template_code", t.Code),
		zap.Bool("scalars", scope.Scalars),
		zap.Int("synced", result.Count()),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (s *PricingService) propagationError(ctx context.Context, t *pricing.Template, err error) error {
	s.metrics.propagationFailure.Add(ctx, 1)
	return shared.WrapDomainError(shared.ErrPropagationFailed.Code,
		fmt.Sprintf("Failed to propagate pricing of template %s", t.Code), err)
}

// CreateTemplate creates a template with optional pricing and rule tables.
// With auto sync on, the template is propagated immediately.
func (s *PricingService) CreateTemplate(ctx context.Context, tenantID uuid.UUID, req CreateTemplateRequest) (*TemplateResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	strategy := s.config.DefaultStrategy
	if req.Strategy != nil {
		parsed, err := pricing.ParseStrategy(*req.Strategy)
		if err != nil {
			return nil, err
		}
		strategy = parsed
	}
	autoSync := s.config.DefaultAutoSync
	if req.AutoSyncEnabled != nil {
		autoSync = *req.AutoSyncEnabled
	}

	var resp TemplateResponse
	err := s.run(ctx, "create_template", func(ctx context.Context, repos TransactionalRepositories, uow *unitOfWork) error {
		exists, err := repos.Templates().ExistsByCode(ctx, tenantID, req.Code)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Template with this code already exists")
		}

		t, err := pricing.NewTemplate(tenantID, req.Code, req.Name, strategy, autoSync)
		if err != nil {
			return err
		}
		input := req.toInput()
		input.Strategy = nil
		if _, err := t.UpdatePricing(input); err != nil {
			return err
		}
		for name, rows := range req.Rules {
			kind, err := pricing.ParseTableKind(name)
			if err != nil {
				return err
			}
			if err := t.ReplaceRules(kind, ReplaceRulesRequest{Rows: rows}.toSpecs()); err != nil {
				return err
			}
		}
		if err := repos.Templates().Save(ctx, t); err != nil {
			return err
		}
		uow.track(t)

		synced := 0
		if t.AutoSyncEnabled {
			result, err := s.propagate(ctx, repos, uow, t, pricing.FullSync)
			if err != nil {
				return err
			}
			synced = result.Count()
		}
		resp = ToTemplateResponse(t)
		resp.SyncedVariants = synced
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("template created",
		zap.String("template_id", resp.ID.String()),
		zap.String("code", resp.Code),
		zap.String("strategy", resp.Strategy),
		zap.Bool("auto_sync", resp.AutoSyncEnabled),
	)
	return &resp, nil
}

// GetTemplate loads a template with its rule tables
func (s *PricingService) GetTemplate(ctx context.Context, tenantID, templateID uuid.UUID) (*TemplateResponse, error) {
	var resp TemplateResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Templates().FindByIDForTenant(ctx, tenantID, templateID)
		if err != nil {
			return err
		}
		resp = ToTemplateResponse(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListVariants returns all variants of a template
func (s *PricingService) ListVariants(ctx context.Context, tenantID, templateID uuid.UUID) ([]VariantResponse, error) {
	var resp []VariantResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		t, err := repos.Templates().FindByIDForTenant(ctx, tenantID, templateID)
		if err != nil {
			return err
		}
		variants, err := repos.Variants().FindByTemplate(ctx, tenantID, templateID)
		if err != nil {
			return err
		}
		resp = make([]VariantResponse, len(variants))
		for i, v := range variants {
			resp[i] = ToVariantResponse(v, t.AutoSyncEnabled)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateTemplatePricing writes template pricing scalars and the auto sync flag.
// A write touching a field copied to variants triggers a full propagation when
// auto sync is on.
func (s *PricingService) UpdateTemplatePricing(ctx context.Context, tenantID, templateID uuid.UUID, req UpdateTemplatePricingRequest) (*TemplateResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	var resp TemplateResponse
	err := s.run(ctx, "update_template_pricing", func(ctx context.Context, repos TransactionalRepositories, uow *unitOfWork) error {
		t, err := repos.Templates().FindByIDForTenant(ctx, tenantID, templateID)
		if err != nil {
			return err
		}
		if _, err := t.UpdatePricing(req.toInput()); err != nil {
			return err
		}
		if req.AutoSyncEnabled != nil {
			t.SetAutoSync(*req.AutoSyncEnabled)
		}
		if err := repos.Templates().Save(ctx, t); err != nil {
			return err
		}
		uow.track(t)

		synced := 0
		if t.AutoSyncEnabled && (req.touchesSyncFields() || req.AutoSyncEnabled != nil) {
			result, err := s.propagate(ctx, repos, uow, t, pricing.FullSync)
			if err != nil {
				return err
			}
			synced = result.Count()
		}
		resp = ToTemplateResponse(t)
		resp.SyncedVariants = synced
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReplaceTemplateRules replaces one of the template's rule tables
func (s *PricingService) ReplaceTemplateRules(ctx context.Context, tenantID, templateID uuid.UUID, table string, req ReplaceRulesRequest) (*TemplateResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	kind, err := pricing.ParseTableKind(table)
	if err != nil {
		return nil, err
	}
	return s.editTemplateRules(ctx, tenantID, templateID, "replace_template_rules", func(t *pricing.Template) error {
		return t.ReplaceRules(kind, req.toSpecs())
	})
}

// AddTemplateRule appends a row to one of the template's rule tables
func (s *PricingService) AddTemplateRule(ctx context.Context, tenantID, templateID uuid.UUID, table string, req RuleRowRequest) (*TemplateResponse, error) {
	kind, err := pricing.ParseTableKind(table)
	if err != nil {
		return nil, err
	}
	return s.editTemplateRules(ctx, tenantID, templateID, "add_template_rule", func(t *pricing.Template) error {
		_, err := t.AddRule(kind, req.toSpec())
		return err
	})
}

// RemoveTemplateRule deletes a row from one of the template's rule tables.
// A rule id that belongs to a different table is not found.
func (s *PricingService) RemoveTemplateRule(ctx context.Context, tenantID, templateID uuid.UUID, kind pricing.TableKind, ruleID uuid.UUID) (*TemplateResponse, error) {
	return s.editTemplateRules(ctx, tenantID, templateID, "remove_template_rule", func(t *pricing.Template) error {
		return t.RemoveRule(kind, ruleID)
	})
}

// editTemplateRules applies a table-level edit made through the template and
// propagates all tables when auto sync is on
func (s *PricingService) editTemplateRules(ctx context.Context, tenantID, templateID uuid.UUID, op string, edit func(t *pricing.Template) error) (*TemplateResponse, error) {
	var resp TemplateResponse
	err := s.run(ctx, op, func(ctx context.Context, repos TransactionalRepositories, uow *unitOfWork) error {
		t, err := repos.Templates().FindByIDForTenant(ctx, tenantID, templateID)
		if err != nil {
			return err
		}
		if err := edit(t); err != nil {
			return err
		}
		if err := repos.Templates().Save(ctx, t); err != nil {
			return err
		}
		uow.track(t)

		synced := 0
		if t.AutoSyncEnabled {
			result, err := s.propagate(ctx, repos, uow, t, pricing.FullSync)
			if err != nil {
				return err
			}
			synced = result.Count()
		}
		resp = ToTemplateResponse(t)
		resp.SyncedVariants = synced
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateRule edits a single rule row wherever it lives. A template row
// propagates only its own selector family; a variant row overrides the variant.
func (s *PricingService) UpdateRule(ctx context.Context, tenantID, ruleID uuid.UUID, req RuleRowRequest) (*RuleUpdateResponse, error) {
	var resp RuleUpdateResponse
	err := s.run(ctx, "update_rule", func(ctx context.Context, repos TransactionalRepositories, uow *unitOfWork) error {
		owner, err := repos.Rules().FindOwner(ctx, tenantID, ruleID)
		if err != nil {
			return err
		}

		switch owner.Kind {
		case pricing.OwnerTemplate:
			t, err := repos.Templates().FindByIDForTenant(ctx, tenantID, owner.ID)
			if err != nil {
				return err
			}
			row, err := t.UpdateRule(ruleID, req.toSpec())
			if err != nil {
				return err
			}
			if err := repos.Templates().Save(ctx, t); err != nil {
				return err
			}
			uow.track(t)
			resp.Rule = ToRuleRowResponse(row)
			if t.AutoSyncEnabled {
				result, err := s.propagate(ctx, repos, uow, t, pricing.FamilySync(row.Table.Selector()))
				if err != nil {
					return err
				}
				resp.SyncedVariants = result.Count()
			}
		case pricing.OwnerVariant:
			v, err := repos.Variants().FindByIDForTenant(ctx, tenantID, owner.ID)
			if err != nil {
				return err
			}
			row, err := v.UpdateRule(ruleID, req.toSpec(), pricing.OriginDirect)
			if err != nil {
				return err
			}
			if err := repos.Variants().Save(ctx, v); err != nil {
				return err
			}
			uow.track(v)
			resp.Rule = ToRuleRowResponse(row)
		default:
			return shared.NewDomainError("INVALID_STATE", "Rule has no owner")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SyncAllVariants propagates a template to every variant that has not been
// customized, regardless of the template's auto sync flag
func (s *PricingService) SyncAllVariants(ctx context.Context, tenantID, templateID uuid.UUID) (*SyncResponse, error) {
	var resp SyncResponse
	err := s.run(ctx, "sync_all_variants", func(ctx context.Context, repos TransactionalRepositories, uow *unitOfWork) error {
		t, err := repos.Templates().FindByIDForTenant(ctx, tenantID, templateID)
		if err != nil {
			return err
		}
		result, err := s.propagate(ctx, repos, uow, t, pricing.FullSync)
		if err != nil {
			return err
		}
		resp = SyncResponse{
			TemplateID:        t.ID,
			SyncedCount:       result.Count(),
			SyncedVariantIDs:  nonNilIDs(result.Synced),
			SkippedVariantIDs: nonNilIDs(result.Skipped),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}

// RecordAcquisitionCost sets the last acquisition cost of a product's template,
// recomputes its landing price and propagates when auto sync is on. The product
// may be a variant, in which case its owning template receives the cost.
func (s *PricingService) RecordAcquisitionCost(ctx context.Context, tenantID uuid.UUID, req RecordAcquisitionCostRequest) (*AcquisitionCostResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if req.UnitCost.IsNegative() {
		return nil, shared.NewDomainError(pricing.CodeNegativePrice, "Unit cost cannot be negative")
	}

	var resp AcquisitionCostResponse
	err := s.run(ctx, "record_acquisition_cost", func(ctx context.Context, repos TransactionalRepositories, uow *unitOfWork) error {
		templateID, err := s.owningTemplateID(ctx, repos, tenantID, req.ProductID)
		if err != nil {
			return err
		}
		t, err := repos.Templates().FindByIDForTenant(ctx, tenantID, templateID)
		if err != nil {
			return err
		}
		cost := req.UnitCost
		if _, err := t.UpdatePricing(pricing.PricingInput{LastAcquisitionCost: &cost}); err != nil {
			return err
		}
		if err := repos.Templates().Save(ctx, t); err != nil {
			return err
		}
		uow.track(t)

		resp = AcquisitionCostResponse{
			TemplateID:   t.ID,
			UnitCost:     cost,
			LandingPrice: t.LandingPrice,
		}
		if t.AutoSyncEnabled {
			result, err := s.propagate(ctx, repos, uow, t, pricing.FullSync)
			if err != nil {
				return err
			}
			resp.SyncedVariants = result.Count()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.costsRecorded.Add(ctx, 1)
	s.logger.Info("acquisition cost recorded",
		zap.String("product_id", req.ProductID.String()),
		zap.String("template_id", resp.TemplateID.String()),
		zap.String("unit_cost", resp.UnitCost.String()),
		zap.String("landing_price", resp.LandingPrice.String()),
		zap.String("source", req.Source),
	)
	return &resp, nil
}

func (s *PricingService) owningTemplateID(ctx context.Context, repos TransactionalRepositories, tenantID, productID uuid.UUID) (uuid.UUID, error) {
	v, err := repos.Variants().FindByIDForTenant(ctx, tenantID, productID)
	if err == nil {
		return v.TemplateID, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, err
	}
	return productID, nil
}
