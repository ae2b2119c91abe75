package pricing

import (
	"context"
	"errors"

	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ResolvePrice finds the rule row that prices a product for a partner.
// A miss is not an error: the response has Matched=false.
func (s *PricingService) ResolvePrice(ctx context.Context, tenantID uuid.UUID, req ResolvePriceRequest) (*PriceResolutionResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	res, err := s.resolve(ctx, tenantID, req.PartnerID, req.ProductID, req.Quantity)
	if err != nil {
		return nil, err
	}
	resp := toResolutionResponse(res)
	return &resp, nil
}

// PriceOrderLine returns the unit price an order line should carry after its
// partner, product or quantity changed. The current price is kept unless a
// rule row matches with a non-zero amount.
func (s *PricingService) PriceOrderLine(ctx context.Context, tenantID uuid.UUID, req PriceOrderLineRequest) (*OrderLinePriceResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	res, err := s.resolve(ctx, tenantID, req.PartnerID, req.ProductID, req.Quantity)
	if err != nil {
		return nil, err
	}

	resp := OrderLinePriceResponse{
		UnitPrice:               req.CurrentUnitPrice,
		PriceResolutionResponse: toResolutionResponse(res),
	}
	if res.Matched && !res.Amount.IsZero() {
		resp.UnitPrice = res.Amount
		resp.Applied = true
	}
	return &resp, nil
}

// GetPriceDetails lists the rule table that prices the partner for the product
// and marks the row that would be applied. A partner or product that selects no
// table yields an empty listing.
func (s *PricingService) GetPriceDetails(ctx context.Context, tenantID uuid.UUID, req PriceDetailsRequest) (*PriceDetailsResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	var resp PriceDetailsResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		partner, profile, err := s.loadPricingInputs(ctx, repos, tenantID, req.PartnerID, req.ProductID)
		if err != nil {
			return err
		}
		details, ok := pricing.DescribePricing(partner, profile, req.Quantity)
		if !ok {
			resp = PriceDetailsResponse{Rows: []PriceDetailRow{}}
			return nil
		}
		resp = PriceDetailsResponse{
			Strategy:                string(details.Strategy),
			Selector:                string(details.Selector),
			Table:                   string(details.Table),
			Rows:                    make([]PriceDetailRow, len(details.Rows)),
			PriceResolutionResponse: toResolutionResponse(details.Resolution),
		}
		for i, row := range details.Rows {
			resp.Rows[i] = PriceDetailRow{
				RuleRowResponse: ToRuleRowResponse(row),
				Selected:        details.Resolution.Matched && row.ID == details.Resolution.RuleID,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *PricingService) resolve(ctx context.Context, tenantID, partnerID, productID uuid.UUID, quantity decimal.Decimal) (pricing.Resolution, error) {
	ctx, span := s.tracer.Start(ctx, "pricing.resolve")
	defer span.End()

	var res pricing.Resolution
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		partner, profile, err := s.loadPricingInputs(ctx, repos, tenantID, partnerID, productID)
		if err != nil {
			return err
		}
		res = pricing.Resolve(partner, profile, quantity)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return pricing.Resolution{}, err
	}

	s.metrics.recordResolution(ctx, res)
	span.SetAttributes(
		attribute.Bool("pricing.matched", res.Matched),
		attribute.String("pricing.table", string(res.Table)),
	)
	s.logger.Debug("price resolved",
		zap.String("partner_id", partnerID.String()),
		zap.String("product_id", productID.String()),
		zap.String("quantity", quantity.String()),
		zap.Bool("matched", res.Matched),
		zap.String("table", string(res.Table)),
		zap.String("amount", res.Amount.String()),
	)
	return res, nil
}

// loadPricingInputs loads the partner and the pricing profile of a product.
// The product may be a variant or a template. A missing partner or product
// resolves to nil so lookups miss instead of failing.
func (s *PricingService) loadPricingInputs(ctx context.Context, repos TransactionalRepositories, tenantID, partnerID, productID uuid.UUID) (*pricing.Partner, *pricing.PricingProfile, error) {
	partner, err := repos.Partners().FindByIDForTenant(ctx, tenantID, partnerID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, nil, err
		}
		partner = nil
	}

	v, err := repos.Variants().FindByIDForTenant(ctx, tenantID, productID)
	if err == nil {
		return partner, &v.PricingProfile, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, nil, err
	}

	t, err := repos.Templates().FindByIDForTenant(ctx, tenantID, productID)
	if err == nil {
		return partner, &t.PricingProfile, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, nil, err
	}
	return partner, nil, nil
}
