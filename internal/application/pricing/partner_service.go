package pricing

import (
	"context"

	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PartnerService manages customer types and how partners are priced
type PartnerService struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(scope TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *PartnerService {
	return &PartnerService{
		scope:     scope,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateCustomerType creates a customer type
func (s *PartnerService) CreateCustomerType(ctx context.Context, tenantID uuid.UUID, req CreateCustomerTypeRequest) (*CustomerTypeResponse, error) {
	var resp CustomerTypeResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.CustomerTypes().ExistsByCode(ctx, tenantID, req.Code)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Customer type with this code already exists")
		}
		ct, err := pricing.NewCustomerType(tenantID, req.Code, req.Name)
		if err != nil {
			return err
		}
		if err := repos.CustomerTypes().Save(ctx, ct); err != nil {
			return err
		}
		resp = ToCustomerTypeResponse(ct)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListCustomerTypes returns all customer types of a tenant
func (s *PartnerService) ListCustomerTypes(ctx context.Context, tenantID uuid.UUID) ([]CustomerTypeResponse, error) {
	var resp []CustomerTypeResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		types, err := repos.CustomerTypes().FindAllForTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		resp = make([]CustomerTypeResponse, len(types))
		for i, ct := range types {
			resp[i] = ToCustomerTypeResponse(ct)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CreatePartner creates a partner, priced by quantity unless a mode is given
func (s *PartnerService) CreatePartner(ctx context.Context, tenantID uuid.UUID, req CreatePartnerRequest) (*PartnerResponse, error) {
	var (
		resp    PartnerResponse
		partner *pricing.Partner
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.Partners().ExistsByCode(ctx, tenantID, req.Code)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Partner with this code already exists")
		}
		partner, err = pricing.NewPartner(tenantID, req.Code, req.Name)
		if err != nil {
			return err
		}
		if req.PricingMode != "" || req.CustomerTypeID != nil {
			if err := s.applyPricing(ctx, repos, partner, pricing.PricingMode(req.PricingMode), req.CustomerTypeID); err != nil {
				return err
			}
		}
		if err := repos.Partners().Save(ctx, partner); err != nil {
			return err
		}
		resp = ToPartnerResponse(partner)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, partner)
	return &resp, nil
}

// GetPartner loads a partner
func (s *PartnerService) GetPartner(ctx context.Context, tenantID, partnerID uuid.UUID) (*PartnerResponse, error) {
	var resp PartnerResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.Partners().FindByIDForTenant(ctx, tenantID, partnerID)
		if err != nil {
			return err
		}
		resp = ToPartnerResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetPartnerPricing switches a partner between quantity and fixed pricing
func (s *PartnerService) SetPartnerPricing(ctx context.Context, tenantID, partnerID uuid.UUID, req SetPartnerPricingRequest) (*PartnerResponse, error) {
	var (
		resp    PartnerResponse
		partner *pricing.Partner
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		partner, err = repos.Partners().FindByIDForTenant(ctx, tenantID, partnerID)
		if err != nil {
			return err
		}
		if err := s.applyPricing(ctx, repos, partner, pricing.PricingMode(req.PricingMode), req.CustomerTypeID); err != nil {
			return err
		}
		if err := repos.Partners().Save(ctx, partner); err != nil {
			return err
		}
		resp = ToPartnerResponse(partner)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("partner pricing changed",
		zap.String("partner_id", partnerID.String()),
		zap.String("pricing_mode", resp.PricingMode),
	)
	s.publish(ctx, partner)
	return &resp, nil
}

// applyPricing checks that a referenced customer type exists before setting it
func (s *PartnerService) applyPricing(ctx context.Context, repos TransactionalRepositories, p *pricing.Partner, mode pricing.PricingMode, customerTypeID *uuid.UUID) error {
	if customerTypeID != nil && *customerTypeID != uuid.Nil {
		if _, err := repos.CustomerTypes().FindByIDForTenant(ctx, p.TenantID, *customerTypeID); err != nil {
			return err
		}
	}
	return p.SetPricing(mode, customerTypeID)
}

func (s *PartnerService) publish(ctx context.Context, p *pricing.Partner) {
	events := shared.CollectEvents(p)
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish partner events", zap.Error(err))
	}
}
