package pricing

import (
	"context"

	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddVariant creates a variant under a template. With auto sync on, the new
// variant receives the template's pricing immediately.
func (s *PricingService) AddVariant(ctx context.Context, tenantID, templateID uuid.UUID, req CreateVariantRequest) (*VariantResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	var resp VariantResponse
	err := s.run(ctx, "add_variant", func(ctx context.Context, repos TransactionalRepositories, uow *unitOfWork) error {
		t, err := repos.Templates().FindByIDForTenant(ctx, tenantID, templateID)
		if err != nil {
			return err
		}
		exists, err := repos.Variants().ExistsByCode(ctx, tenantID, req.Code)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Variant with this code already exists")
		}

		v, err := pricing.NewVariant(t, req.Code, req.Name)
		if err != nil {
			return err
		}
		if t.AutoSyncEnabled {
			pricing.Propagate(t, []*pricing.Variant{v}, pricing.FullSync)
		}
		if err := repos.Variants().Save(ctx, v); err != nil {
			return err
		}
		uow.track(v, t)

		resp = ToVariantResponse(v, t.AutoSyncEnabled)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("variant created",
		zap.String("variant_id", resp.ID.String()),
		zap.String("template_id", templateID.String()),
		zap.String("code", resp.Code),
		zap.String("sync_state", resp.SyncState),
	)
	return &resp, nil
}

// GetVariant loads a variant with its rule tables
func (s *PricingService) GetVariant(ctx context.Context, tenantID, variantID uuid.UUID) (*VariantResponse, error) {
	var resp VariantResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		v, err := repos.Variants().FindByIDForTenant(ctx, tenantID, variantID)
		if err != nil {
			return err
		}
		t, err := repos.Templates().FindByIDForTenant(ctx, tenantID, v.TemplateID)
		if err != nil {
			return err
		}
		resp = ToVariantResponse(v, t.AutoSyncEnabled)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateVariantPricing writes pricing scalars directly on a variant, which
// detaches it from template propagation until reset
func (s *PricingService) UpdateVariantPricing(ctx context.Context, tenantID, variantID uuid.UUID, req UpdateVariantPricingRequest) (*VariantResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	return s.editVariant(ctx, tenantID, variantID, "update_variant_pricing", func(v *pricing.Variant) error {
		_, err := v.UpdatePricing(req.toInput(), pricing.OriginDirect)
		return err
	})
}

// ReplaceVariantRules replaces one of the variant's rule tables
func (s *PricingService) ReplaceVariantRules(ctx context.Context, tenantID, variantID uuid.UUID, table string, req ReplaceRulesRequest) (*VariantResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	kind, err := pricing.ParseTableKind(table)
	if err != nil {
		return nil, err
	}
	return s.editVariant(ctx, tenantID, variantID, "replace_variant_rules", func(v *pricing.Variant) error {
		return v.ReplaceRules(kind, req.toSpecs(), pricing.OriginDirect)
	})
}

// AddVariantRule appends a row to one of the variant's rule tables
func (s *PricingService) AddVariantRule(ctx context.Context, tenantID, variantID uuid.UUID, table string, req RuleRowRequest) (*VariantResponse, error) {
	kind, err := pricing.ParseTableKind(table)
	if err != nil {
		return nil, err
	}
	return s.editVariant(ctx, tenantID, variantID, "add_variant_rule", func(v *pricing.Variant) error {
		_, err := v.AddRule(kind, req.toSpec(), pricing.OriginDirect)
		return err
	})
}

// RemoveVariantRule deletes a row from one of the variant's rule tables.
// A rule id that belongs to a different table is not found.
func (s *PricingService) RemoveVariantRule(ctx context.Context, tenantID, variantID uuid.UUID, kind pricing.TableKind, ruleID uuid.UUID) (*VariantResponse, error) {
	return s.editVariant(ctx, tenantID, variantID, "remove_variant_rule", func(v *pricing.Variant) error {
		return v.RemoveRule(kind, ruleID, pricing.OriginDirect)
	})
}

func (s *PricingService) editVariant(ctx context.Context, tenantID, variantID uuid.UUID, op string, edit func(v *pricing.Variant) error) (*VariantResponse, error) {
	var resp VariantResponse
	err := s.run(ctx, op, func(ctx context.Context, repos TransactionalRepositories, uow *unitOfWork) error {
		v, err := repos.Variants().FindByIDForTenant(ctx, tenantID, variantID)
		if err != nil {
			return err
		}
		t, err := repos.Templates().FindByIDForTenant(ctx, tenantID, v.TemplateID)
		if err != nil {
			return err
		}
		if err := edit(v); err != nil {
			return err
		}
		if err := repos.Variants().Save(ctx, v); err != nil {
			return err
		}
		uow.track(v)
		resp = ToVariantResponse(v, t.AutoSyncEnabled)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetVariantToTemplate clears a variant's override and pulls the template's
// current pricing into it, whatever the template's auto sync setting
func (s *PricingService) ResetVariantToTemplate(ctx context.Context, tenantID, variantID uuid.UUID) (*VariantResponse, error) {
	var resp VariantResponse
	err := s.run(ctx, "reset_variant", func(ctx context.Context, repos TransactionalRepositories, uow *unitOfWork) error {
		v, err := repos.Variants().FindByIDForTenant(ctx, tenantID, variantID)
		if err != nil {
			return err
		}
		t, err := repos.Templates().FindByIDForTenant(ctx, tenantID, v.TemplateID)
		if err != nil {
			return err
		}

		wasOverridden := v.ResetToTemplate()
		pricing.Propagate(t, []*pricing.Variant{v}, pricing.FullSync)
		if err := repos.Variants().Save(ctx, v); err != nil {
			return err
		}
		uow.track(v, t)

		s.logger.Info("variant reset to template",
			zap.String("variant_id", v.ID.String()),
			zap.String("template_id", t.ID.String()),
			zap.Bool("was_overridden", wasOverridden),
		)
		resp = ToVariantResponse(v, t.AutoSyncEnabled)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
