package pricing

import (
	"context"

	"github.com/google/uuid"
)

// TemplateRepository persists templates together with their rule tables
type TemplateRepository interface {
	// FindByIDForTenant loads a template and its rule rows
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Template, error)

	// ExistsByCode checks whether a template code is taken within a tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	// Save creates or updates a template and replaces its rule rows
	Save(ctx context.Context, template *Template) error
}

// VariantRepository persists variants together with their rule tables
type VariantRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Variant, error)

	// FindByTemplate loads all variants of a template in creation order
	FindByTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]*Variant, error)

	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	Save(ctx context.Context, variant *Variant) error

	// SaveBatch saves several variants; rule rows of each are deleted and recreated
	SaveBatch(ctx context.Context, variants []*Variant) error
}

// RuleRepository answers rule-row lookups that do not start from a product
type RuleRepository interface {
	// FindOwner returns the product that owns a rule row
	FindOwner(ctx context.Context, tenantID, ruleID uuid.UUID) (OwnerRef, error)
}

// PartnerRepository reads and stores partner pricing settings
type PartnerRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Partner, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, partner *Partner) error
}

// CustomerTypeRepository reads and stores customer types
type CustomerTypeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CustomerType, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]*CustomerType, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, customerType *CustomerType) error
}
