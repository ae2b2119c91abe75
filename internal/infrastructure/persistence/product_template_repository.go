package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/erp/pricelist/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTemplateRepository implements TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByIDForTenant finds a template by ID within a tenant, with its rule rows
func (r *GormTemplateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pricing.Template, error) {
	var model models.ProductTemplateModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	rules, err := loadRules(ctx, r.db, tenantID, pricing.OwnerTemplate, model.ID)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(rules[model.ID]), nil
}

// ExistsByCode checks if a template with the given code exists in the tenant
func (r *GormTemplateRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductTemplateModel{}).
		Scopes(tenantScope(tenantID)).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a template and rewrites its rule rows
func (r *GormTemplateRepository) Save(ctx context.Context, t *pricing.Template) error {
	model := models.ProductTemplateModelFromDomain(t)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	return replaceRules(ctx, r.db, t.TenantID, t.Owner(), &t.PricingProfile)
}

// Ensure GormTemplateRepository implements TemplateRepository
var _ pricing.TemplateRepository = (*GormTemplateRepository)(nil)
