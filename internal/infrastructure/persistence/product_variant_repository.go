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

// GormVariantRepository implements VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByIDForTenant finds a variant by ID within a tenant, with its rule rows
func (r *GormVariantRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pricing.Variant, error) {
	var model models.ProductVariantModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	rules, err := loadRules(ctx, r.db, tenantID, pricing.OwnerVariant, model.ID)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(rules[model.ID]), nil
}

// FindByTemplate finds all variants of a template, oldest first
func (r *GormVariantRepository) FindByTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]*pricing.Variant, error) {
	var modelList []models.ProductVariantModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("template_id = ?", templateID).
		Order("created_at ASC, code ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(modelList))
	for i := range modelList {
		ids[i] = modelList[i].ID
	}
	rules, err := loadRules(ctx, r.db, tenantID, pricing.OwnerVariant, ids...)
	if err != nil {
		return nil, err
	}

	variants := make([]*pricing.Variant, len(modelList))
	for i := range modelList {
		variants[i] = modelList[i].ToDomain(rules[modelList[i].ID])
	}
	return variants, nil
}

// ExistsByCode checks if a variant with the given code exists in the tenant
func (r *GormVariantRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductVariantModel{}).
		Scopes(tenantScope(tenantID)).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a variant and rewrites its rule rows
func (r *GormVariantRepository) Save(ctx context.Context, v *pricing.Variant) error {
	model := models.ProductVariantModelFromDomain(v)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	return replaceRules(ctx, r.db, v.TenantID, v.Owner(), &v.PricingProfile)
}

// SaveBatch saves several variants. Callers run it inside a transaction so a
// propagation is stored entirely or not at all.
func (r *GormVariantRepository) SaveBatch(ctx context.Context, variants []*pricing.Variant) error {
	for _, v := range variants {
		if err := r.Save(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormVariantRepository implements VariantRepository
var _ pricing.VariantRepository = (*GormVariantRepository)(nil)
