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

// GormPartnerRepository implements PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByIDForTenant finds a partner by ID within a tenant
func (r *GormPartnerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pricing.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByCode checks if a partner with the given code exists in the tenant
func (r *GormPartnerRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PartnerModel{}).
		Scopes(tenantScope(tenantID)).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a partner
func (r *GormPartnerRepository) Save(ctx context.Context, p *pricing.Partner) error {
	return r.db.WithContext(ctx).Save(models.PartnerModelFromDomain(p)).Error
}

// GormCustomerTypeRepository implements CustomerTypeRepository using GORM
type GormCustomerTypeRepository struct {
	db *gorm.DB
}

// NewGormCustomerTypeRepository creates a new GormCustomerTypeRepository
func NewGormCustomerTypeRepository(db *gorm.DB) *GormCustomerTypeRepository {
	return &GormCustomerTypeRepository{db: db}
}

// FindByIDForTenant finds a customer type by ID within a tenant
func (r *GormCustomerTypeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pricing.CustomerType, error) {
	var model models.CustomerTypeModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all customer types of a tenant, ordered by code
func (r *GormCustomerTypeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]*pricing.CustomerType, error) {
	var modelList []models.CustomerTypeModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Order("code ASC").
		Find(&modelList).Error; err != nil {
		return nil, err
	}
	types := make([]*pricing.CustomerType, len(modelList))
	for i := range modelList {
		types[i] = modelList[i].ToDomain()
	}
	return types, nil
}

// ExistsByCode checks if a customer type with the given code exists in the tenant
func (r *GormCustomerTypeRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerTypeModel{}).
		Scopes(tenantScope(tenantID)).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a customer type
func (r *GormCustomerTypeRepository) Save(ctx context.Context, ct *pricing.CustomerType) error {
	return r.db.WithContext(ctx).Save(models.CustomerTypeModelFromDomain(ct)).Error
}

var (
	_ pricing.PartnerRepository      = (*GormPartnerRepository)(nil)
	_ pricing.CustomerTypeRepository = (*GormCustomerTypeRepository)(nil)
)
