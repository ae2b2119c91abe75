package persistence

import (
	"context"
	"errors"

	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/erp/pricelist/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ruleBatchSize = 100

// GormRuleRepository implements RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// FindOwner returns the template or variant that owns a rule row
func (r *GormRuleRepository) FindOwner(ctx context.Context, tenantID, ruleID uuid.UUID) (pricing.OwnerRef, error) {
	var model models.PricingRuleModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Select("id", "owner_kind", "owner_id").
		Where("id = ?", ruleID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.OwnerRef{}, shared.ErrNotFound
		}
		return pricing.OwnerRef{}, err
	}
	return pricing.OwnerRef{Kind: model.OwnerKind, ID: model.OwnerID}, nil
}

// loadRules loads the rule rows of the given owners, grouped by owner id
func loadRules(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, kind pricing.OwnerKind, ownerIDs ...uuid.UUID) (map[uuid.UUID][]models.PricingRuleModel, error) {
	grouped := make(map[uuid.UUID][]models.PricingRuleModel, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return grouped, nil
	}

	var rows []models.PricingRuleModel
	if err := db.WithContext(ctx).
		Scopes(tenantScope(tenantID)).
		Where("owner_kind = ? AND owner_id IN ?", kind, ownerIDs).
		Order("table_kind ASC, sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		grouped[row.OwnerID] = append(grouped[row.OwnerID], row)
	}
	return grouped, nil
}

// replaceRules rewrites all rule rows of one owner
func replaceRules(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, owner pricing.OwnerRef, profile *pricing.PricingProfile) error {
	if err := db.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ?", owner.Kind, owner.ID).
		Delete(&models.PricingRuleModel{}).Error; err != nil {
		return err
	}
	rows := models.PricingRuleModelsFromDomain(tenantID, profile)
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(rows, ruleBatchSize).Error
}

// Ensure GormRuleRepository implements RuleRepository
var _ pricing.RuleRepository = (*GormRuleRepository)(nil)
