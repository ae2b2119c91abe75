package persistence

import (
	"context"

	apppricing "github.com/erp/pricelist/internal/application/pricing"
	"github.com/erp/pricelist/internal/domain/pricing"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to fn shares the same transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apppricing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories binds the pricing repositories to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Templates() pricing.TemplateRepository {
	return NewGormTemplateRepository(r.tx)
}

func (r *gormTransactionalRepositories) Variants() pricing.VariantRepository {
	return NewGormVariantRepository(r.tx)
}

func (r *gormTransactionalRepositories) Rules() pricing.RuleRepository {
	return NewGormRuleRepository(r.tx)
}

func (r *gormTransactionalRepositories) Partners() pricing.PartnerRepository {
	return NewGormPartnerRepository(r.tx)
}

func (r *gormTransactionalRepositories) CustomerTypes() pricing.CustomerTypeRepository {
	return NewGormCustomerTypeRepository(r.tx)
}

var (
	_ apppricing.TransactionScope          = (*GormTransactionScope)(nil)
	_ apppricing.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
