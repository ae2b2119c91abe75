package pricing

import (
	"context"

	"github.com/erp/pricelist/internal/domain/pricing"
)

// TransactionScope runs pricing work inside one database transaction.
// If fn returns an error the transaction is rolled back, so a template write
// and its propagation to variants either both commit or neither does.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to the pricing repositories bound to
// the current transaction
type TransactionalRepositories interface {
	Templates() pricing.TemplateRepository
	Variants() pricing.VariantRepository
	Rules() pricing.RuleRepository
	Partners() pricing.PartnerRepository
	CustomerTypes() pricing.CustomerTypeRepository
}

// Repositories bundles plain repository implementations
type Repositories struct {
	TemplateRepo     pricing.TemplateRepository
	VariantRepo      pricing.VariantRepository
	RuleRepo         pricing.RuleRepository
	PartnerRepo      pricing.PartnerRepository
	CustomerTypeRepo pricing.CustomerTypeRepository
}

// NoOpTransactionScope runs the function against the given repositories
// without a transaction. Useful for tests with in-memory repositories.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Templates() pricing.TemplateRepository         { return s.repos.TemplateRepo }
func (s *NoOpTransactionScope) Variants() pricing.VariantRepository           { return s.repos.VariantRepo }
func (s *NoOpTransactionScope) Rules() pricing.RuleRepository                 { return s.repos.RuleRepo }
func (s *NoOpTransactionScope) Partners() pricing.PartnerRepository           { return s.repos.PartnerRepo }
func (s *NoOpTransactionScope) CustomerTypes() pricing.CustomerTypeRepository { return s.repos.CustomerTypeRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
