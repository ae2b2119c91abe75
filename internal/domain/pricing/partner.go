package pricing

import (
	"strings"

	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerType groups partners that share fixed ("trader") prices
type CustomerType struct {
	shared.TenantAggregateRoot
	Code string
	Name string
}

// NewCustomerType creates a new customer type
func NewCustomerType(tenantID uuid.UUID, code, name string) (*CustomerType, error) {
	if strings.TrimSpace(code) == "" {
		return nil, newValidationError(CodeValidation, "Customer type code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, newValidationError(CodeValidation, "Customer type name cannot be empty")
	}
	return &CustomerType{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
	}, nil
}

// Partner is the pricing view of a customer
type Partner struct {
	shared.TenantAggregateRoot
	Code           string
	Name           string
	PricingMode    PricingMode
	CustomerTypeID *uuid.UUID
}

// NewPartner creates a partner priced by quantity
func NewPartner(tenantID uuid.UUID, code, name string) (*Partner, error) {
	if strings.TrimSpace(code) == "" {
		return nil, newValidationError(CodeValidation, "Partner code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, newValidationError(CodeValidation, "Partner name cannot be empty")
	}
	return &Partner{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		PricingMode:         PricingModeQuantity,
	}, nil
}

// SetPricing changes how the partner is priced. Fixed pricing requires a customer type.
func (p *Partner) SetPricing(mode PricingMode, customerTypeID *uuid.UUID) error {
	if mode == "" {
		mode = PricingModeQuantity
	}
	if err := validatePartnerPricing(mode, customerTypeID); err != nil {
		return err
	}
	p.PricingMode = mode
	p.CustomerTypeID = customerTypeID
	p.IncrementVersion()
	p.AddDomainEvent(NewPartnerPricingChangedEvent(p))
	return nil
}

// Validate checks the partner's pricing configuration
func (p *Partner) Validate() error {
	return validatePartnerPricing(p.PricingMode, p.CustomerTypeID)
}

func validatePartnerPricing(mode PricingMode, customerTypeID *uuid.UUID) error {
	if !mode.IsValid() {
		return newValidationError(CodeInvalidPricingMode, "Unknown pricing mode: "+string(mode))
	}
	if mode == PricingModeFixed && (customerTypeID == nil || *customerTypeID == uuid.Nil) {
		return newValidationError(CodeCustomerTypeRequired, "Fixed pricing requires a customer type")
	}
	return nil
}
