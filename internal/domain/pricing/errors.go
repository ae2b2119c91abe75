package pricing

import (
	"github.com/erp/pricelist/internal/domain/shared"
)

// Validation error codes raised by the pricing core
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeCustomerTypeRequired = "CUSTOMER_TYPE_REQUIRED"
	CodeInvalidRule          = "INVALID_RULE"
	CodeNegativePrice        = "NEGATIVE_PRICE"
	CodeInvalidQuantityRange = "INVALID_QUANTITY_RANGE"
	CodeInvalidStrategy      = "INVALID_STRATEGY"
	CodeInvalidTable         = "INVALID_TABLE"
	CodeInvalidPricingMode   = "INVALID_PRICING_MODE"
)

var validationCodes = map[string]bool{
	CodeValidation:           true,
	CodeCustomerTypeRequired: true,
	CodeInvalidRule:          true,
	CodeNegativePrice:        true,
	CodeInvalidQuantityRange: true,
	CodeInvalidStrategy:      true,
	CodeInvalidTable:         true,
	CodeInvalidPricingMode:   true,
}

func newValidationError(code, message string) *shared.DomainError {
	return shared.NewDomainError(code, message)
}

// IsValidationError reports whether err rejects a write because of invalid input
func IsValidationError(err error) bool {
	de, ok := shared.AsDomainError(err)
	return ok && validationCodes[de.Code]
}

// ErrRuleNotFound is returned when a rule row id is not part of the product
var ErrRuleNotFound = shared.NewDomainError("NOT_FOUND", "Pricing rule not found")
