package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeServiceUnavailable is used when a dependency such as the database is down
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
	// ErrCodeValidationLength is used when a field length is invalid
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
)

// Pricing rule error codes
const (
	// ErrCodeCustomerTypeRequired is used when a fixed partner or a
	// customer_type row has no customer type
	ErrCodeCustomerTypeRequired = "ERR_CUSTOMER_TYPE_REQUIRED"
	// ErrCodeInvalidRule is used when a rule row is malformed for its table
	ErrCodeInvalidRule = "ERR_INVALID_RULE"
	// ErrCodeNegativePrice is used when a price, cost or percent is negative
	ErrCodeNegativePrice = "ERR_NEGATIVE_PRICE"
	// ErrCodeInvalidQuantityRange is used when min_qty exceeds max_qty
	ErrCodeInvalidQuantityRange = "ERR_INVALID_QUANTITY_RANGE"
	// ErrCodeInvalidStrategy is used for an unknown pricing strategy
	ErrCodeInvalidStrategy = "ERR_INVALID_STRATEGY"
	// ErrCodeInvalidTable is used for an unknown rule table name
	ErrCodeInvalidTable = "ERR_INVALID_TABLE"
	// ErrCodeInvalidPricingMode is used for an unknown partner pricing mode
	ErrCodeInvalidPricingMode = "ERR_INVALID_PRICING_MODE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// State error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodePropagationFailed is used when pushing template pricing to
	// variants failed and the write was rolled back
	ErrCodePropagationFailed = "ERR_PROPAGATION_FAILED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:            http.StatusInternalServerError,
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Unknown enum values -> 400 Bad Request
	ErrCodeInvalidStrategy:    http.StatusBadRequest,
	ErrCodeInvalidTable:       http.StatusBadRequest,
	ErrCodeInvalidPricingMode: http.StatusBadRequest,

	// Well-formed requests breaking a pricing rule -> 422 Unprocessable Entity
	ErrCodeCustomerTypeRequired: http.StatusUnprocessableEntity,
	ErrCodeInvalidRule:          http.StatusUnprocessableEntity,
	ErrCodeNegativePrice:        http.StatusUnprocessableEntity,
	ErrCodeInvalidQuantityRange: http.StatusUnprocessableEntity,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// State errors
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodePropagationFailed: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"VALIDATION_ERROR":       ErrCodeValidation,
	"PROPAGATION_FAILED":     ErrCodePropagationFailed,
	"CUSTOMER_TYPE_REQUIRED": ErrCodeCustomerTypeRequired,
	"INVALID_RULE":           ErrCodeInvalidRule,
	"NEGATIVE_PRICE":         ErrCodeNegativePrice,
	"INVALID_QUANTITY_RANGE": ErrCodeInvalidQuantityRange,
	"INVALID_STRATEGY":       ErrCodeInvalidStrategy,
	"INVALID_TABLE":          ErrCodeInvalidTable,
	"INVALID_PRICING_MODE":   ErrCodeInvalidPricingMode,
	"BAD_REQUEST":            ErrCodeBadRequest,
	"INTERNAL_ERROR":         ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
