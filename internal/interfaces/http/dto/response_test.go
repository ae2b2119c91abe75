package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("NOT_FOUND", "Template not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code) // Should be normalized
	assert.Equal(t, "Template not found", resp.Error.Message)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Variant not found", "req-123-456")

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-123-456", resp.Error.RequestID)
}

func TestErrorResponseTimestamp(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponse(ErrCodeInternal, "Server error")
	after := time.Now()

	assert.False(t, resp.Error.Timestamp.Before(before), "Timestamp should not be before call")
	assert.False(t, resp.Error.Timestamp.After(after), "Timestamp should not be after call")
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID("PROPAGATION_FAILED", "Pricing propagation failed", "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")
	errObj, ok := decoded["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, ErrCodePropagationFailed, errObj["code"])
	assert.Equal(t, "req-test-123", errObj["request_id"])
	assert.NotContains(t, errObj, "details")
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"code": "TPL-1"})

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

type ruleRowInput struct {
	Percent string `validate:"required"`
	Table   string `validate:"oneof=quantity_regular customer_type_regular"`
}

type ruleInput struct {
	Code string         `validate:"required,max=5"`
	Rows []ruleRowInput `validate:"dive"`
}

func TestValidationDetails(t *testing.T) {
	v := validator.New()
	err := v.Struct(ruleInput{
		Code: "TOO-LONG-CODE",
		Rows: []ruleRowInput{{Table: "bogus"}},
	})
	require.Error(t, err)

	details := ValidationDetails(err)
	require.Len(t, details, 3)

	byField := make(map[string]ValidationDetail, len(details))
	for _, d := range details {
		byField[d.Field] = d
	}
	assert.Equal(t, "max", byField["Code"].Tag)
	assert.Equal(t, "Code must be at most 5", byField["Code"].Message)
	assert.Equal(t, "required", byField["Rows[0].Percent"].Tag)
	assert.Equal(t, "Percent is required", byField["Rows[0].Percent"].Message)
	assert.Equal(t, "oneof", byField["Rows[0].Table"].Tag)
}

func TestValidationDetails_NoValidatorError(t *testing.T) {
	assert.Nil(t, ValidationDetails(nil))
	assert.Nil(t, ValidationDetails(assert.AnError))
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{{Field: "Code", Tag: "required", Message: "Code is required"}}

	resp := NewValidationErrorResponse("Request validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Equal(t, details, resp.Error.Details)
}
