package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/erp/pricelist/internal/infrastructure/logger"
	"github.com/erp/pricelist/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	t.Run("from request context", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/", "")
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), "ctx-request-id"))
		c.Request.Header.Set(logger.RequestIDHeader, "header-request-id")
		assert.Equal(t, "ctx-request-id", getRequestID(c))
	})

	t.Run("from header when context empty", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/", "")
		c.Request.Header.Set(logger.RequestIDHeader, "header-request-id")
		assert.Equal(t, "header-request-id", getRequestID(c))
	})

	t.Run("empty when not set", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/", "")
		assert.Empty(t, getRequestID(c))
	})
}

func TestGetTenantID(t *testing.T) {
	t.Run("defaults when header missing", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/", "")
		id, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, DefaultTenantID, id)
	})

	t.Run("parses header", func(t *testing.T) {
		tenantID := uuid.New()
		c, _ := newTestContext(http.MethodGet, "/", "")
		c.Request.Header.Set(logger.TenantIDHeader, tenantID.String())
		id, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, tenantID, id)
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(http.MethodGet, "/", "")
		c.Request.Header.Set(logger.TenantIDHeader, "not-a-uuid")
		_, ok := h.requireTenantID(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBaseHandlerPathUUID(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext(http.MethodGet, "/templates/x", "")
	c.Params = gin.Params{{Key: "id", Value: "x"}}
	_, ok := h.pathUUID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Invalid id", resp.Error.Message)

	id := uuid.New()
	c, _ = newTestContext(http.MethodGet, "/templates/"+id.String(), "")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := h.pathUUID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

type bindTarget struct {
	Code string `json:"code" binding:"required,max=5"`
}

func TestBaseHandlerBindJSON(t *testing.T) {
	h := &BaseHandler{}

	t.Run("valid body", func(t *testing.T) {
		c, _ := newTestContext(http.MethodPost, "/", `{"code":"T1"}`)
		var req bindTarget
		assert.True(t, h.bindJSON(c, &req))
		assert.Equal(t, "T1", req.Code)
	})

	t.Run("validation failure carries details", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/", `{"code":"TOO-LONG"}`)
		var req bindTarget
		assert.False(t, h.bindJSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "max", resp.Error.Details[0].Tag)
	})

	t.Run("malformed json", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/", `{"code":`)
		var req bindTarget
		assert.False(t, h.bindJSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/", "")
		var req bindTarget
		assert.False(t, h.bindJSON(c, &req))
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
		assert.Equal(t, "Request body is empty", resp.Error.Message)
	})
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/", "")

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandlerCreated(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext(http.MethodPost, "/", "")
	h.Created(c, map[string]string{"id": "1"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	tests := []struct {
		name         string
		call         func(h *BaseHandler, c *gin.Context)
		expectedCode int
		expectedErr  string
	}{
		{"BadRequest", func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "bad") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"NotFound", func(h *BaseHandler, c *gin.Context) { h.NotFound(c, "missing") }, http.StatusNotFound, dto.ErrCodeNotFound},
		{"InternalError", func(h *BaseHandler, c *gin.Context) { h.InternalError(c, "boom") }, http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(http.MethodGet, "/", "")
			tt.call(h, c)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"propagation failed", shared.ErrPropagationFailed, http.StatusInternalServerError, dto.ErrCodePropagationFailed},
		{"customer type required", shared.NewDomainError(pricing.CodeCustomerTypeRequired, "Customer type is required"), http.StatusUnprocessableEntity, dto.ErrCodeCustomerTypeRequired},
		{"invalid table", shared.NewDomainError(pricing.CodeInvalidTable, "Unknown rule table"), http.StatusBadRequest, dto.ErrCodeInvalidTable},
		{"wrapped domain error", fmt.Errorf("save template: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(http.MethodGet, "/", "")
			c.Request.Header.Set(logger.RequestIDHeader, "req-1")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
			assert.Len(t, c.Errors, 1)
		})
	}
}

func TestBaseHandlerHandleError_InternalMessageHidden(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/", "")

	h.HandleError(c, errors.New("pq: password authentication failed"))

	resp := decodeResponse(t, w)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
}

func TestBaseHandlerHandleError_ValidationDetails(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/", "")

	verr := validator.New().Struct(struct {
		Code string `validate:"required"`
	}{})
	h.HandleError(c, shared.WrapDomainError(pricing.CodeValidation, "Invalid request", verr))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "Code", resp.Error.Details[0].Field)
}

func TestBaseHandlerHandleError_Nil(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/", "")

	h.HandleError(c, nil)

	assert.Empty(t, w.Body.String())
}
