package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (s stubChecker) Ping(context.Context) error {
	return s.err
}

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("pricelist", "1.0.0", nil)
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("no database configured", func(t *testing.T) {
		h := NewSystemHandler("pricelist", "1.0.0", nil)
		c, w := newTestContext(http.MethodGet, "/health", "")

		h.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "healthy", data["status"])
		assert.NotContains(t, data, "database")
	})

	t.Run("database reachable", func(t *testing.T) {
		h := NewSystemHandler("pricelist", "1.0.0", stubChecker{})
		c, w := newTestContext(http.MethodGet, "/health", "")

		h.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "ok", data["database"])
	})

	t.Run("database down", func(t *testing.T) {
		h := NewSystemHandler("pricelist", "1.0.0", stubChecker{err: errors.New("connection refused")})
		c, w := newTestContext(http.MethodGet, "/health", "")

		h.Health(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "unhealthy", data["status"])
		assert.Equal(t, "connection refused", data["database"])
	})
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("pricelist", "1.2.3", nil)
	c, w := newTestContext(http.MethodGet, "/system/info", "")

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "pricelist", data["name"])
	assert.Equal(t, "1.2.3", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("pricelist", "1.0.0", nil)
	c, w := newTestContext(http.MethodGet, "/system/ping", "")

	h.Ping(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "pong", data["message"])

	_, err := time.Parse(time.RFC3339, data["timestamp"].(string))
	require.NoError(t, err)
}
