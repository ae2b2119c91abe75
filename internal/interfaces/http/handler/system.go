package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/erp/pricelist/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a backing dependency is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	db        HealthChecker
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. db may be nil, in which case
// health reports only process liveness.
func NewSystemHandler(name, version string, db HealthChecker) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		db:        db,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// Health handles GET /health, outside the versioned API
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "healthy"}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Database = err.Error()
			c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
			return
		}
		resp.Database = "ok"
	}
	h.Success(c, resp)
}

// GetSystemInfo godoc
// @Summary     System information
// @Description Return the service name and version
// @Tags        system
// @Produce     json
// @Success     200 {object} dto.Response{data=SystemInfoResponse}
// @Router      /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	h.Success(c, info)
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping godoc
// @Summary     Ping the API
// @Description Simple ping endpoint to check if the API is responsive
// @Tags        system
// @Produce     json
// @Success     200 {object} dto.Response{data=PingResponse}
// @Router      /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
