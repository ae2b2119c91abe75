package middleware

import (
	"context"

	"github.com/erp/pricelist/internal/infrastructure/logger"
	"github.com/erp/pricelist/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling labels each request's samples with its route pattern, method and
// tenant so Pyroscope can slice CPU and allocation profiles per endpoint.
// Mount it after logger.GinMiddleware, which puts the tenant on the context.
// Unmatched routes and /health are not labelled.
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || route == "/health" {
			c.Next()
			return
		}
		labels := map[string]string{
			telemetry.ProfilingLabelRoute:    route,
			telemetry.ProfilingLabelMethod:   c.Request.Method,
			telemetry.ProfilingLabelTenantID: logger.TenantID(c.Request.Context()),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
