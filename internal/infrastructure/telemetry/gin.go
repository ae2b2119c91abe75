package telemetry

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// GinMiddleware starts a server span per request. /health is not traced.
func GinMiddleware(serviceName string, provider trace.TracerProvider) gin.HandlerFunc {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return otelgin.Middleware(serviceName,
		otelgin.WithTracerProvider(provider),
		otelgin.WithPropagators(otel.GetTextMapPropagator()),
		otelgin.WithGinFilter(func(c *gin.Context) bool {
			return c.Request.URL.Path != "/health"
		}),
	)
}
