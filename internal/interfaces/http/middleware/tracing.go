package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// UntracedPrefixes are request paths that never get a span
	UntracedPrefixes []string
}

// DefaultTracingConfig returns the tracing configuration used by the router
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:      "dormhub-api",
		Enabled:          true,
		UntracedPrefixes: []string{"/health", "/api/v1/health", "/swagger"},
	}
}

// Tracing starts a server span per request using otelgin. The route
// pattern becomes the span name, e.g. "GET /api/v1/rooms/:id".
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return otelgin.Middleware(cfg.ServiceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			for _, prefix := range cfg.UntracedPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					return false
				}
			}
			return true
		}),
	)
}

// SpanAttributes tags the request span with the request, tenant and user
// ids and marks it failed on 4xx/5xx. Register it after JWT authentication
// so the claims are available.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if id := GetRequestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if tenantID := GetJWTTenantID(c); tenantID != "" {
			span.SetAttributes(attribute.String("tenant_id", tenantID))
		}
		if userID := GetJWTUserID(c); userID != "" {
			span.SetAttributes(attribute.String("user_id", userID))
		}
		if role := GetJWTRole(c); role != "" {
			span.SetAttributes(attribute.String("user_role", string(role)))
		}

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		if len(c.Errors) > 0 {
			span.SetAttributes(attribute.String("gin.errors", c.Errors.String()))
		}
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
