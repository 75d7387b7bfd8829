package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// ProfilingLabels runs the rest of the chain under pprof labels so Pyroscope
// can split CPU time by resource, route and tenant. Register it after JWT
// authentication; unmatched routes run unlabelled.
func ProfilingLabels(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}

		labels := []string{
			"resource", resourceFromRoute(route),
			"route", route,
			"method", c.Request.Method,
		}
		if tenantID := GetJWTTenantID(c); tenantID != "" {
			labels = append(labels, "tenant_id", tenantID)
		}

		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(labels...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute returns the first path segment after the API version,
// "/api/v1/rooms/:id/places" gives "rooms"
func resourceFromRoute(route string) string {
	segments := strings.Split(strings.Trim(route, "/"), "/")
	for _, s := range segments {
		if s == "" || s == "api" || isVersionSegment(s) || strings.HasPrefix(s, ":") {
			continue
		}
		return s
	}
	return "root"
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
