package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(t.Context())
	})
	return sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func tracedRouter(cfg TracingConfig, claims map[string]string, status int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Tracing(cfg))
	router.Use(func(c *gin.Context) {
		for k, v := range claims {
			c.Set(k, v)
		}
		c.Next()
	})
	router.Use(SpanAttributes())
	router.GET("/api/v1/rooms/:id", func(c *gin.Context) { c.Status(status) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	cfg := DefaultTracingConfig()
	cfg.Enabled = false

	rec := doGet(tracedRouter(cfg, nil, http.StatusOK), "/api/v1/rooms/1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_SpanPerRequest(t *testing.T) {
	sr := setupTestTracer(t)
	claims := map[string]string{
		JWTTenantIDKey: "11111111-1111-1111-1111-111111111111",
		JWTUserIDKey:   "22222222-2222-2222-2222-222222222222",
		JWTRoleKey:     "manager",
	}

	rec := doGet(tracedRouter(DefaultTracingConfig(), claims, http.StatusOK), "/api/v1/rooms/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/rooms/:id", spans[0].Name())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)

	attrs := spanAttrs(spans[0])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), attrs["request_id"].AsString())
	assert.Equal(t, claims[JWTTenantIDKey], attrs["tenant_id"].AsString())
	assert.Equal(t, claims[JWTUserIDKey], attrs["user_id"].AsString())
	assert.Equal(t, "manager", attrs["user_role"].AsString())
}

func TestTracing_UntracedPaths(t *testing.T) {
	sr := setupTestTracer(t)

	rec := doGet(tracedRouter(DefaultTracingConfig(), nil, http.StatusOK), "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sr.Ended())
}

func TestSpanAttributes_ErrorStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusNotFound, "Not Found"},
		{http.StatusForbidden, "Forbidden"},
		{http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			sr := setupTestTracer(t)

			doGet(tracedRouter(DefaultTracingConfig(), nil, tt.status), "/api/v1/rooms/1", "")

			spans := sr.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, codes.Error, spans[0].Status().Code)
			assert.Equal(t, tt.want, spans[0].Status().Description)
			assert.Equal(t, int64(tt.status), spanAttrs(spans[0])["http.status_code"].AsInt64())
		})
	}
}

func TestSpanAttributes_WithoutSpan(t *testing.T) {
	router := gin.New()
	router.Use(SpanAttributes())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
