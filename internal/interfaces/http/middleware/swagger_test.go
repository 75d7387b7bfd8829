package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(enabled bool, allowed []string) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerGuard(enabled, allowed), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func swaggerGet(router http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSwaggerGuard(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		rec := swaggerGet(swaggerRouter(false, nil), "10.0.0.1:1234")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
	})

	t.Run("open to everyone", func(t *testing.T) {
		rec := swaggerGet(swaggerRouter(true, nil), "203.0.113.9:1234")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	router := swaggerRouter(true, []string{"127.0.0.1", "10.0.0.0/8", "not-an-ip", "fd00::/8"})
	tests := []struct {
		name   string
		remote string
		want   int
	}{
		{"exact ip", "127.0.0.1:5000", http.StatusOK},
		{"inside cidr", "10.20.30.40:5000", http.StatusOK},
		{"ipv6 inside cidr", "[fd00::1]:5000", http.StatusOK},
		{"outside", "192.168.1.10:5000", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, swaggerGet(router, tt.remote).Code)
		})
	}

	t.Run("only invalid entries denies all", func(t *testing.T) {
		rec := swaggerGet(swaggerRouter(true, []string{"garbage"}), "127.0.0.1:1")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
