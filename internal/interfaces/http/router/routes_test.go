package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dormhub/backend/internal/interfaces/http/handler"
	"github.com/dormhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandlers() Handlers {
	return Handlers{
		Auth:        handler.NewAuthHandler(nil),
		User:        handler.NewUserHandler(nil),
		Building:    handler.NewBuildingHandler(nil),
		Room:        handler.NewRoomHandler(nil),
		Maintenance: handler.NewMaintenanceHandler(nil),
		Inspection:  handler.NewInspectionHandler(nil),
		Event:       handler.NewEventHandler(nil),
		System:      handler.NewSystemHandler("dormhub", "test"),
		Outbox:      handler.NewOutboxHandler(nil),
	}
}

func TestAPIGroups_RouteTable(t *testing.T) {
	var routes []Route
	for _, g := range APIGroups(testHandlers()) {
		routes = append(routes, g.Routes()...)
	}

	expected := []Route{
		{Method: "POST", Path: "/auth/login"},
		{Method: "POST", Path: "/auth/refresh"},
		{Method: "POST", Path: "/auth/logout"},
		{Method: "GET", Path: "/auth/me"},
		{Method: "PUT", Path: "/auth/password"},
		{Method: "POST", Path: "/users"},
		{Method: "GET", Path: "/users"},
		{Method: "POST", Path: "/users/import"},
		{Method: "PUT", Path: "/users/:id/role"},
		{Method: "POST", Path: "/users/:id/deactivate"},
		{Method: "POST", Path: "/buildings"},
		{Method: "GET", Path: "/buildings/:id/floors"},
		{Method: "DELETE", Path: "/floors/:id"},
		{Method: "POST", Path: "/rooms/:id/close"},
		{Method: "POST", Path: "/rooms/:id/places"},
		{Method: "GET", Path: "/places/mine"},
		{Method: "POST", Path: "/places/:id/assign"},
		{Method: "POST", Path: "/places/:id/release"},
		{Method: "POST", Path: "/maintenance"},
		{Method: "POST", Path: "/maintenance/:id/complete"},
		{Method: "POST", Path: "/maintenance/:id/cancel"},
		{Method: "PUT", Path: "/inspections/:id/rooms/:roomId"},
		{Method: "POST", Path: "/inspections/:id/complete"},
		{Method: "GET", Path: "/inspections/:id/report"},
		{Method: "GET", Path: "/inspections/:id/report/url"},
		{Method: "POST", Path: "/events/join"},
		{Method: "POST", Path: "/events/:id/join"},
		{Method: "POST", Path: "/events/:id/leave"},
		{Method: "DELETE", Path: "/events/:id/participants/:userId"},
		{Method: "POST", Path: "/events/:id/invitations"},
		{Method: "DELETE", Path: "/events/:id/invitations/:invitationId"},
		{Method: "GET", Path: "/system/info"},
		{Method: "GET", Path: "/system/outbox/dead"},
		{Method: "POST", Path: "/system/outbox/dead/retry"},
		{Method: "POST", Path: "/system/outbox/dead/:id/retry"},
	}
	for _, route := range expected {
		assert.Contains(t, routes, route)
	}

	seen := make(map[[2]string]bool, len(routes))
	for _, route := range routes {
		key := [2]string{route.Method, route.Path}
		assert.False(t, seen[key], "duplicate route %s %s", route.Method, route.Path)
		seen[key] = true
	}
}

func TestAPIGroups_RegisterOnEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	assert.NotPanics(t, func() {
		r := NewRouter(engine)
		for _, g := range APIGroups(testHandlers()) {
			r.Register(g)
		}
		r.Setup()
	})

	var count int
	for _, g := range APIGroups(testHandlers()) {
		count += len(g.Routes())
	}
	assert.Len(t, engine.Routes(), count)
}

func TestAPIGroups_RoleGating(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func(userID, role string) *gin.Engine {
		engine := gin.New()
		r := NewRouter(engine).Use(func(c *gin.Context) {
			if userID != "" {
				c.Set(middleware.JWTUserIDKey, userID)
				c.Set(middleware.JWTTenantIDKey, "00000000-0000-0000-0000-000000000001")
				c.Set(middleware.JWTRoleKey, role)
			}
			c.Next()
		})
		for _, g := range APIGroups(testHandlers()) {
			r.Register(g)
		}
		r.Setup()
		return engine
	}

	tests := []struct {
		name   string
		role   string
		method string
		path   string
	}{
		{"resident creates room", "resident", "POST", "/api/v1/rooms"},
		{"resident assigns place", "resident", "POST", "/api/v1/places/p1/assign"},
		{"resident starts maintenance", "resident", "POST", "/api/v1/maintenance/m1/start"},
		{"resident completes inspection", "resident", "POST", "/api/v1/inspections/i1/complete"},
		{"resident lists users", "resident", "GET", "/api/v1/users"},
		{"manager lists users", "manager", "GET", "/api/v1/users"},
		{"manager changes role", "manager", "PUT", "/api/v1/users/u1/role"},
		{"manager reads outbox stats", "manager", "GET", "/api/v1/system/outbox/stats"},
		{"manager requeues dead events", "manager", "POST", "/api/v1/system/outbox/dead/retry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newEngine("00000000-0000-0000-0000-0000000000aa", tt.role)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equal(t, http.StatusForbidden, w.Code)
			assert.Contains(t, w.Body.String(), "FORBIDDEN")
		})
	}

	t.Run("anonymous caller on staff route", func(t *testing.T) {
		engine := newEngine("", "")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/v1/buildings/b1", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
