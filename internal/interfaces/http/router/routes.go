package router

import (
	"github.com/dormhub/backend/internal/interfaces/http/handler"
	"github.com/dormhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers holds the HTTP handlers of the API
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Building    *handler.BuildingHandler
	Room        *handler.RoomHandler
	Maintenance *handler.MaintenanceHandler
	Inspection  *handler.InspectionHandler
	Event       *handler.EventHandler
	System      *handler.SystemHandler
	Outbox      *handler.OutboxHandler

	// LoginLimit throttles POST /auth/login when set
	LoginLimit gin.HandlerFunc
}

// APIGroups returns the domain groups of /api/v1. Reads are open to every
// authenticated user unless noted; housing and inspection changes need staff
// and user management needs an admin. Finer rules (own requests, event
// organizer) live in the services.
func APIGroups(h Handlers) []*DomainGroup {
	staff := middleware.RequireStaff()
	admin := middleware.RequireAdmin()

	auth := NewDomainGroup("auth", "/auth")
	login := []gin.HandlerFunc{h.Auth.Login}
	if h.LoginLimit != nil {
		login = append([]gin.HandlerFunc{h.LoginLimit}, login...)
	}
	auth.POST("/login", login...)
	auth.POST("/refresh", h.Auth.RefreshToken)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.GetCurrentUser)
	auth.PUT("/password", h.Auth.ChangePassword)

	users := NewDomainGroup("users", "/users").Use(admin)
	users.POST("", h.User.Create)
	users.GET("", h.User.List)
	users.POST("/import", h.User.Import)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id/role", h.User.ChangeRole)
	users.POST("/:id/activate", h.User.Activate)
	users.POST("/:id/deactivate", h.User.Deactivate)

	buildings := NewDomainGroup("buildings", "/buildings")
	buildings.POST("", staff, h.Building.Create)
	buildings.GET("", h.Building.List)
	buildings.GET("/:id", h.Building.GetByID)
	buildings.PUT("/:id", staff, h.Building.Update)
	buildings.DELETE("/:id", staff, h.Building.Delete)
	buildings.POST("/:id/floors", staff, h.Building.CreateFloor)
	buildings.GET("/:id/floors", h.Building.ListFloors)

	floors := NewDomainGroup("floors", "/floors")
	floors.GET("/:id", h.Building.GetFloor)
	floors.DELETE("/:id", staff, h.Building.DeleteFloor)

	rooms := NewDomainGroup("rooms", "/rooms")
	rooms.POST("", staff, h.Room.Create)
	rooms.GET("", h.Room.List)
	rooms.GET("/:id", h.Room.GetByID)
	rooms.PUT("/:id", staff, h.Room.Update)
	rooms.DELETE("/:id", staff, h.Room.Delete)
	rooms.POST("/:id/close", staff, h.Room.Close)
	rooms.POST("/:id/reopen", staff, h.Room.Reopen)
	rooms.POST("/:id/places", staff, h.Room.CreatePlace)
	rooms.GET("/:id/places", h.Room.ListPlaces)

	places := NewDomainGroup("places", "/places")
	places.GET("/mine", h.Room.MyPlace)
	places.GET("/:id", h.Room.GetPlace)
	places.DELETE("/:id", staff, h.Room.DeletePlace)
	places.POST("/:id/assign", staff, h.Room.AssignPlace)
	places.POST("/:id/release", staff, h.Room.ReleasePlace)

	maintenance := NewDomainGroup("maintenance", "/maintenance")
	maintenance.POST("", h.Maintenance.Create)
	maintenance.GET("", h.Maintenance.List)
	maintenance.GET("/:id", h.Maintenance.GetByID)
	maintenance.PUT("/:id", h.Maintenance.Update)
	maintenance.POST("/:id/start", staff, h.Maintenance.Start)
	maintenance.POST("/:id/complete", staff, h.Maintenance.Complete)
	maintenance.POST("/:id/cancel", h.Maintenance.Cancel)

	inspections := NewDomainGroup("inspections", "/inspections")
	inspections.POST("", staff, h.Inspection.Create)
	inspections.GET("", h.Inspection.List)
	inspections.GET("/:id", h.Inspection.GetByID)
	inspections.PUT("/:id", staff, h.Inspection.Update)
	inspections.DELETE("/:id", staff, h.Inspection.Delete)
	inspections.POST("/:id/start", staff, h.Inspection.Start)
	inspections.POST("/:id/complete", staff, h.Inspection.Complete)
	inspections.PUT("/:id/rooms/:roomId", staff, h.Inspection.SetRoomStatus)
	inspections.GET("/:id/report", h.Inspection.RenderReport)
	inspections.GET("/:id/report/url", h.Inspection.ReportURL)

	events := NewDomainGroup("events", "/events")
	events.POST("", h.Event.Create)
	events.GET("", h.Event.List)
	events.POST("/join", h.Event.JoinWithToken)
	events.GET("/:id", h.Event.GetByID)
	events.PUT("/:id", h.Event.Update)
	events.DELETE("/:id", h.Event.Delete)
	events.POST("/:id/cancel", h.Event.Cancel)
	events.POST("/:id/join", h.Event.Join)
	events.POST("/:id/leave", h.Event.Leave)
	events.GET("/:id/participants", h.Event.Participants)
	events.DELETE("/:id/participants/:userId", h.Event.RemoveParticipant)
	events.POST("/:id/invitations", h.Event.CreateInvitation)
	events.GET("/:id/invitations", h.Event.ListInvitations)
	events.DELETE("/:id/invitations/:invitationId", h.Event.RevokeInvitation)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/outbox/stats", admin, h.Outbox.Stats)
	system.GET("/outbox/dead", admin, h.Outbox.ListDead)
	system.POST("/outbox/dead/retry", admin, h.Outbox.RetryAll)
	system.POST("/outbox/dead/:id/retry", admin, h.Outbox.Retry)

	return []*DomainGroup{auth, users, buildings, floors, rooms, places, maintenance, inspections, events, system}
}
