package handler

import (
	"context"

	apphousing "github.com/dormhub/backend/internal/application/housing"
	"github.com/dormhub/backend/internal/domain/housing"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaintenanceService is the part of housing.MaintenanceService used over HTTP
type MaintenanceService interface {
	Create(ctx context.Context, actor identity.Actor, req apphousing.CreateMaintenanceRequest) (*apphousing.MaintenanceResponse, error)
	GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.MaintenanceResponse, error)
	List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[apphousing.MaintenanceResponse], error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req apphousing.UpdateMaintenanceRequest) (*apphousing.MaintenanceResponse, error)
	Start(ctx context.Context, actor identity.Actor, id uuid.UUID, assignee string) (*apphousing.MaintenanceResponse, error)
	Complete(ctx context.Context, actor identity.Actor, id uuid.UUID, resolution string) (*apphousing.MaintenanceResponse, error)
	Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID, reason string) (*apphousing.MaintenanceResponse, error)
}

// MaintenanceHandler handles maintenance requests
type MaintenanceHandler struct {
	BaseHandler
	maintenanceService MaintenanceService
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(maintenanceService MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

// Create godoc
// @Summary      Report a problem
// @Description  Residents may only report problems in the room they live in. priority defaults to normal.
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        request body CreateMaintenanceRequest true "Maintenance request"
// @Success      201 {object} APIResponse[apphousing.MaintenanceResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance [post]
func (h *MaintenanceHandler) Create(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var req CreateMaintenanceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	priority := housing.MaintenancePriority(req.Priority)
	if priority == "" {
		priority = housing.PriorityNormal
	}
	m, err := h.maintenanceService.Create(c.Request.Context(), a, apphousing.CreateMaintenanceRequest{
		RoomID:      uuid.MustParse(req.RoomID),
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, m)
}

// List godoc
// @Summary      List maintenance requests
// @Description  Residents only see their own requests
// @Tags         maintenance
// @Produce      json
// @Param        page         query int    false "Page number"
// @Param        page_size    query int    false "Page size (max 100)"
// @Param        search       query string false "Title"
// @Param        room_id      query string false "Room ID"
// @Param        requester_id query string false "Requester ID"
// @Param        status       query string false "requested, in_progress, completed or cancelled"
// @Param        priority     query string false "low, normal, high or urgent"
// @Success      200 {object} APIResponse[[]apphousing.MaintenanceResponse]
// @Security     BearerAuth
// @Router       /maintenance [get]
func (h *MaintenanceHandler) List(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var q MaintenanceListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := listFilter(q.ListRequest)
	putUUID(filter, "room_id", q.RoomID)
	putUUID(filter, "requester_id", q.RequesterID)
	putString(filter, "status", q.Status)
	putString(filter, "priority", q.Priority)

	page, err := h.maintenanceService.List(c.Request.Context(), a, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetByID godoc
// @Summary      Get maintenance request
// @Tags         maintenance
// @Produce      json
// @Param        id path string true "Request ID"
// @Success      200 {object} APIResponse[apphousing.MaintenanceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance/{id} [get]
func (h *MaintenanceHandler) GetByID(c *gin.Context) {
	byID(c, &h.BaseHandler, h.maintenanceService.GetByID)
}

// Update godoc
// @Summary      Update maintenance request
// @Description  Only requests nobody has started on can be edited
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Request ID"
// @Param        request body UpdateMaintenanceRequest true "Changes"
// @Success      200 {object} APIResponse[apphousing.MaintenanceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance/{id} [put]
func (h *MaintenanceHandler) Update(c *gin.Context) {
	var req UpdateMaintenanceRequest
	byID(c, &h.BaseHandler, func(ctx context.Context, a identity.Actor, id uuid.UUID) (*apphousing.MaintenanceResponse, error) {
		if !h.BindJSON(c, &req) {
			return nil, nil
		}
		return h.maintenanceService.Update(ctx, a, id, apphousing.UpdateMaintenanceRequest{
			Title:       req.Title,
			Description: req.Description,
			Priority:    housing.MaintenancePriority(req.Priority),
		})
	})
}

// Start godoc
// @Summary      Start work
// @Description  Staff only. The room is marked under maintenance.
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        id      path string                  true  "Request ID"
// @Param        request body StartMaintenanceRequest false "Assignee"
// @Success      200 {object} APIResponse[apphousing.MaintenanceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance/{id}/start [post]
func (h *MaintenanceHandler) Start(c *gin.Context) {
	var req StartMaintenanceRequest
	byID(c, &h.BaseHandler, func(ctx context.Context, a identity.Actor, id uuid.UUID) (*apphousing.MaintenanceResponse, error) {
		if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
			return nil, nil
		}
		return h.maintenanceService.Start(ctx, a, id, req.Assignee)
	})
}

// Complete godoc
// @Summary      Complete work
// @Description  Staff only. The room becomes available again once no other work is in progress.
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        id      path string                     true  "Request ID"
// @Param        request body CompleteMaintenanceRequest true  "Resolution"
// @Success      200 {object} APIResponse[apphousing.MaintenanceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance/{id}/complete [post]
func (h *MaintenanceHandler) Complete(c *gin.Context) {
	var req CompleteMaintenanceRequest
	byID(c, &h.BaseHandler, func(ctx context.Context, a identity.Actor, id uuid.UUID) (*apphousing.MaintenanceResponse, error) {
		if !h.BindJSON(c, &req) {
			return nil, nil
		}
		return h.maintenanceService.Complete(ctx, a, id, req.Resolution)
	})
}

// Cancel godoc
// @Summary      Cancel request
// @Description  The requester or staff may cancel a request that is not finished
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Request ID"
// @Param        request body CancelMaintenanceRequest false "Reason"
// @Success      200 {object} APIResponse[apphousing.MaintenanceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance/{id}/cancel [post]
func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	var req CancelMaintenanceRequest
	byID(c, &h.BaseHandler, func(ctx context.Context, a identity.Actor, id uuid.UUID) (*apphousing.MaintenanceResponse, error) {
		if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
			return nil, nil
		}
		return h.maintenanceService.Cancel(ctx, a, id, req.Reason)
	})
}
