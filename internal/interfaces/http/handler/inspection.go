package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	appinspection "github.com/dormhub/backend/internal/application/inspection"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/inspection"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InspectionService is the part of inspection.InspectionService used over HTTP
type InspectionService interface {
	Create(ctx context.Context, actor identity.Actor, req appinspection.CreateInspectionRequest) (*appinspection.InspectionResponse, error)
	GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appinspection.InspectionResponse, error)
	List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[appinspection.InspectionResponse], error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req appinspection.UpdateInspectionRequest) (*appinspection.InspectionResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	Start(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appinspection.InspectionResponse, error)
	SetRoomStatus(ctx context.Context, actor identity.Actor, id, roomID uuid.UUID, req appinspection.SetRoomStatusRequest) (*appinspection.InspectionResponse, error)
	Complete(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appinspection.InspectionResponse, error)
	RenderReport(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appinspection.ReportFile, error)
	ReportURL(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appinspection.ReportURLResponse, error)
}

// InspectionHandler handles room inspections and their reports
type InspectionHandler struct {
	BaseHandler
	inspectionService InspectionService
}

// NewInspectionHandler creates a new inspection handler
func NewInspectionHandler(inspectionService InspectionService) *InspectionHandler {
	return &InspectionHandler{inspectionService: inspectionService}
}

// parseIDs converts validated UUID strings
func parseIDs(raw []string) []uuid.UUID {
	if len(raw) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		ids[i] = uuid.MustParse(s)
	}
	return ids
}

func optionalID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id := uuid.MustParse(raw)
	return &id
}

// Create godoc
// @Summary      Schedule inspection
// @Description  Rooms come from room_ids, from every open room of building_id, or both. inspector_id defaults to the caller.
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Param        request body CreateInspectionRequest true "Inspection"
// @Success      201 {object} APIResponse[appinspection.InspectionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections [post]
func (h *InspectionHandler) Create(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var req CreateInspectionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	i, err := h.inspectionService.Create(c.Request.Context(), a, appinspection.CreateInspectionRequest{
		Name:        req.Name,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
		InspectorID: optionalID(req.InspectorID),
		RoomIDs:     parseIDs(req.RoomIDs),
		BuildingID:  optionalID(req.BuildingID),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, i)
}

// List godoc
// @Summary      List inspections
// @Tags         inspections
// @Produce      json
// @Param        page           query int    false "Page number"
// @Param        page_size      query int    false "Page size (max 100)"
// @Param        search         query string false "Name"
// @Param        status         query string false "scheduled, active or completed"
// @Param        inspector_id   query string false "Inspector ID"
// @Param        scheduled_from query string false "First day (YYYY-MM-DD)"
// @Param        scheduled_to   query string false "Last day (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]appinspection.InspectionResponse]
// @Security     BearerAuth
// @Router       /inspections [get]
func (h *InspectionHandler) List(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var q InspectionListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := listFilter(q.ListRequest)
	putString(filter, "status", q.Status)
	putUUID(filter, "inspector_id", q.InspectorID)
	if q.ScheduledFrom != nil {
		filter.Filters["scheduled_from"] = *q.ScheduledFrom
	}
	if q.ScheduledTo != nil {
		// the whole last day is included
		filter.Filters["scheduled_to"] = q.ScheduledTo.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	page, err := h.inspectionService.List(c.Request.Context(), a, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetByID godoc
// @Summary      Get inspection
// @Description  Includes the room checklist
// @Tags         inspections
// @Produce      json
// @Param        id path string true "Inspection ID"
// @Success      200 {object} APIResponse[appinspection.InspectionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections/{id} [get]
func (h *InspectionHandler) GetByID(c *gin.Context) {
	byID(c, &h.BaseHandler, h.inspectionService.GetByID)
}

// Update godoc
// @Summary      Update inspection
// @Description  Only scheduled inspections can be changed
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "Inspection ID"
// @Param        request body UpdateInspectionRequest true "Changes"
// @Success      200 {object} APIResponse[appinspection.InspectionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections/{id} [put]
func (h *InspectionHandler) Update(c *gin.Context) {
	var req UpdateInspectionRequest
	byID(c, &h.BaseHandler, func(ctx context.Context, a identity.Actor, id uuid.UUID) (*appinspection.InspectionResponse, error) {
		if !h.BindJSON(c, &req) {
			return nil, nil
		}
		return h.inspectionService.Update(ctx, a, id, appinspection.UpdateInspectionRequest{
			Name:        req.Name,
			Description: req.Description,
			ScheduledAt: req.ScheduledAt,
			InspectorID: optionalID(req.InspectorID),
			RoomIDs:     parseIDs(req.RoomIDs),
			BuildingID:  optionalID(req.BuildingID),
		})
	})
}

// Delete godoc
// @Summary      Delete inspection
// @Description  Completed inspections are kept
// @Tags         inspections
// @Param        id path string true "Inspection ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections/{id} [delete]
func (h *InspectionHandler) Delete(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.inspectionService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Start godoc
// @Summary      Start inspection
// @Tags         inspections
// @Produce      json
// @Param        id path string true "Inspection ID"
// @Success      200 {object} APIResponse[appinspection.InspectionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections/{id}/start [post]
func (h *InspectionHandler) Start(c *gin.Context) {
	byID(c, &h.BaseHandler, h.inspectionService.Start)
}

// Complete godoc
// @Summary      Complete inspection
// @Description  Every room needs a result. The final report is archived in the background.
// @Tags         inspections
// @Produce      json
// @Param        id path string true "Inspection ID"
// @Success      200 {object} APIResponse[appinspection.InspectionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections/{id}/complete [post]
func (h *InspectionHandler) Complete(c *gin.Context) {
	byID(c, &h.BaseHandler, h.inspectionService.Complete)
}

// SetRoomStatus godoc
// @Summary      Record room result
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Param        id      path string               true "Inspection ID"
// @Param        roomId  path string               true "Room ID"
// @Param        request body SetRoomStatusRequest true "Result"
// @Success      200 {object} APIResponse[appinspection.InspectionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections/{id}/rooms/{roomId} [put]
func (h *InspectionHandler) SetRoomStatus(c *gin.Context) {
	var req SetRoomStatusRequest
	byID(c, &h.BaseHandler, func(ctx context.Context, a identity.Actor, id uuid.UUID) (*appinspection.InspectionResponse, error) {
		roomID, ok := h.UUIDParam(c, "roomId")
		if !ok {
			return nil, nil
		}
		if !h.BindJSON(c, &req) {
			return nil, nil
		}
		return h.inspectionService.SetRoomStatus(ctx, a, id, roomID, appinspection.SetRoomStatusRequest{
			Status:  inspection.RoomStatus(req.Status),
			Comment: req.Comment,
		})
	})
}

// RenderReport godoc
// @Summary      Download report
// @Description  Renders the current state of an active or completed inspection as PDF
// @Tags         inspections
// @Produce      application/pdf
// @Param        id path string true "Inspection ID"
// @Success      200 {file} binary
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections/{id}/report [get]
func (h *InspectionHandler) RenderReport(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.inspectionService.RenderReport(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, "application/pdf", report.Content)
}

// ReportURL godoc
// @Summary      Archived report link
// @Description  Presigned link to the report stored when the inspection was completed
// @Tags         inspections
// @Produce      json
// @Param        id path string true "Inspection ID"
// @Success      200 {object} APIResponse[appinspection.ReportURLResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inspections/{id}/report/url [get]
func (h *InspectionHandler) ReportURL(c *gin.Context) {
	byID(c, &h.BaseHandler, h.inspectionService.ReportURL)
}
