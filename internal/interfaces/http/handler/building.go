package handler

import (
	"context"

	apphousing "github.com/dormhub/backend/internal/application/housing"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BuildingService is the part of housing.BuildingService used over HTTP
type BuildingService interface {
	Create(ctx context.Context, actor identity.Actor, req apphousing.CreateBuildingRequest) (*apphousing.BuildingResponse, error)
	GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.BuildingResponse, error)
	List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[apphousing.BuildingResponse], error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req apphousing.UpdateBuildingRequest) (*apphousing.BuildingResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	CreateFloor(ctx context.Context, actor identity.Actor, buildingID uuid.UUID, req apphousing.CreateFloorRequest) (*apphousing.FloorResponse, error)
	ListFloors(ctx context.Context, actor identity.Actor, buildingID uuid.UUID) ([]apphousing.FloorResponse, error)
	GetFloor(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.FloorResponse, error)
	DeleteFloor(ctx context.Context, actor identity.Actor, id uuid.UUID) error
}

// BuildingHandler handles buildings and their floors
type BuildingHandler struct {
	BaseHandler
	buildingService BuildingService
}

// NewBuildingHandler creates a new building handler
func NewBuildingHandler(buildingService BuildingService) *BuildingHandler {
	return &BuildingHandler{buildingService: buildingService}
}

// Create godoc
// @Summary      Create building
// @Tags         buildings
// @Accept       json
// @Produce      json
// @Param        request body CreateBuildingRequest true "Building"
// @Success      201 {object} APIResponse[apphousing.BuildingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buildings [post]
func (h *BuildingHandler) Create(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var req CreateBuildingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	building, err := h.buildingService.Create(c.Request.Context(), a, apphousing.CreateBuildingRequest{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, building)
}

// List godoc
// @Summary      List buildings
// @Tags         buildings
// @Produce      json
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size (max 100)"
// @Param        search    query string false "Name or address"
// @Param        is_active query bool   false "Only active or inactive buildings"
// @Success      200 {object} APIResponse[[]apphousing.BuildingResponse]
// @Security     BearerAuth
// @Router       /buildings [get]
func (h *BuildingHandler) List(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var q BuildingListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := listFilter(q.ListRequest)
	if q.IsActive != nil {
		filter.Filters["is_active"] = *q.IsActive
	}

	page, err := h.buildingService.List(c.Request.Context(), a, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetByID godoc
// @Summary      Get building
// @Tags         buildings
// @Produce      json
// @Param        id path string true "Building ID"
// @Success      200 {object} APIResponse[apphousing.BuildingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buildings/{id} [get]
func (h *BuildingHandler) GetByID(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	building, err := h.buildingService.GetByID(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, building)
}

// Update godoc
// @Summary      Update building
// @Tags         buildings
// @Accept       json
// @Produce      json
// @Param        id      path string                true "Building ID"
// @Param        request body UpdateBuildingRequest true "Building"
// @Success      200 {object} APIResponse[apphousing.BuildingResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buildings/{id} [put]
func (h *BuildingHandler) Update(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateBuildingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	building, err := h.buildingService.Update(c.Request.Context(), a, id, apphousing.UpdateBuildingRequest{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, building)
}

// Delete godoc
// @Summary      Delete building
// @Description  Only buildings without floors can be deleted
// @Tags         buildings
// @Param        id path string true "Building ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buildings/{id} [delete]
func (h *BuildingHandler) Delete(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.buildingService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateFloor godoc
// @Summary      Add floor
// @Tags         floors
// @Accept       json
// @Produce      json
// @Param        id      path string             true "Building ID"
// @Param        request body CreateFloorRequest true "Floor"
// @Success      201 {object} APIResponse[apphousing.FloorResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /buildings/{id}/floors [post]
func (h *BuildingHandler) CreateFloor(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	buildingID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req CreateFloorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	floor, err := h.buildingService.CreateFloor(c.Request.Context(), a, buildingID, apphousing.CreateFloorRequest{
		Number:      *req.Number,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, floor)
}

// ListFloors godoc
// @Summary      List floors of a building
// @Tags         floors
// @Produce      json
// @Param        id path string true "Building ID"
// @Success      200 {object} APIResponse[[]apphousing.FloorResponse]
// @Security     BearerAuth
// @Router       /buildings/{id}/floors [get]
func (h *BuildingHandler) ListFloors(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	buildingID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	floors, err := h.buildingService.ListFloors(c.Request.Context(), a, buildingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, floors)
}

// GetFloor godoc
// @Summary      Get floor
// @Tags         floors
// @Produce      json
// @Param        id path string true "Floor ID"
// @Success      200 {object} APIResponse[apphousing.FloorResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /floors/{id} [get]
func (h *BuildingHandler) GetFloor(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	floor, err := h.buildingService.GetFloor(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, floor)
}

// DeleteFloor godoc
// @Summary      Delete floor
// @Description  Only floors without rooms can be deleted
// @Tags         floors
// @Param        id path string true "Floor ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /floors/{id} [delete]
func (h *BuildingHandler) DeleteFloor(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.buildingService.DeleteFloor(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
