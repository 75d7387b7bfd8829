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

// RoomService is the part of housing.RoomService used over HTTP
type RoomService interface {
	Create(ctx context.Context, actor identity.Actor, req apphousing.CreateRoomRequest) (*apphousing.RoomResponse, error)
	GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.RoomResponse, error)
	List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[apphousing.RoomResponse], error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req apphousing.UpdateRoomRequest) (*apphousing.RoomResponse, error)
	Close(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.RoomResponse, error)
	Reopen(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.RoomResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	CreatePlace(ctx context.Context, actor identity.Actor, roomID uuid.UUID, req apphousing.CreatePlaceRequest) (*apphousing.PlaceResponse, error)
	ListPlaces(ctx context.Context, actor identity.Actor, roomID uuid.UUID) ([]apphousing.PlaceResponse, error)
	GetPlace(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.PlaceResponse, error)
	AssignPlace(ctx context.Context, actor identity.Actor, placeID, userID uuid.UUID) (*apphousing.PlaceResponse, error)
	ReleasePlace(ctx context.Context, actor identity.Actor, placeID uuid.UUID) (*apphousing.PlaceResponse, error)
	DeletePlace(ctx context.Context, actor identity.Actor, placeID uuid.UUID) error
	MyPlace(ctx context.Context, actor identity.Actor) (*apphousing.MyPlaceResponse, error)
}

// RoomHandler handles rooms and their places
type RoomHandler struct {
	BaseHandler
	roomService RoomService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomService RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// Create godoc
// @Summary      Create room
// @Description  room_type defaults to standard
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body CreateRoomRequest true "Room"
// @Success      201 {object} APIResponse[apphousing.RoomResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var req CreateRoomRequest
	if !h.BindJSON(c, &req) {
		return
	}

	roomType := housing.RoomType(req.RoomType)
	if roomType == "" {
		roomType = housing.RoomTypeStandard
	}
	room, err := h.roomService.Create(c.Request.Context(), a, apphousing.CreateRoomRequest{
		BuildingID:  uuid.MustParse(req.BuildingID),
		FloorID:     uuid.MustParse(req.FloorID),
		Number:      req.Number,
		RoomType:    roomType,
		Capacity:    req.Capacity,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, room)
}

// List godoc
// @Summary      List rooms
// @Tags         rooms
// @Produce      json
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size (max 100)"
// @Param        search      query string false "Room number"
// @Param        building_id query string false "Building ID"
// @Param        floor_id    query string false "Floor ID"
// @Param        status      query string false "available, under_maintenance or closed"
// @Param        room_type   query string false "Room type"
// @Success      200 {object} APIResponse[[]apphousing.RoomResponse]
// @Security     BearerAuth
// @Router       /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var q RoomListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := listFilter(q.ListRequest)
	putUUID(filter, "building_id", q.BuildingID)
	putUUID(filter, "floor_id", q.FloorID)
	putString(filter, "status", q.Status)
	putString(filter, "room_type", q.RoomType)

	page, err := h.roomService.List(c.Request.Context(), a, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetByID godoc
// @Summary      Get room
// @Description  Returns the room with its places
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID"
// @Success      200 {object} APIResponse[apphousing.RoomResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rooms/{id} [get]
func (h *RoomHandler) GetByID(c *gin.Context) {
	byID(c, &h.BaseHandler, h.roomService.GetByID)
}

// Update godoc
// @Summary      Update room
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id      path string            true "Room ID"
// @Param        request body UpdateRoomRequest true "Room"
// @Success      200 {object} APIResponse[apphousing.RoomResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rooms/{id} [put]
func (h *RoomHandler) Update(c *gin.Context) {
	var req UpdateRoomRequest
	byID(c, &h.BaseHandler, func(ctx context.Context, a identity.Actor, id uuid.UUID) (*apphousing.RoomResponse, error) {
		if !h.BindJSON(c, &req) {
			return nil, nil
		}
		return h.roomService.Update(ctx, a, id, apphousing.UpdateRoomRequest{
			Number:      req.Number,
			RoomType:    housing.RoomType(req.RoomType),
			Capacity:    req.Capacity,
			Description: req.Description,
		})
	})
}

// Close godoc
// @Summary      Close room
// @Description  A closed room takes no new residents and is skipped by building-wide inspections
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID"
// @Success      200 {object} APIResponse[apphousing.RoomResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rooms/{id}/close [post]
func (h *RoomHandler) Close(c *gin.Context) {
	byID(c, &h.BaseHandler, h.roomService.Close)
}

// Reopen godoc
// @Summary      Reopen room
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID"
// @Success      200 {object} APIResponse[apphousing.RoomResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rooms/{id}/reopen [post]
func (h *RoomHandler) Reopen(c *gin.Context) {
	byID(c, &h.BaseHandler, h.roomService.Reopen)
}

// Delete godoc
// @Summary      Delete room
// @Description  Deletes the room and its free places. Fails while a place is occupied.
// @Tags         rooms
// @Param        id path string true "Room ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rooms/{id} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roomService.Delete(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreatePlace godoc
// @Summary      Add place
// @Tags         places
// @Accept       json
// @Produce      json
// @Param        id      path string             true "Room ID"
// @Param        request body CreatePlaceRequest true "Place"
// @Success      201 {object} APIResponse[apphousing.PlaceResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rooms/{id}/places [post]
func (h *RoomHandler) CreatePlace(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	roomID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req CreatePlaceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	place, err := h.roomService.CreatePlace(c.Request.Context(), a, roomID, apphousing.CreatePlaceRequest{Label: req.Label})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, place)
}

// ListPlaces godoc
// @Summary      List places of a room
// @Tags         places
// @Produce      json
// @Param        id path string true "Room ID"
// @Success      200 {object} APIResponse[[]apphousing.PlaceResponse]
// @Security     BearerAuth
// @Router       /rooms/{id}/places [get]
func (h *RoomHandler) ListPlaces(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	roomID, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	places, err := h.roomService.ListPlaces(c.Request.Context(), a, roomID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, places)
}

// MyPlace godoc
// @Summary      My place
// @Description  The place and room the caller lives in
// @Tags         places
// @Produce      json
// @Success      200 {object} APIResponse[apphousing.MyPlaceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /places/mine [get]
func (h *RoomHandler) MyPlace(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}

	mine, err := h.roomService.MyPlace(c.Request.Context(), a)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mine)
}

// GetPlace godoc
// @Summary      Get place
// @Tags         places
// @Produce      json
// @Param        id path string true "Place ID"
// @Success      200 {object} APIResponse[apphousing.PlaceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /places/{id} [get]
func (h *RoomHandler) GetPlace(c *gin.Context) {
	byID(c, &h.BaseHandler, h.roomService.GetPlace)
}

// AssignPlace godoc
// @Summary      Assign place
// @Description  Houses a resident. A resident can hold one place at a time.
// @Tags         places
// @Accept       json
// @Produce      json
// @Param        id      path string             true "Place ID"
// @Param        request body AssignPlaceRequest true "Resident"
// @Success      200 {object} APIResponse[apphousing.PlaceResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /places/{id}/assign [post]
func (h *RoomHandler) AssignPlace(c *gin.Context) {
	var req AssignPlaceRequest
	byID(c, &h.BaseHandler, func(ctx context.Context, a identity.Actor, id uuid.UUID) (*apphousing.PlaceResponse, error) {
		if !h.BindJSON(c, &req) {
			return nil, nil
		}
		return h.roomService.AssignPlace(ctx, a, id, uuid.MustParse(req.UserID))
	})
}

// ReleasePlace godoc
// @Summary      Release place
// @Tags         places
// @Produce      json
// @Param        id path string true "Place ID"
// @Success      200 {object} APIResponse[apphousing.PlaceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /places/{id}/release [post]
func (h *RoomHandler) ReleasePlace(c *gin.Context) {
	byID(c, &h.BaseHandler, h.roomService.ReleasePlace)
}

// DeletePlace godoc
// @Summary      Delete place
// @Tags         places
// @Param        id path string true "Place ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /places/{id} [delete]
func (h *RoomHandler) DeletePlace(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roomService.DeletePlace(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
