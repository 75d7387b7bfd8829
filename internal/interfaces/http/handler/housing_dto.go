package handler

import "github.com/dormhub/backend/internal/interfaces/http/dto"

// CreateBuildingRequest represents the request body for creating a building
type CreateBuildingRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Address     string `json:"address" binding:"omitempty,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateBuildingRequest represents the request body for updating a building
type UpdateBuildingRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Address     string `json:"address" binding:"omitempty,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	IsActive    *bool  `json:"is_active"`
}

// BuildingListQuery holds the query parameters of GET /buildings
type BuildingListQuery struct {
	dto.ListRequest
	IsActive *bool `form:"is_active"`
}

// CreateFloorRequest represents the request body for adding a floor
type CreateFloorRequest struct {
	Number      *int   `json:"number" binding:"required,gte=-5,lte=200"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// CreateRoomRequest represents the request body for creating a room
type CreateRoomRequest struct {
	BuildingID  string `json:"building_id" binding:"required,uuid"`
	FloorID     string `json:"floor_id" binding:"required,uuid"`
	Number      string `json:"number" binding:"required,min=1,max=20"`
	RoomType    string `json:"room_type" binding:"omitempty,room_type"`
	Capacity    int    `json:"capacity" binding:"gte=0,lte=20"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateRoomRequest represents the request body for updating a room
type UpdateRoomRequest struct {
	Number      string `json:"number" binding:"required,min=1,max=20"`
	RoomType    string `json:"room_type" binding:"required,room_type"`
	Capacity    int    `json:"capacity" binding:"gte=0,lte=20"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// RoomListQuery holds the query parameters of GET /rooms
type RoomListQuery struct {
	dto.ListRequest
	BuildingID string `form:"building_id" binding:"omitempty,uuid"`
	FloorID    string `form:"floor_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=available under_maintenance closed"`
	RoomType   string `form:"room_type" binding:"omitempty,room_type"`
}

// CreatePlaceRequest represents the request body for adding a place to a room
type CreatePlaceRequest struct {
	Label string `json:"label" binding:"required,min=1,max=20"`
}

// AssignPlaceRequest names the resident who gets the place
type AssignPlaceRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// CreateMaintenanceRequest represents the request body for reporting a problem
type CreateMaintenanceRequest struct {
	RoomID      string `json:"room_id" binding:"required,uuid"`
	Title       string `json:"title" binding:"required,max=120"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Priority    string `json:"priority" binding:"omitempty,priority"`
}

// UpdateMaintenanceRequest represents the request body for editing a request
type UpdateMaintenanceRequest struct {
	Title       string `json:"title" binding:"required,max=120"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Priority    string `json:"priority" binding:"required,priority"`
}

// StartMaintenanceRequest names who works on the request
type StartMaintenanceRequest struct {
	Assignee string `json:"assignee" binding:"omitempty,max=100"`
}

// CompleteMaintenanceRequest carries the resolution note
type CompleteMaintenanceRequest struct {
	Resolution string `json:"resolution" binding:"required,max=4000"`
}

// CancelMaintenanceRequest carries the cancel reason
type CancelMaintenanceRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// MaintenanceListQuery holds the query parameters of GET /maintenance
type MaintenanceListQuery struct {
	dto.ListRequest
	RoomID      string `form:"room_id" binding:"omitempty,uuid"`
	RequesterID string `form:"requester_id" binding:"omitempty,uuid"`
	Status      string `form:"status" binding:"omitempty,oneof=requested in_progress completed cancelled"`
	Priority    string `form:"priority" binding:"omitempty,priority"`
}
