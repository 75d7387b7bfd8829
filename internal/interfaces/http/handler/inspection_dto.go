package handler

import (
	"time"

	"github.com/dormhub/backend/internal/interfaces/http/dto"
)

// CreateInspectionRequest represents the request body for scheduling an inspection.
// At least one of room_ids and building_id is required.
type CreateInspectionRequest struct {
	Name        string    `json:"name" binding:"required,max=120"`
	Description string    `json:"description" binding:"omitempty,max=4000"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	InspectorID string    `json:"inspector_id" binding:"omitempty,uuid"`
	RoomIDs     []string  `json:"room_ids" binding:"required_without=BuildingID,omitempty,max=500,dive,uuid"`
	BuildingID  string    `json:"building_id" binding:"required_without=RoomIDs,omitempty,uuid"`
}

// UpdateInspectionRequest represents the request body for rescheduling an inspection.
// Omitting room_ids and building_id keeps the current rooms.
type UpdateInspectionRequest struct {
	Name        string    `json:"name" binding:"required,max=120"`
	Description string    `json:"description" binding:"omitempty,max=4000"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	InspectorID string    `json:"inspector_id" binding:"omitempty,uuid"`
	RoomIDs     []string  `json:"room_ids" binding:"omitempty,max=500,dive,uuid"`
	BuildingID  string    `json:"building_id" binding:"omitempty,uuid"`
}

// SetRoomStatusRequest represents the result of checking one room
type SetRoomStatusRequest struct {
	Status  string `json:"status" binding:"required,inspection_result"`
	Comment string `json:"comment" binding:"omitempty,max=1000"`
}

// InspectionListQuery holds the query parameters of GET /inspections
type InspectionListQuery struct {
	dto.ListRequest
	Status        string     `form:"status" binding:"omitempty,oneof=scheduled active completed"`
	InspectorID   string     `form:"inspector_id" binding:"omitempty,uuid"`
	ScheduledFrom *time.Time `form:"scheduled_from" time_format:"2006-01-02" time_utc:"1"`
	ScheduledTo   *time.Time `form:"scheduled_to" time_format:"2006-01-02" time_utc:"1"`
}
