package housing

import (
	"time"

	"github.com/dormhub/backend/internal/domain/housing"
	"github.com/google/uuid"
)

// CreateBuildingRequest represents a request to create a building
type CreateBuildingRequest struct {
	Name        string
	Address     string
	Description string
}

// UpdateBuildingRequest represents a request to update a building
type UpdateBuildingRequest struct {
	Name        string
	Address     string
	Description string
	IsActive    *bool
}

// BuildingResponse represents a building in API responses
type BuildingResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// ToBuildingResponse converts a domain Building to BuildingResponse
func ToBuildingResponse(b *housing.Building) BuildingResponse {
	return BuildingResponse{
		ID:          b.ID,
		Name:        b.Name,
		Address:     b.Address,
		Description: b.Description,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		Version:     b.Version,
	}
}

// CreateFloorRequest represents a request to add a floor to a building
type CreateFloorRequest struct {
	Number      int
	Description string
}

// FloorResponse represents a floor in API responses
type FloorResponse struct {
	ID          uuid.UUID `json:"id"`
	BuildingID  uuid.UUID `json:"building_id"`
	Number      int       `json:"number"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToFloorResponse converts a domain Floor to FloorResponse
func ToFloorResponse(f *housing.Floor) FloorResponse {
	return FloorResponse{
		ID:          f.ID,
		BuildingID:  f.BuildingID,
		Number:      f.Number,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
	}
}

// CreateRoomRequest represents a request to create a room
type CreateRoomRequest struct {
	BuildingID  uuid.UUID
	FloorID     uuid.UUID
	Number      string
	RoomType    housing.RoomType
	Capacity    int
	Description string
}

// UpdateRoomRequest represents a request to update a room
type UpdateRoomRequest struct {
	Number      string
	RoomType    housing.RoomType
	Capacity    int
	Description string
}

// RoomResponse represents a room with its occupancy
type RoomResponse struct {
	ID          uuid.UUID       `json:"id"`
	BuildingID  uuid.UUID       `json:"building_id"`
	FloorID     uuid.UUID       `json:"floor_id"`
	Number      string          `json:"number"`
	RoomType    string          `json:"room_type"`
	Capacity    int             `json:"capacity"`
	Status      string          `json:"status"`
	Description string          `json:"description,omitempty"`
	PlaceCount  int             `json:"place_count"`
	Occupied    int             `json:"occupied"`
	Vacancies   int             `json:"vacancies"`
	Places      []PlaceResponse `json:"places,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ToRoomResponse converts a room and its places. withPlaces controls whether
// the places themselves are embedded or only counted.
func ToRoomResponse(r *housing.Room, places []housing.Place, withPlaces bool) RoomResponse {
	occupied := 0
	for i := range places {
		if places[i].IsOccupied() {
			occupied++
		}
	}
	resp := RoomResponse{
		ID:          r.ID,
		BuildingID:  r.BuildingID,
		FloorID:     r.FloorID,
		Number:      r.Number,
		RoomType:    string(r.RoomType),
		Capacity:    r.Capacity,
		Status:      string(r.Status),
		Description: r.Description,
		PlaceCount:  len(places),
		Occupied:    occupied,
		Vacancies:   len(places) - occupied,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}
	if withPlaces {
		resp.Places = ToPlaceResponses(places)
	}
	return resp
}

// CreatePlaceRequest represents a request to add a place to a room
type CreatePlaceRequest struct {
	Label string
}

// PlaceResponse represents a place in API responses
type PlaceResponse struct {
	ID            uuid.UUID  `json:"id"`
	RoomID        uuid.UUID  `json:"room_id"`
	Label         string     `json:"label"`
	OccupantID    *uuid.UUID `json:"occupant_id,omitempty"`
	OccupiedSince *time.Time `json:"occupied_since,omitempty"`
	Occupied      bool       `json:"occupied"`
}

// ToPlaceResponse converts a domain Place to PlaceResponse
func ToPlaceResponse(p *housing.Place) PlaceResponse {
	return PlaceResponse{
		ID:            p.ID,
		RoomID:        p.RoomID,
		Label:         p.Label,
		OccupantID:    p.OccupantID,
		OccupiedSince: p.OccupiedSince,
		Occupied:      p.IsOccupied(),
	}
}

// ToPlaceResponses converts a slice of domain Places
func ToPlaceResponses(places []housing.Place) []PlaceResponse {
	out := make([]PlaceResponse, len(places))
	for i := range places {
		out[i] = ToPlaceResponse(&places[i])
	}
	return out
}

// MyPlaceResponse is the caller's housing assignment
type MyPlaceResponse struct {
	Place PlaceResponse `json:"place"`
	Room  RoomResponse  `json:"room"`
}

// CreateMaintenanceRequest represents a request to report a problem in a room
type CreateMaintenanceRequest struct {
	RoomID      uuid.UUID
	Title       string
	Description string
	Priority    housing.MaintenancePriority
}

// UpdateMaintenanceRequest represents a request to edit an open request
type UpdateMaintenanceRequest struct {
	Title       string
	Description string
	Priority    housing.MaintenancePriority
}

// MaintenanceResponse represents a maintenance request in API responses
type MaintenanceResponse struct {
	ID             uuid.UUID  `json:"id"`
	RoomID         uuid.UUID  `json:"room_id"`
	RequesterID    uuid.UUID  `json:"requester_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	Assignee       string     `json:"assignee,omitempty"`
	ResolutionNote string     `json:"resolution_note,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CancelReason   string     `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version"`
}

// ToMaintenanceResponse converts a domain MaintenanceRequest to MaintenanceResponse
func ToMaintenanceResponse(m *housing.MaintenanceRequest) MaintenanceResponse {
	return MaintenanceResponse{
		ID:             m.ID,
		RoomID:         m.RoomID,
		RequesterID:    m.RequesterID,
		Title:          m.Title,
		Description:    m.Description,
		Priority:       string(m.Priority),
		Status:         string(m.Status),
		Assignee:       m.Assignee,
		ResolutionNote: m.ResolutionNote,
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
		CancelledAt:    m.CancelledAt,
		CancelReason:   m.CancelReason,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		Version:        m.Version,
	}
}
