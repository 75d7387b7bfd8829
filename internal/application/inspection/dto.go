package inspection

import (
	"time"

	"github.com/dormhub/backend/internal/domain/inspection"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInspectionRequest represents a request to schedule an inspection.
// Rooms come from RoomIDs, from every non-closed room of BuildingID, or both.
type CreateInspectionRequest struct {
	Name        string
	Description string
	ScheduledAt time.Time
	InspectorID *uuid.UUID
	RoomIDs     []uuid.UUID
	BuildingID  *uuid.UUID
}

// UpdateInspectionRequest represents a request to change a scheduled inspection.
// Leaving both RoomIDs and BuildingID unset keeps the current rooms.
type UpdateInspectionRequest struct {
	Name        string
	Description string
	ScheduledAt time.Time
	InspectorID *uuid.UUID
	RoomIDs     []uuid.UUID
	BuildingID  *uuid.UUID
}

// SetRoomStatusRequest records the result of one room
type SetRoomStatusRequest struct {
	Status  inspection.RoomStatus
	Comment string
}

// SummaryResponse holds the per-status room counts
type SummaryResponse struct {
	Total        int             `json:"total"`
	Pending      int             `json:"pending"`
	Confirmed    int             `json:"confirmed"`
	NotConfirmed int             `json:"not_confirmed"`
	NoAccess     int             `json:"no_access"`
	Completion   decimal.Decimal `json:"completion"`
}

// InspectionRoomResponse is one checklist line in API responses
type InspectionRoomResponse struct {
	RoomID       uuid.UUID  `json:"room_id"`
	RoomNumber   string     `json:"room_number"`
	BuildingName string     `json:"building_name"`
	FloorNumber  int        `json:"floor_number"`
	Status       string     `json:"status"`
	Comment      string     `json:"comment,omitempty"`
	CheckedAt    *time.Time `json:"checked_at,omitempty"`
	CheckedBy    *uuid.UUID `json:"checked_by,omitempty"`
}

// InspectionResponse represents an inspection in API responses
type InspectionResponse struct {
	ID             uuid.UUID                `json:"id"`
	Name           string                   `json:"name"`
	Description    string                   `json:"description,omitempty"`
	ScheduledAt    time.Time                `json:"scheduled_at"`
	Status         string                   `json:"status"`
	InspectorID    uuid.UUID                `json:"inspector_id"`
	StartedAt      *time.Time               `json:"started_at,omitempty"`
	CompletedAt    *time.Time               `json:"completed_at,omitempty"`
	ReportArchived bool                     `json:"report_archived"`
	Summary        SummaryResponse          `json:"summary"`
	Rooms          []InspectionRoomResponse `json:"rooms,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
	Version        int                      `json:"version"`
}

// ReportFile is a rendered PDF report
type ReportFile struct {
	Filename string
	Content  []byte
}

// ReportURLResponse is a presigned link to the archived report
type ReportURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToSummaryResponse converts the domain summary
func ToSummaryResponse(s inspection.Summary) SummaryResponse {
	return SummaryResponse{
		Total:        s.Total,
		Pending:      s.ByStatus[inspection.RoomStatusPending],
		Confirmed:    s.ByStatus[inspection.RoomStatusConfirmed],
		NotConfirmed: s.ByStatus[inspection.RoomStatusNotConfirmed],
		NoAccess:     s.ByStatus[inspection.RoomStatusNoAccess],
		Completion:   s.Completion,
	}
}

// ToInspectionResponse converts a domain Inspection. withRooms controls
// whether the checklist is embedded.
func ToInspectionResponse(i *inspection.Inspection, withRooms bool) InspectionResponse {
	resp := InspectionResponse{
		ID:             i.ID,
		Name:           i.Name,
		Description:    i.Description,
		ScheduledAt:    i.ScheduledAt,
		Status:         string(i.Status),
		InspectorID:    i.InspectorID,
		StartedAt:      i.StartedAt,
		CompletedAt:    i.CompletedAt,
		ReportArchived: i.ReportKey != "",
		Summary:        ToSummaryResponse(i.Summary()),
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
		Version:        i.Version,
	}
	if withRooms {
		resp.Rooms = make([]InspectionRoomResponse, len(i.Rooms))
		for idx, r := range i.Rooms {
			resp.Rooms[idx] = InspectionRoomResponse{
				RoomID:       r.RoomID,
				RoomNumber:   r.RoomNumber,
				BuildingName: r.BuildingName,
				FloorNumber:  r.FloorNumber,
				Status:       string(r.Status),
				Comment:      r.Comment,
				CheckedAt:    r.CheckedAt,
				CheckedBy:    r.CheckedBy,
			}
		}
	}
	return resp
}
