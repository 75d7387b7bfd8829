package housing

import (
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeBuilding    = "Building"
	AggregateTypeRoom        = "Room"
	AggregateTypePlace       = "Place"
	AggregateTypeMaintenance = "MaintenanceRequest"
)

const (
	EventTypeBuildingCreated          = "BuildingCreated"
	EventTypeRoomCreated              = "RoomCreated"
	EventTypeRoomStatusChanged        = "RoomStatusChanged"
	EventTypePlaceAssigned            = "PlaceAssigned"
	EventTypePlaceReleased            = "PlaceReleased"
	EventTypeMaintenanceRequested     = "MaintenanceRequested"
	EventTypeMaintenanceStatusChanged = "MaintenanceStatusChanged"
)

// BuildingCreatedEvent is published when a building is added
type BuildingCreatedEvent struct {
	shared.BaseDomainEvent
	BuildingID uuid.UUID `json:"building_id"`
	Name       string    `json:"name"`
}

// NewBuildingCreatedEvent creates a new BuildingCreatedEvent
func NewBuildingCreatedEvent(b *Building) *BuildingCreatedEvent {
	return &BuildingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBuildingCreated, AggregateTypeBuilding, b.ID, b.TenantID),
		BuildingID:      b.ID,
		Name:            b.Name,
	}
}

// RoomCreatedEvent is published when a room is added
type RoomCreatedEvent struct {
	shared.BaseDomainEvent
	RoomID     uuid.UUID `json:"room_id"`
	BuildingID uuid.UUID `json:"building_id"`
	Number     string    `json:"number"`
	RoomType   RoomType  `json:"room_type"`
	Capacity   int       `json:"capacity"`
}

// NewRoomCreatedEvent creates a new RoomCreatedEvent
func NewRoomCreatedEvent(r *Room) *RoomCreatedEvent {
	return &RoomCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoomCreated, AggregateTypeRoom, r.ID, r.TenantID),
		RoomID:          r.ID,
		BuildingID:      r.BuildingID,
		Number:          r.Number,
		RoomType:        r.RoomType,
		Capacity:        r.Capacity,
	}
}

// RoomStatusChangedEvent is published when a room opens, closes or enters maintenance
type RoomStatusChangedEvent struct {
	shared.BaseDomainEvent
	RoomID    uuid.UUID  `json:"room_id"`
	OldStatus RoomStatus `json:"old_status"`
	NewStatus RoomStatus `json:"new_status"`
}

// NewRoomStatusChangedEvent creates a new RoomStatusChangedEvent
func NewRoomStatusChangedEvent(r *Room, old RoomStatus) *RoomStatusChangedEvent {
	return &RoomStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoomStatusChanged, AggregateTypeRoom, r.ID, r.TenantID),
		RoomID:          r.ID,
		OldStatus:       old,
		NewStatus:       r.Status,
	}
}

// PlaceAssignedEvent is published when a resident moves in
type PlaceAssignedEvent struct {
	shared.BaseDomainEvent
	PlaceID    uuid.UUID `json:"place_id"`
	RoomID     uuid.UUID `json:"room_id"`
	OccupantID uuid.UUID `json:"occupant_id"`
}

// NewPlaceAssignedEvent creates a new PlaceAssignedEvent
func NewPlaceAssignedEvent(p *Place) *PlaceAssignedEvent {
	return &PlaceAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlaceAssigned, AggregateTypePlace, p.ID, p.TenantID),
		PlaceID:         p.ID,
		RoomID:          p.RoomID,
		OccupantID:      *p.OccupantID,
	}
}

// PlaceReleasedEvent is published when a resident moves out
type PlaceReleasedEvent struct {
	shared.BaseDomainEvent
	PlaceID    uuid.UUID `json:"place_id"`
	RoomID     uuid.UUID `json:"room_id"`
	OccupantID uuid.UUID `json:"occupant_id"`
}

// NewPlaceReleasedEvent creates a new PlaceReleasedEvent
func NewPlaceReleasedEvent(p *Place, occupant uuid.UUID) *PlaceReleasedEvent {
	return &PlaceReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePlaceReleased, AggregateTypePlace, p.ID, p.TenantID),
		PlaceID:         p.ID,
		RoomID:          p.RoomID,
		OccupantID:      occupant,
	}
}

// MaintenanceRequestedEvent is published when a maintenance request is opened
type MaintenanceRequestedEvent struct {
	shared.BaseDomainEvent
	RequestID   uuid.UUID           `json:"request_id"`
	RoomID      uuid.UUID           `json:"room_id"`
	RequesterID uuid.UUID           `json:"requester_id"`
	Priority    MaintenancePriority `json:"priority"`
}

// NewMaintenanceRequestedEvent creates a new MaintenanceRequestedEvent
func NewMaintenanceRequestedEvent(m *MaintenanceRequest) *MaintenanceRequestedEvent {
	return &MaintenanceRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaintenanceRequested, AggregateTypeMaintenance, m.ID, m.TenantID),
		RequestID:       m.ID,
		RoomID:          m.RoomID,
		RequesterID:     m.RequesterID,
		Priority:        m.Priority,
	}
}

// MaintenanceStatusChangedEvent is published on every lifecycle transition
type MaintenanceStatusChangedEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID         `json:"request_id"`
	RoomID    uuid.UUID         `json:"room_id"`
	OldStatus MaintenanceStatus `json:"old_status"`
	NewStatus MaintenanceStatus `json:"new_status"`
}

// NewMaintenanceStatusChangedEvent creates a new MaintenanceStatusChangedEvent
func NewMaintenanceStatusChangedEvent(m *MaintenanceRequest, old MaintenanceStatus) *MaintenanceStatusChangedEvent {
	return &MaintenanceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMaintenanceStatusChanged, AggregateTypeMaintenance, m.ID, m.TenantID),
		RequestID:       m.ID,
		RoomID:          m.RoomID,
		OldStatus:       old,
		NewStatus:       m.Status,
	}
}
