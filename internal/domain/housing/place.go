package housing

import (
	"strings"
	"time"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Place is a single bed in a room that one resident can occupy
type Place struct {
	shared.TenantAggregateRoot
	RoomID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Label         string     `gorm:"type:varchar(20);not null"`
	OccupantID    *uuid.UUID `gorm:"type:uuid;index"`
	OccupiedSince *time.Time
}

// TableName returns the table name for GORM
func (Place) TableName() string {
	return "places"
}

// NewPlace creates a free place in a room
func NewPlace(tenantID, roomID uuid.UUID, label string) (*Place, error) {
	label = strings.TrimSpace(label)
	if label == "" || len(label) > 20 {
		return nil, shared.NewDomainError("INVALID_LABEL", "Place label must be between 1 and 20 characters")
	}
	return &Place{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RoomID:              roomID,
		Label:               strings.ToUpper(label),
	}, nil
}

// IsOccupied reports whether a resident lives in the place
func (p *Place) IsOccupied() bool {
	return p.OccupantID != nil
}

// Assign moves a resident into the place
func (p *Place) Assign(room *Room, userID uuid.UUID) error {
	if p.IsOccupied() {
		return shared.NewDomainError("PLACE_OCCUPIED", "Place is already occupied")
	}
	if room == nil || room.ID != p.RoomID {
		return shared.NewDomainError("INVALID_ROOM", "Place does not belong to the room")
	}
	if !room.CanHouse() {
		return shared.NewDomainError("ROOM_NOT_AVAILABLE", "Room is not available for new residents")
	}
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Occupant is required")
	}

	now := time.Now()
	p.OccupantID = &userID
	p.OccupiedSince = &now
	p.IncrementVersion()
	p.AddDomainEvent(NewPlaceAssignedEvent(p))
	return nil
}

// Release moves the resident out
func (p *Place) Release() error {
	if !p.IsOccupied() {
		return shared.NewDomainError("PLACE_NOT_OCCUPIED", "Place is not occupied")
	}
	previous := *p.OccupantID
	p.OccupantID = nil
	p.OccupiedSince = nil
	p.IncrementVersion()
	p.AddDomainEvent(NewPlaceReleasedEvent(p, previous))
	return nil
}
