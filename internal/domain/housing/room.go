package housing

import (
	"strings"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RoomType classifies what a room is used for
type RoomType string

const (
	RoomTypeStandard   RoomType = "standard"
	RoomTypeAccessible RoomType = "accessible"
	RoomTypeStudy      RoomType = "study"
	RoomTypeLaundry    RoomType = "laundry"
	RoomTypeStorage    RoomType = "storage"
)

// AllRoomTypes returns every supported room type
func AllRoomTypes() []RoomType {
	return []RoomType{RoomTypeStandard, RoomTypeAccessible, RoomTypeStudy, RoomTypeLaundry, RoomTypeStorage}
}

// IsValid checks if the room type is known
func (t RoomType) IsValid() bool {
	for _, v := range AllRoomTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// IsResidential reports whether residents can be housed in the room
func (t RoomType) IsResidential() bool {
	return t == RoomTypeStandard || t == RoomTypeAccessible
}

// RoomStatus is the operational state of a room
type RoomStatus string

const (
	RoomStatusAvailable        RoomStatus = "available"
	RoomStatusUnderMaintenance RoomStatus = "under_maintenance"
	RoomStatusClosed           RoomStatus = "closed"
)

// IsValid checks if the status is known
func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusUnderMaintenance, RoomStatusClosed:
		return true
	}
	return false
}

const MaxRoomCapacity = 20

// Room is a room on a floor. Residential rooms are split into places.
type Room struct {
	shared.TenantAggregateRoot
	BuildingID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	FloorID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Number      string     `gorm:"type:varchar(20);not null"`
	RoomType    RoomType   `gorm:"type:varchar(20);not null;default:'standard'"`
	Capacity    int        `gorm:"not null;default:0"`
	Status      RoomStatus `gorm:"type:varchar(30);not null;default:'available'"`
	Description string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Room) TableName() string {
	return "rooms"
}

// NewRoom creates an available room on the given floor
func NewRoom(tenantID uuid.UUID, floor *Floor, number string, roomType RoomType, capacity int) (*Room, error) {
	if floor == nil {
		return nil, shared.NewDomainError("INVALID_FLOOR", "Floor is required")
	}
	if err := validateRoomNumber(number); err != nil {
		return nil, err
	}
	if err := validateCapacity(roomType, capacity); err != nil {
		return nil, err
	}

	r := &Room{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BuildingID:          floor.BuildingID,
		FloorID:             floor.ID,
		Number:              normalizeRoomNumber(number),
		RoomType:            roomType,
		Capacity:            capacity,
		Status:              RoomStatusAvailable,
	}
	r.AddDomainEvent(NewRoomCreatedEvent(r))
	return r, nil
}

// Update changes the room layout. placeCount is the number of places that
// already exist, the capacity can never drop below it.
func (r *Room) Update(number string, roomType RoomType, capacity int, description string, placeCount int) error {
	if err := validateRoomNumber(number); err != nil {
		return err
	}
	if err := validateCapacity(roomType, capacity); err != nil {
		return err
	}
	if capacity < placeCount {
		return shared.NewDomainError("CAPACITY_BELOW_PLACES", "Capacity cannot be lower than the number of existing places")
	}
	r.Number = normalizeRoomNumber(number)
	r.RoomType = roomType
	r.Capacity = capacity
	r.Description = description
	r.IncrementVersion()
	return nil
}

// EnsureCanAddPlace checks the capacity before another place is created
func (r *Room) EnsureCanAddPlace(existing int) error {
	if !r.RoomType.IsResidential() {
		return shared.NewDomainError("ROOM_NOT_RESIDENTIAL", "Places can only be added to residential rooms")
	}
	if existing >= r.Capacity {
		return shared.NewDomainError("ROOM_CAPACITY_EXCEEDED", "Room capacity has been reached")
	}
	return nil
}

// CanHouse reports whether new occupants may move in
func (r *Room) CanHouse() bool {
	return r.Status == RoomStatusAvailable && r.RoomType.IsResidential()
}

// Close takes the room out of service
func (r *Room) Close() error {
	switch r.Status {
	case RoomStatusClosed:
		return shared.InvalidState("Room is already closed")
	case RoomStatusUnderMaintenance:
		return shared.InvalidState("Room is under maintenance")
	}
	r.setStatus(RoomStatusClosed)
	return nil
}

// Reopen puts a closed room back into service
func (r *Room) Reopen() error {
	if r.Status != RoomStatusClosed {
		return shared.InvalidState("Only closed rooms can be reopened")
	}
	r.setStatus(RoomStatusAvailable)
	return nil
}

// StartMaintenance marks the room as being worked on. Closed rooms stay closed.
func (r *Room) StartMaintenance() {
	if r.Status == RoomStatusAvailable {
		r.setStatus(RoomStatusUnderMaintenance)
	}
}

// EndMaintenance returns a room under maintenance to service
func (r *Room) EndMaintenance() {
	if r.Status == RoomStatusUnderMaintenance {
		r.setStatus(RoomStatusAvailable)
	}
}

func (r *Room) setStatus(status RoomStatus) {
	old := r.Status
	r.Status = status
	r.IncrementVersion()
	r.AddDomainEvent(NewRoomStatusChangedEvent(r, old))
}

func normalizeRoomNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

func validateRoomNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return shared.NewDomainError("INVALID_ROOM_NUMBER", "Room number cannot be empty")
	}
	if len(number) > 20 {
		return shared.NewDomainError("INVALID_ROOM_NUMBER", "Room number cannot exceed 20 characters")
	}
	return nil
}

func validateCapacity(roomType RoomType, capacity int) error {
	if !roomType.IsValid() {
		return shared.NewDomainError("INVALID_ROOM_TYPE", "Unknown room type: "+string(roomType))
	}
	if capacity < 0 || capacity > MaxRoomCapacity {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity must be between 0 and 20")
	}
	if !roomType.IsResidential() && capacity != 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Non-residential rooms cannot have capacity")
	}
	if roomType.IsResidential() && capacity == 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Residential rooms need a capacity of at least 1")
	}
	return nil
}
