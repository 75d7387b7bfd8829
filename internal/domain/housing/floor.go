package housing

import (
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	MinFloorNumber = -5
	MaxFloorNumber = 200
)

// Floor is a storey of a building. Basements use negative numbers.
type Floor struct {
	shared.TenantAggregateRoot
	BuildingID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Number      int       `gorm:"not null"`
	Description string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Floor) TableName() string {
	return "floors"
}

// NewFloor creates a floor in a building
func NewFloor(tenantID, buildingID uuid.UUID, number int, description string) (*Floor, error) {
	if buildingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUILDING", "Building ID cannot be empty")
	}
	if number < MinFloorNumber || number > MaxFloorNumber {
		return nil, shared.NewDomainError("INVALID_FLOOR_NUMBER", "Floor number must be between -5 and 200")
	}
	return &Floor{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BuildingID:          buildingID,
		Number:              number,
		Description:         description,
	}, nil
}
