package housing

import (
	"strings"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Building is a dormitory building
type Building struct {
	shared.TenantAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Address     string `gorm:"type:varchar(255)"`
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Building) TableName() string {
	return "buildings"
}

// NewBuilding creates a new active building
func NewBuilding(tenantID uuid.UUID, name, address string) (*Building, error) {
	if err := validateBuildingName(name); err != nil {
		return nil, err
	}
	if err := validateAddress(address); err != nil {
		return nil, err
	}

	b := &Building{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Address:             strings.TrimSpace(address),
		IsActive:            true,
	}
	b.AddDomainEvent(NewBuildingCreatedEvent(b))
	return b, nil
}

// Update changes the descriptive fields of the building
func (b *Building) Update(name, address, description string) error {
	if err := validateBuildingName(name); err != nil {
		return err
	}
	if err := validateAddress(address); err != nil {
		return err
	}
	b.Name = strings.TrimSpace(name)
	b.Address = strings.TrimSpace(address)
	b.Description = description
	b.IncrementVersion()
	return nil
}

// SetActive toggles whether the building is in use
func (b *Building) SetActive(active bool) {
	if b.IsActive == active {
		return
	}
	b.IsActive = active
	b.IncrementVersion()
}

func validateBuildingName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Building name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Building name cannot exceed 100 characters")
	}
	return nil
}

func validateAddress(address string) error {
	if len(address) > 255 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 255 characters")
	}
	return nil
}
