package models

import (
	"time"

	"github.com/dormhub/backend/internal/domain/inspection"
	"github.com/google/uuid"
)

// InspectionModel is the persistence model for the Inspection aggregate
type InspectionModel struct {
	TenantAggregateModel
	Name        string            `gorm:"type:varchar(120);not null"`
	Description string            `gorm:"type:text"`
	ScheduledAt time.Time         `gorm:"not null;index"`
	Status      inspection.Status `gorm:"type:varchar(20);not null;index"`
	InspectorID uuid.UUID         `gorm:"type:uuid;not null;index"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	ReportKey   string                `gorm:"type:varchar(255)"`
	Rooms       []InspectionRoomModel `gorm:"foreignKey:InspectionID;references:ID"`
}

// TableName returns the table name for GORM
func (InspectionModel) TableName() string {
	return "inspections"
}

// ToDomain converts the model to a domain Inspection
func (m *InspectionModel) ToDomain() *inspection.Inspection {
	i := &inspection.Inspection{
		Name:        m.Name,
		Description: m.Description,
		ScheduledAt: m.ScheduledAt,
		Status:      m.Status,
		InspectorID: m.InspectorID,
		StartedAt:   m.StartedAt,
		CompletedAt: m.CompletedAt,
		ReportKey:   m.ReportKey,
		Rooms:       make([]inspection.InspectionRoom, len(m.Rooms)),
	}
	m.PopulateTenantAggregateRoot(&i.TenantAggregateRoot)
	for idx := range m.Rooms {
		i.Rooms[idx] = m.Rooms[idx].ToDomain()
	}
	return i
}

// InspectionModelFromDomain converts a domain Inspection to its model
func InspectionModelFromDomain(i *inspection.Inspection) *InspectionModel {
	m := &InspectionModel{
		Name:        i.Name,
		Description: i.Description,
		ScheduledAt: i.ScheduledAt,
		Status:      i.Status,
		InspectorID: i.InspectorID,
		StartedAt:   i.StartedAt,
		CompletedAt: i.CompletedAt,
		ReportKey:   i.ReportKey,
		Rooms:       make([]InspectionRoomModel, len(i.Rooms)),
	}
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	for idx := range i.Rooms {
		m.Rooms[idx] = InspectionRoomModelFromDomain(i.ID, &i.Rooms[idx])
	}
	return m
}

// InspectionRoomModel is one checklist row of an inspection
type InspectionRoomModel struct {
	ID           uuid.UUID             `gorm:"type:uuid;primaryKey"`
	InspectionID uuid.UUID             `gorm:"type:uuid;not null;index"`
	RoomID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	RoomNumber   string                `gorm:"type:varchar(20);not null"`
	BuildingName string                `gorm:"type:varchar(100);not null"`
	FloorNumber  int                   `gorm:"not null"`
	Status       inspection.RoomStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Comment      string                `gorm:"type:varchar(1000)"`
	CheckedAt    *time.Time
	CheckedBy    *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InspectionRoomModel) TableName() string {
	return "inspection_rooms"
}

// ToDomain converts the model to a domain InspectionRoom
func (m *InspectionRoomModel) ToDomain() inspection.InspectionRoom {
	return inspection.InspectionRoom{
		ID:           m.ID,
		InspectionID: m.InspectionID,
		RoomID:       m.RoomID,
		RoomNumber:   m.RoomNumber,
		BuildingName: m.BuildingName,
		FloorNumber:  m.FloorNumber,
		Status:       m.Status,
		Comment:      m.Comment,
		CheckedAt:    m.CheckedAt,
		CheckedBy:    m.CheckedBy,
	}
}

// InspectionRoomModelFromDomain converts a checklist row to its model
func InspectionRoomModelFromDomain(inspectionID uuid.UUID, r *inspection.InspectionRoom) InspectionRoomModel {
	return InspectionRoomModel{
		ID:           r.ID,
		InspectionID: inspectionID,
		RoomID:       r.RoomID,
		RoomNumber:   r.RoomNumber,
		BuildingName: r.BuildingName,
		FloorNumber:  r.FloorNumber,
		Status:       r.Status,
		Comment:      r.Comment,
		CheckedAt:    r.CheckedAt,
		CheckedBy:    r.CheckedBy,
	}
}
