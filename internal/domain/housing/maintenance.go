package housing

import (
	"strings"
	"time"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaintenancePriority tells staff how quickly a request should be handled
type MaintenancePriority string

const (
	PriorityLow    MaintenancePriority = "low"
	PriorityNormal MaintenancePriority = "normal"
	PriorityHigh   MaintenancePriority = "high"
	PriorityUrgent MaintenancePriority = "urgent"
)

// IsValid checks if the priority is known
func (p MaintenancePriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// MaintenanceStatus is the lifecycle state of a maintenance request
type MaintenanceStatus string

const (
	MaintenanceStatusRequested  MaintenanceStatus = "requested"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
	MaintenanceStatusCancelled  MaintenanceStatus = "cancelled"
)

// IsValid checks if the status is known
func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceStatusRequested, MaintenanceStatusInProgress, MaintenanceStatusCompleted, MaintenanceStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s MaintenanceStatus) IsTerminal() bool {
	return s == MaintenanceStatusCompleted || s == MaintenanceStatusCancelled
}

// MaintenanceRequest is a ticket raised for a room.
//
// Lifecycle: requested -> in_progress -> completed, and requested|in_progress -> cancelled.
type MaintenanceRequest struct {
	shared.TenantAggregateRoot
	RoomID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	RequesterID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Title          string              `gorm:"type:varchar(120);not null"`
	Description    string              `gorm:"type:text"`
	Priority       MaintenancePriority `gorm:"type:varchar(20);not null;default:'normal'"`
	Status         MaintenanceStatus   `gorm:"type:varchar(20);not null;default:'requested'"`
	Assignee       string              `gorm:"type:varchar(100)"`
	ResolutionNote string              `gorm:"type:text"`
	StartedAt      *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

// NewMaintenanceRequest opens a request for a room
func NewMaintenanceRequest(tenantID, roomID, requesterID uuid.UUID, title, description string, priority MaintenancePriority) (*MaintenanceRequest, error) {
	if roomID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ROOM", "Room is required")
	}
	if requesterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REQUESTER", "Requester is required")
	}
	if priority == "" {
		priority = PriorityNormal
	}
	if err := validateMaintenanceFields(title, description, priority); err != nil {
		return nil, err
	}

	m := &MaintenanceRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, requesterID),
		RoomID:              roomID,
		RequesterID:         requesterID,
		Title:               strings.TrimSpace(title),
		Description:         description,
		Priority:            priority,
		Status:              MaintenanceStatusRequested,
	}
	m.AddDomainEvent(NewMaintenanceRequestedEvent(m))
	return m, nil
}

// IsRequestedBy reports whether the user opened the request
func (m *MaintenanceRequest) IsRequestedBy(userID uuid.UUID) bool {
	return m.RequesterID == userID
}

// Update edits the request while nobody has started working on it
func (m *MaintenanceRequest) Update(title, description string, priority MaintenancePriority) error {
	if m.Status != MaintenanceStatusRequested {
		return shared.InvalidState("Only requested maintenance can be edited")
	}
	if err := validateMaintenanceFields(title, description, priority); err != nil {
		return err
	}
	m.Title = strings.TrimSpace(title)
	m.Description = description
	m.Priority = priority
	m.IncrementVersion()
	return nil
}

// Start moves the request to in_progress
func (m *MaintenanceRequest) Start(assignee string) error {
	if m.Status != MaintenanceStatusRequested {
		return shared.InvalidState("Only requested maintenance can be started")
	}
	if len(assignee) > 100 {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Assignee cannot exceed 100 characters")
	}
	now := time.Now()
	m.Status = MaintenanceStatusInProgress
	m.Assignee = strings.TrimSpace(assignee)
	m.StartedAt = &now
	m.IncrementVersion()
	m.AddDomainEvent(NewMaintenanceStatusChangedEvent(m, MaintenanceStatusRequested))
	return nil
}

// Complete closes an in-progress request with a resolution note
func (m *MaintenanceRequest) Complete(resolution string) error {
	if m.Status != MaintenanceStatusInProgress {
		return shared.InvalidState("Only maintenance in progress can be completed")
	}
	resolution = strings.TrimSpace(resolution)
	if resolution == "" {
		return shared.NewDomainError("RESOLUTION_REQUIRED", "A resolution note is required")
	}
	now := time.Now()
	m.Status = MaintenanceStatusCompleted
	m.ResolutionNote = resolution
	m.CompletedAt = &now
	m.IncrementVersion()
	m.AddDomainEvent(NewMaintenanceStatusChangedEvent(m, MaintenanceStatusInProgress))
	return nil
}

// Cancel withdraws the request. Residents may only cancel before work started,
// staff may also cancel work in progress.
func (m *MaintenanceRequest) Cancel(reason string, byStaff bool) error {
	switch m.Status {
	case MaintenanceStatusRequested:
	case MaintenanceStatusInProgress:
		if !byStaff {
			return shared.InvalidState("Maintenance in progress can only be cancelled by staff")
		}
	default:
		return shared.InvalidState("Maintenance is already closed")
	}
	if len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason cannot exceed 500 characters")
	}
	old := m.Status
	now := time.Now()
	m.Status = MaintenanceStatusCancelled
	m.CancelledAt = &now
	m.CancelReason = strings.TrimSpace(reason)
	m.IncrementVersion()
	m.AddDomainEvent(NewMaintenanceStatusChangedEvent(m, old))
	return nil
}

func validateMaintenanceFields(title, description string, priority MaintenancePriority) error {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 120 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be between 1 and 120 characters")
	}
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown priority: "+string(priority))
	}
	return nil
}
