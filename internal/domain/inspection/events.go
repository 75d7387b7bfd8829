package inspection

import (
	"time"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const AggregateTypeInspection = "Inspection"

const (
	EventTypeInspectionScheduled = "InspectionScheduled"
	EventTypeInspectionStarted   = "InspectionStarted"
	EventTypeInspectionCompleted = "InspectionCompleted"
)

// InspectionScheduledEvent is published when an inspection is planned
type InspectionScheduledEvent struct {
	shared.BaseDomainEvent
	InspectionID uuid.UUID `json:"inspection_id"`
	Name         string    `json:"name"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	RoomCount    int       `json:"room_count"`
}

// NewInspectionScheduledEvent creates a new InspectionScheduledEvent
func NewInspectionScheduledEvent(i *Inspection) *InspectionScheduledEvent {
	return &InspectionScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInspectionScheduled, AggregateTypeInspection, i.ID, i.TenantID),
		InspectionID:    i.ID,
		Name:            i.Name,
		ScheduledAt:     i.ScheduledAt,
		RoomCount:       len(i.Rooms),
	}
}

// InspectionStartedEvent is published when an inspection becomes active
type InspectionStartedEvent struct {
	shared.BaseDomainEvent
	InspectionID uuid.UUID `json:"inspection_id"`
	InspectorID  uuid.UUID `json:"inspector_id"`
}

// NewInspectionStartedEvent creates a new InspectionStartedEvent
func NewInspectionStartedEvent(i *Inspection) *InspectionStartedEvent {
	return &InspectionStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInspectionStarted, AggregateTypeInspection, i.ID, i.TenantID),
		InspectionID:    i.ID,
		InspectorID:     i.InspectorID,
	}
}

// InspectionCompletedEvent is published when every room has a result and the
// inspection is closed. It triggers archiving of the PDF report.
type InspectionCompletedEvent struct {
	shared.BaseDomainEvent
	InspectionID uuid.UUID          `json:"inspection_id"`
	Counts       map[RoomStatus]int `json:"counts"`
}

// NewInspectionCompletedEvent creates a new InspectionCompletedEvent
func NewInspectionCompletedEvent(i *Inspection) *InspectionCompletedEvent {
	return &InspectionCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInspectionCompleted, AggregateTypeInspection, i.ID, i.TenantID),
		InspectionID:    i.ID,
		Counts:          i.Summary().ByStatus,
	}
}
