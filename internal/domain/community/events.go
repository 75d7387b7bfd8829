package community

import (
	"time"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const AggregateTypeEvent = "Event"

const (
	EventTypeEventCreated       = "EventCreated"
	EventTypeEventCancelled     = "EventCancelled"
	EventTypeParticipantJoined  = "EventParticipantJoined"
	EventTypeParticipantLeft    = "EventParticipantLeft"
	EventTypeParticipantRemoved = "EventParticipantRemoved"
)

// EventCreatedEvent is raised when a community event is created
type EventCreatedEvent struct {
	shared.BaseDomainEvent
	CommunityEventID uuid.UUID  `json:"event_id"`
	Title            string     `json:"title"`
	OrganizerID      uuid.UUID  `json:"organizer_id"`
	StartsAt         time.Time  `json:"starts_at"`
	Visibility       Visibility `json:"visibility"`
}

func NewEventCreatedEvent(e *Event) *EventCreatedEvent {
	return &EventCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeEventCreated, AggregateTypeEvent, e.ID, e.TenantID),
		CommunityEventID: e.ID,
		Title:            e.Title,
		OrganizerID:      e.OrganizerID,
		StartsAt:         e.StartsAt,
		Visibility:       e.Visibility,
	}
}

// EventCancelledEvent is raised when the organizer calls an event off
type EventCancelledEvent struct {
	shared.BaseDomainEvent
	CommunityEventID uuid.UUID   `json:"event_id"`
	Title            string      `json:"title"`
	Participants     []uuid.UUID `json:"participants"`
}

func NewEventCancelledEvent(e *Event) *EventCancelledEvent {
	ids := make([]uuid.UUID, 0, len(e.Participants))
	for _, p := range e.Participants {
		ids = append(ids, p.UserID)
	}
	return &EventCancelledEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeEventCancelled, AggregateTypeEvent, e.ID, e.TenantID),
		CommunityEventID: e.ID,
		Title:            e.Title,
		Participants:     ids,
	}
}

// ParticipantEvent is raised when the participant list changes
type ParticipantEvent struct {
	shared.BaseDomainEvent
	CommunityEventID uuid.UUID  `json:"event_id"`
	UserID           uuid.UUID  `json:"user_id"`
	JoinedVia        JoinMethod `json:"joined_via,omitempty"`
	Count            int        `json:"participant_count"`
}

func newParticipantEvent(eventType string, e *Event, userID uuid.UUID, via JoinMethod) *ParticipantEvent {
	return &ParticipantEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(eventType, AggregateTypeEvent, e.ID, e.TenantID),
		CommunityEventID: e.ID,
		UserID:           userID,
		JoinedVia:        via,
		Count:            len(e.Participants),
	}
}

func NewParticipantJoinedEvent(e *Event, userID uuid.UUID, via JoinMethod) *ParticipantEvent {
	return newParticipantEvent(EventTypeParticipantJoined, e, userID, via)
}

func NewParticipantLeftEvent(e *Event, userID uuid.UUID) *ParticipantEvent {
	return newParticipantEvent(EventTypeParticipantLeft, e, userID, "")
}

func NewParticipantRemovedEvent(e *Event, userID uuid.UUID) *ParticipantEvent {
	return newParticipantEvent(EventTypeParticipantRemoved, e, userID, "")
}
