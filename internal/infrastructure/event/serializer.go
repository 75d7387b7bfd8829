package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/dormhub/backend/internal/domain/community"
	"github.com/dormhub/backend/internal/domain/housing"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/inspection"
	"github.com/dormhub/backend/internal/domain/shared"
)

// EventSerializer turns domain events into outbox payloads and back
type EventSerializer struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewEventSerializer creates a serializer with no registered types
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{types: make(map[string]reflect.Type)}
}

// Register makes eventType decodable into the concrete type of instance
func (s *EventSerializer) Register(eventType string, instance shared.DomainEvent) {
	t := reflect.TypeOf(instance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.mu.Lock()
	s.types[eventType] = t
	s.mu.Unlock()
}

// Serialize encodes an event as JSON
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", event.EventType(), err)
	}
	return payload, nil
}

// Deserialize decodes a payload into the type registered for eventType
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	t, ok := s.types[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	ptr := reflect.New(t).Interface()
	if err := json.Unmarshal(data, ptr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", eventType, err)
	}
	event, ok := ptr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("%s does not implement DomainEvent", t)
	}
	return event, nil
}

// IsRegistered reports whether eventType can be decoded
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.types[eventType]
	return ok
}

// RegisteredTypes lists the known event types in sorted order
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	types := make([]string, 0, len(s.types))
	for t := range s.types {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// RegisterAllEvents registers every domain event the outbox may contain
func RegisterAllEvents(s *EventSerializer) {
	// identity
	s.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	s.Register(identity.EventTypeUserRoleChanged, &identity.UserRoleChangedEvent{})
	s.Register(identity.EventTypeUserDeactivated, &identity.UserDeactivatedEvent{})

	// housing
	s.Register(housing.EventTypeBuildingCreated, &housing.BuildingCreatedEvent{})
	s.Register(housing.EventTypeRoomCreated, &housing.RoomCreatedEvent{})
	s.Register(housing.EventTypeRoomStatusChanged, &housing.RoomStatusChangedEvent{})
	s.Register(housing.EventTypePlaceAssigned, &housing.PlaceAssignedEvent{})
	s.Register(housing.EventTypePlaceReleased, &housing.PlaceReleasedEvent{})
	s.Register(housing.EventTypeMaintenanceRequested, &housing.MaintenanceRequestedEvent{})
	s.Register(housing.EventTypeMaintenanceStatusChanged, &housing.MaintenanceStatusChangedEvent{})

	// inspections
	s.Register(inspection.EventTypeInspectionScheduled, &inspection.InspectionScheduledEvent{})
	s.Register(inspection.EventTypeInspectionStarted, &inspection.InspectionStartedEvent{})
	s.Register(inspection.EventTypeInspectionCompleted, &inspection.InspectionCompletedEvent{})

	// community events
	s.Register(community.EventTypeEventCreated, &community.EventCreatedEvent{})
	s.Register(community.EventTypeEventCancelled, &community.EventCancelledEvent{})
	s.Register(community.EventTypeParticipantJoined, &community.ParticipantEvent{})
	s.Register(community.EventTypeParticipantLeft, &community.ParticipantEvent{})
	s.Register(community.EventTypeParticipantRemoved, &community.ParticipantEvent{})
}
