package community

import (
	"strings"
	"time"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Visibility decides who can find and join an event
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// IsValid checks if the visibility is known
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// JoinMethod records how a participant joined
type JoinMethod string

const (
	JoinedAsOrganizer  JoinMethod = "organizer"
	JoinedDirectly     JoinMethod = "direct"
	JoinedByInvitation JoinMethod = "invitation"
)

const MaxEventCapacity = 10000

// Participant is a user attending an event
type Participant struct {
	ID        uuid.UUID
	EventID   uuid.UUID
	UserID    uuid.UUID
	JoinedAt  time.Time
	JoinedVia JoinMethod
}

// Event is a community event organized by a resident or staff member
type Event struct {
	shared.TenantAggregateRoot
	Title        string
	Description  string
	Location     string
	StartsAt     time.Time
	EndsAt       *time.Time
	Capacity     int // 0 means unlimited
	Visibility   Visibility
	OrganizerID  uuid.UUID
	Cancelled    bool
	CancelledAt  *time.Time
	Participants []Participant
}

// EventDetails holds the editable fields of an event
type EventDetails struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time
	Capacity    int
	Visibility  Visibility
}

// NewEvent creates an event. The organizer is its first participant.
func NewEvent(tenantID, organizerID uuid.UUID, d EventDetails, now time.Time) (*Event, error) {
	if organizerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZER", "Organizer is required")
	}
	if d.Visibility == "" {
		d.Visibility = VisibilityPublic
	}
	if err := validateDetails(d); err != nil {
		return nil, err
	}
	if !d.StartsAt.After(now) {
		return nil, shared.NewDomainError("INVALID_START", "Event must start in the future")
	}

	e := &Event{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, organizerID),
		OrganizerID:         organizerID,
	}
	e.apply(d)
	e.Participants = []Participant{{
		ID:        uuid.New(),
		EventID:   e.ID,
		UserID:    organizerID,
		JoinedAt:  now,
		JoinedVia: JoinedAsOrganizer,
	}}
	e.AddDomainEvent(NewEventCreatedEvent(e))
	return e, nil
}

// IsOrganizedBy reports whether the user organizes the event
func (e *Event) IsOrganizedBy(userID uuid.UUID) bool {
	return e.OrganizerID == userID
}

// HasParticipant reports whether the user attends the event
func (e *Event) HasParticipant(userID uuid.UUID) bool {
	return e.participantIndex(userID) >= 0
}

// ParticipantCount returns the number of participants including the organizer
func (e *Event) ParticipantCount() int {
	return len(e.Participants)
}

// IsFull reports whether the capacity is used up
func (e *Event) IsFull() bool {
	return e.Capacity > 0 && len(e.Participants) >= e.Capacity
}

// HasEnded reports whether the event is over at the given time.
// Events without an end time are over once they started.
func (e *Event) HasEnded(now time.Time) bool {
	if e.EndsAt != nil {
		return !now.Before(*e.EndsAt)
	}
	return !now.Before(e.StartsAt)
}

// IsVisibleTo reports whether a non-staff user may see the event
func (e *Event) IsVisibleTo(userID uuid.UUID) bool {
	return e.Visibility == VisibilityPublic || e.IsOrganizedBy(userID) || e.HasParticipant(userID)
}

// Update changes the event details
func (e *Event) Update(d EventDetails) error {
	if e.Cancelled {
		return shared.InvalidState("Cancelled events cannot be edited")
	}
	if d.Visibility == "" {
		d.Visibility = e.Visibility
	}
	if err := validateDetails(d); err != nil {
		return err
	}
	if d.Capacity > 0 && d.Capacity < len(e.Participants) {
		return shared.NewDomainError("CAPACITY_BELOW_PARTICIPANTS", "Capacity cannot be lower than the current number of participants")
	}
	e.apply(d)
	e.IncrementVersion()
	return nil
}

// Cancel calls the event off
func (e *Event) Cancel(now time.Time) error {
	if e.Cancelled {
		return shared.InvalidState("Event is already cancelled")
	}
	e.Cancelled = true
	e.CancelledAt = &now
	e.IncrementVersion()
	e.AddDomainEvent(NewEventCancelledEvent(e))
	return nil
}

// Join adds a participant. A closed event is reported before a full one,
// and a full one before a repeated join.
func (e *Event) Join(userID uuid.UUID, via JoinMethod, now time.Time) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User is required")
	}
	if via == JoinedDirectly && e.Visibility != VisibilityPublic {
		return shared.NewDomainError("EVENT_PRIVATE", "Private events can only be joined with an invitation")
	}
	if e.Cancelled || e.HasEnded(now) {
		return shared.NewDomainError("EVENT_CLOSED", "Event is no longer open for participants")
	}
	if e.IsFull() {
		return shared.NewDomainError("EVENT_FULL", "Event has reached its capacity")
	}
	if e.HasParticipant(userID) {
		return shared.NewDomainError("ALREADY_PARTICIPANT", "User already participates in this event")
	}

	e.Participants = append(e.Participants, Participant{
		ID:        uuid.New(),
		EventID:   e.ID,
		UserID:    userID,
		JoinedAt:  now,
		JoinedVia: via,
	})
	e.IncrementVersion()
	e.AddDomainEvent(NewParticipantJoinedEvent(e, userID, via))
	return nil
}

// Leave removes the user from the event. The organizer cannot leave.
func (e *Event) Leave(userID uuid.UUID) error {
	if e.IsOrganizedBy(userID) {
		return shared.NewDomainError("ORGANIZER_CANNOT_LEAVE", "The organizer cannot leave the event")
	}
	idx := e.participantIndex(userID)
	if idx < 0 {
		return shared.NewDomainError("NOT_PARTICIPANT", "User does not participate in this event")
	}
	e.Participants = append(e.Participants[:idx], e.Participants[idx+1:]...)
	e.IncrementVersion()
	e.AddDomainEvent(NewParticipantLeftEvent(e, userID))
	return nil
}

// RemoveParticipant drops another participant from the event
func (e *Event) RemoveParticipant(userID uuid.UUID) error {
	if e.IsOrganizedBy(userID) {
		return shared.NewDomainError("ORGANIZER_CANNOT_LEAVE", "The organizer cannot be removed from the event")
	}
	idx := e.participantIndex(userID)
	if idx < 0 {
		return shared.NotFound("Participant")
	}
	e.Participants = append(e.Participants[:idx], e.Participants[idx+1:]...)
	e.IncrementVersion()
	e.AddDomainEvent(NewParticipantRemovedEvent(e, userID))
	return nil
}

func (e *Event) participantIndex(userID uuid.UUID) int {
	for i, p := range e.Participants {
		if p.UserID == userID {
			return i
		}
	}
	return -1
}

func (e *Event) apply(d EventDetails) {
	e.Title = strings.TrimSpace(d.Title)
	e.Description = d.Description
	e.Location = strings.TrimSpace(d.Location)
	e.StartsAt = d.StartsAt
	e.EndsAt = d.EndsAt
	e.Capacity = d.Capacity
	e.Visibility = d.Visibility
}

func validateDetails(d EventDetails) error {
	title := strings.TrimSpace(d.Title)
	if title == "" || len(title) > 120 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be between 1 and 120 characters")
	}
	if len(d.Description) > 4000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 4000 characters")
	}
	if len(d.Location) > 200 {
		return shared.NewDomainError("INVALID_LOCATION", "Location cannot exceed 200 characters")
	}
	if d.StartsAt.IsZero() {
		return shared.NewDomainError("INVALID_START", "Start time is required")
	}
	if d.EndsAt != nil && !d.EndsAt.After(d.StartsAt) {
		return shared.NewDomainError("INVALID_END", "End time must be after the start time")
	}
	if d.Capacity < 0 || d.Capacity > MaxEventCapacity {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity must be between 0 and 10000")
	}
	if !d.Visibility.IsValid() {
		return shared.NewDomainError("INVALID_VISIBILITY", "Unknown visibility: "+string(d.Visibility))
	}
	return nil
}
