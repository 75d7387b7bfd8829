package community

import (
	"time"

	"github.com/dormhub/backend/internal/domain/community"
	"github.com/google/uuid"
)

// CreateEventRequest represents a request to create an event
type CreateEventRequest struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time
	Capacity    int
	Visibility  community.Visibility
}

// UpdateEventRequest represents a request to edit an event
type UpdateEventRequest struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      *time.Time
	Capacity    int
	Visibility  community.Visibility
}

func (r CreateEventRequest) details() community.EventDetails {
	return community.EventDetails(r)
}

func (r UpdateEventRequest) details() community.EventDetails {
	return community.EventDetails(r)
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Location         string     `json:"location,omitempty"`
	StartsAt         time.Time  `json:"starts_at"`
	EndsAt           *time.Time `json:"ends_at,omitempty"`
	Capacity         int        `json:"capacity"`
	Visibility       string     `json:"visibility"`
	OrganizerID      uuid.UUID  `json:"organizer_id"`
	Cancelled        bool       `json:"cancelled"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	ParticipantCount int        `json:"participant_count"`
	SpotsLeft        *int       `json:"spots_left,omitempty"`
	IsParticipant    bool       `json:"is_participant"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Version          int        `json:"version"`
}

// ToEventResponse converts a domain Event as seen by viewerID
func ToEventResponse(e *community.Event, viewerID uuid.UUID) EventResponse {
	resp := EventResponse{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Location:         e.Location,
		StartsAt:         e.StartsAt,
		EndsAt:           e.EndsAt,
		Capacity:         e.Capacity,
		Visibility:       string(e.Visibility),
		OrganizerID:      e.OrganizerID,
		Cancelled:        e.Cancelled,
		CancelledAt:      e.CancelledAt,
		ParticipantCount: e.ParticipantCount(),
		IsParticipant:    e.HasParticipant(viewerID),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
		Version:          e.Version,
	}
	if e.Capacity > 0 {
		left := max(e.Capacity-e.ParticipantCount(), 0)
		resp.SpotsLeft = &left
	}
	return resp
}

// ParticipantResponse represents a participant in API responses
type ParticipantResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`
	JoinedVia string    `json:"joined_via"`
}

// ToParticipantResponses converts the participants of an event
func ToParticipantResponses(participants []community.Participant) []ParticipantResponse {
	out := make([]ParticipantResponse, len(participants))
	for i, p := range participants {
		out[i] = ParticipantResponse{UserID: p.UserID, JoinedAt: p.JoinedAt, JoinedVia: string(p.JoinedVia)}
	}
	return out
}

// InvitationStatus is derived from the revocation and expiry times
type InvitationStatus string

const (
	InvitationActive  InvitationStatus = "active"
	InvitationExpired InvitationStatus = "expired"
	InvitationRevoked InvitationStatus = "revoked"
)

// InvitationResponse represents an invitation in API responses
type InvitationResponse struct {
	ID        uuid.UUID        `json:"id"`
	EventID   uuid.UUID        `json:"event_id"`
	Token     string           `json:"token"`
	Status    InvitationStatus `json:"status"`
	ExpiresAt time.Time        `json:"expires_at"`
	RevokedAt *time.Time       `json:"revoked_at,omitempty"`
	Uses      int              `json:"uses"`
	CreatedBy uuid.UUID        `json:"created_by"`
	CreatedAt time.Time        `json:"created_at"`
}

// ToInvitationResponse converts a domain Invitation at the given time
func ToInvitationResponse(i *community.Invitation, now time.Time) InvitationResponse {
	status := InvitationActive
	switch {
	case i.IsRevoked():
		status = InvitationRevoked
	case i.IsExpired(now):
		status = InvitationExpired
	}
	return InvitationResponse{
		ID:        i.ID,
		EventID:   i.EventID,
		Token:     i.Token,
		Status:    status,
		ExpiresAt: i.ExpiresAt,
		RevokedAt: i.RevokedAt,
		Uses:      i.Uses,
		CreatedBy: i.CreatedBy,
		CreatedAt: i.CreatedAt,
	}
}
