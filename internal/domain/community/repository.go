package community

import (
	"context"
	"time"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter keys understood by EventRepository.FindAllForTenant
const (
	FilterUpcoming    = "upcoming"     // bool: only events that have not started
	FilterOrganizerID = "organizer_id" // uuid.UUID
	FilterMine        = "mine"         // uuid.UUID: events the user participates in
	FilterVisibleTo   = "visible_to"   // uuid.UUID: public events plus the user's own
)

// EventRepository persists events together with their participants
type EventRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Event, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Event, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// Save writes the event, syncs participants and stores pending domain events
	Save(ctx context.Context, event *Event) error
	// SaveWithInvitation saves the event and the redeemed invitation atomically
	SaveWithInvitation(ctx context.Context, event *Event, invitation *Invitation) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// InvitationRepository persists invitation tokens
type InvitationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invitation, error)
	FindByToken(ctx context.Context, tenantID uuid.UUID, token string) (*Invitation, error)
	FindByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]Invitation, error)
	Save(ctx context.Context, invitation *Invitation) error
	// DeleteStale removes invitations that expired or were revoked before the cutoff
	DeleteStale(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) (int64, error)
	// ListTenantIDs returns every tenant that owns at least one invitation
	ListTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}
