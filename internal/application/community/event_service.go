package community

import (
	"context"
	"errors"
	"time"

	"github.com/dormhub/backend/internal/domain/community"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/dormhub/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errNotOrganizer       = shared.NewDomainError("NOT_EVENT_ORGANIZER", "Only the organizer can do this")
	errEventPrivate       = shared.NewDomainError("EVENT_PRIVATE", "This event is private")
	errInvitationNotFound = shared.NewDomainError("INVITATION_NOT_FOUND", "Invitation not found")
)

// EventService manages community events, their participants and invitations
type EventService struct {
	eventRepo      community.EventRepository
	invitationRepo community.InvitationRepository
	metrics        *telemetry.DormMetrics
	retention      time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo community.EventRepository,
	invitationRepo community.InvitationRepository,
	logger *zap.Logger,
) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		eventRepo:      eventRepo,
		invitationRepo: invitationRepo,
		retention:      community.InvitationRetention,
		logger:         logger,
		now:            time.Now,
	}
}

// WithMetrics sets the business metrics recorder
func (s *EventService) WithMetrics(metrics *telemetry.DormMetrics) *EventService {
	s.metrics = metrics
	return s
}

// WithInvitationRetention overrides how long dead invitations are kept
func (s *EventService) WithInvitationRetention(d time.Duration) *EventService {
	if d > 0 {
		s.retention = d
	}
	return s
}

// Create creates an event organized by the caller
func (s *EventService) Create(ctx context.Context, actor identity.Actor, req CreateEventRequest) (*EventResponse, error) {
	e, err := community.NewEvent(actor.TenantID, actor.UserID, req.details(), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("Event created",
		zap.String("event_id", e.ID.String()),
		zap.String("visibility", string(e.Visibility)),
		zap.Time("starts_at", e.StartsAt))

	resp := ToEventResponse(e, actor.UserID)
	return &resp, nil
}

// GetByID retrieves an event. Private events are only shown to their
// participants and to staff.
func (s *EventService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*EventResponse, error) {
	e, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToEventResponse(e, actor.UserID)
	return &resp, nil
}

// List returns a page of events ordered by start time.
// Filter keys: upcoming (bool), organizer_id, mine (bool).
func (s *EventService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[EventResponse], error) {
	filter = s.scopeFilter(actor, filter.Normalize())

	events, err := s.eventRepo.FindAllForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.eventRepo.CountForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]EventResponse, len(events))
	for i := range events {
		items[i] = ToEventResponse(&events[i], actor.UserID)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// scopeFilter turns mine=true into the caller's ID and hides other people's
// private events from non-staff callers
func (s *EventService) scopeFilter(actor identity.Actor, filter shared.Filter) shared.Filter {
	scoped := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any, len(filter.Filters)+1),
	}
	for k, v := range filter.Filters {
		if k == community.FilterMine || k == community.FilterVisibleTo {
			continue
		}
		scoped.Filters[k] = v
	}
	if mine, ok := filter.Filters[community.FilterMine].(bool); ok && mine {
		scoped.Filters[community.FilterMine] = actor.UserID
	}
	if !actor.IsStaff() {
		scoped.Filters[community.FilterVisibleTo] = actor.UserID
	}
	return scoped
}

// Update edits an event. Only the organizer or an admin may do this.
func (s *EventService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	e, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := e.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, e); err != nil {
		return nil, err
	}
	resp := ToEventResponse(e, actor.UserID)
	return &resp, nil
}

// Delete removes an event together with its participants and invitations
func (s *EventService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if _, err := s.loadManaged(ctx, actor, id); err != nil {
		return err
	}
	if err := s.eventRepo.DeleteForTenant(ctx, actor.TenantID, id); err != nil {
		return err
	}
	s.logger.Info("Event deleted", zap.String("event_id", id.String()))
	return nil
}

// Cancel calls an event off
func (s *EventService) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID) (*EventResponse, error) {
	e, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := e.Cancel(s.now()); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("Event cancelled",
		zap.String("event_id", e.ID.String()),
		zap.Int("participants", e.ParticipantCount()))
	resp := ToEventResponse(e, actor.UserID)
	return &resp, nil
}

// Join adds the caller to a public event
func (s *EventService) Join(ctx context.Context, actor identity.Actor, id uuid.UUID) (*EventResponse, error) {
	e, err := s.eventRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := e.Join(actor.UserID, community.JoinedDirectly, s.now()); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, e); err != nil {
		return nil, err
	}

	s.metrics.ParticipantJoined(ctx, actor.TenantID, string(community.JoinedDirectly))
	resp := ToEventResponse(e, actor.UserID)
	return &resp, nil
}

// JoinWithToken redeems an invitation token and adds the caller to its event
func (s *EventService) JoinWithToken(ctx context.Context, actor identity.Actor, token string) (*EventResponse, error) {
	inv, err := s.invitationRepo.FindByToken(ctx, actor.TenantID, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvitationNotFound
		}
		return nil, err
	}
	now := s.now()
	if err := inv.EnsureUsable(now); err != nil {
		return nil, err
	}

	e, err := s.eventRepo.FindByIDForTenant(ctx, actor.TenantID, inv.EventID)
	if err != nil {
		return nil, err
	}
	if err := e.Join(actor.UserID, community.JoinedByInvitation, now); err != nil {
		return nil, err
	}
	if err := inv.Redeem(now); err != nil {
		return nil, err
	}
	if err := s.eventRepo.SaveWithInvitation(ctx, e, inv); err != nil {
		return nil, err
	}

	s.metrics.ParticipantJoined(ctx, actor.TenantID, string(community.JoinedByInvitation))
	s.logger.Info("Invitation redeemed",
		zap.String("event_id", e.ID.String()),
		zap.String("invitation_id", inv.ID.String()),
		zap.Int("uses", inv.Uses))

	resp := ToEventResponse(e, actor.UserID)
	return &resp, nil
}

// Leave removes the caller from an event
func (s *EventService) Leave(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	e, err := s.eventRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if err := e.Leave(actor.UserID); err != nil {
		return err
	}
	return s.eventRepo.Save(ctx, e)
}

// Participants lists who attends an event
func (s *EventService) Participants(ctx context.Context, actor identity.Actor, id uuid.UUID) ([]ParticipantResponse, error) {
	e, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ToParticipantResponses(e.Participants), nil
}

// RemoveParticipant drops a participant. Only the organizer or an admin may do this.
func (s *EventService) RemoveParticipant(ctx context.Context, actor identity.Actor, id, userID uuid.UUID) error {
	e, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := e.RemoveParticipant(userID); err != nil {
		return err
	}
	if err := s.eventRepo.Save(ctx, e); err != nil {
		return err
	}
	s.logger.Info("Participant removed",
		zap.String("event_id", id.String()),
		zap.String("user_id", userID.String()))
	return nil
}

// CreateInvitation issues a new invitation token. A zero ttl uses the default lifetime.
func (s *EventService) CreateInvitation(ctx context.Context, actor identity.Actor, eventID uuid.UUID, ttl time.Duration) (*InvitationResponse, error) {
	e, err := s.loadOrganized(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	inv, err := community.NewInvitation(e, actor.UserID, ttl, now)
	if err != nil {
		return nil, err
	}
	if err := s.invitationRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.metrics.InvitationCreated(ctx, actor.TenantID)
	s.logger.Info("Invitation created",
		zap.String("event_id", e.ID.String()),
		zap.String("invitation_id", inv.ID.String()),
		zap.Time("expires_at", inv.ExpiresAt))

	resp := ToInvitationResponse(inv, now)
	return &resp, nil
}

// ListInvitations returns the invitations of an event
func (s *EventService) ListInvitations(ctx context.Context, actor identity.Actor, eventID uuid.UUID) ([]InvitationResponse, error) {
	if _, err := s.loadOrganized(ctx, actor, eventID); err != nil {
		return nil, err
	}
	invitations, err := s.invitationRepo.FindByEvent(ctx, actor.TenantID, eventID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]InvitationResponse, len(invitations))
	for i := range invitations {
		out[i] = ToInvitationResponse(&invitations[i], now)
	}
	return out, nil
}

// RevokeInvitation disables an invitation so its token can no longer be redeemed
func (s *EventService) RevokeInvitation(ctx context.Context, actor identity.Actor, eventID, invitationID uuid.UUID) (*InvitationResponse, error) {
	if _, err := s.loadOrganized(ctx, actor, eventID); err != nil {
		return nil, err
	}
	inv, err := s.invitationRepo.FindByIDForTenant(ctx, actor.TenantID, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.EventID != eventID {
		return nil, shared.NotFound("Invitation")
	}
	now := s.now()
	if err := inv.Revoke(now); err != nil {
		return nil, err
	}
	if err := s.invitationRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("Invitation revoked", zap.String("invitation_id", inv.ID.String()))
	resp := ToInvitationResponse(inv, now)
	return &resp, nil
}

// PurgeStaleInvitations deletes invitations that expired or were revoked
// more than the retention period ago
func (s *EventService) PurgeStaleInvitations(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	return s.invitationRepo.DeleteStale(ctx, tenantID, cutoff)
}

// ListTenantIDs returns the tenants that have invitations to clean up
func (s *EventService) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.invitationRepo.ListTenantIDs(ctx)
}

func (s *EventService) loadVisible(ctx context.Context, actor identity.Actor, id uuid.UUID) (*community.Event, error) {
	e, err := s.eventRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !e.IsVisibleTo(actor.UserID) {
		return nil, errEventPrivate
	}
	return e, nil
}

// loadManaged allows the organizer and admins
func (s *EventService) loadManaged(ctx context.Context, actor identity.Actor, id uuid.UUID) (*community.Event, error) {
	e, err := s.eventRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if !e.IsOrganizedBy(actor.UserID) && !actor.IsAdmin() {
		return nil, errNotOrganizer
	}
	return e, nil
}

// loadOrganized allows the organizer only
func (s *EventService) loadOrganized(ctx context.Context, actor identity.Actor, id uuid.UUID) (*community.Event, error) {
	e, err := s.eventRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if !e.IsOrganizedBy(actor.UserID) {
		return nil, errNotOrganizer
	}
	return e, nil
}
