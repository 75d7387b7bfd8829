package handler

import (
	"context"
	"time"

	appcommunity "github.com/dormhub/backend/internal/application/community"
	"github.com/dormhub/backend/internal/domain/community"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventService is the part of community.EventService used over HTTP
type EventService interface {
	Create(ctx context.Context, actor identity.Actor, req appcommunity.CreateEventRequest) (*appcommunity.EventResponse, error)
	GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appcommunity.EventResponse, error)
	List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[appcommunity.EventResponse], error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req appcommunity.UpdateEventRequest) (*appcommunity.EventResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appcommunity.EventResponse, error)
	Join(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appcommunity.EventResponse, error)
	JoinWithToken(ctx context.Context, actor identity.Actor, token string) (*appcommunity.EventResponse, error)
	Leave(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	Participants(ctx context.Context, actor identity.Actor, id uuid.UUID) ([]appcommunity.ParticipantResponse, error)
	RemoveParticipant(ctx context.Context, actor identity.Actor, id, userID uuid.UUID) error
	CreateInvitation(ctx context.Context, actor identity.Actor, eventID uuid.UUID, ttl time.Duration) (*appcommunity.InvitationResponse, error)
	ListInvitations(ctx context.Context, actor identity.Actor, eventID uuid.UUID) ([]appcommunity.InvitationResponse, error)
	RevokeInvitation(ctx context.Context, actor identity.Actor, eventID, invitationID uuid.UUID) (*appcommunity.InvitationResponse, error)
}

// EventHandler handles community events, participation and invitations
type EventHandler struct {
	BaseHandler
	eventService EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (r EventRequest) visibility() community.Visibility {
	if r.Visibility == "" {
		return community.VisibilityPublic
	}
	return community.Visibility(r.Visibility)
}

// Create godoc
// @Summary      Create event
// @Description  The caller becomes the organizer. capacity 0 means unlimited, visibility defaults to public.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body EventRequest true "Event"
// @Success      201 {object} APIResponse[appcommunity.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var req EventRequest
	if !h.BindJSON(c, &req) {
		return
	}

	e, err := h.eventService.Create(c.Request.Context(), a, appcommunity.CreateEventRequest{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
		Visibility:  req.visibility(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, e)
}

// List godoc
// @Summary      List events
// @Description  Private events are only listed for their organizer, their participants and staff
// @Tags         events
// @Produce      json
// @Param        page         query int    false "Page number"
// @Param        page_size    query int    false "Page size (max 100)"
// @Param        search       query string false "Title or location"
// @Param        upcoming     query bool   false "Only events that have not started"
// @Param        organizer_id query string false "Organizer ID"
// @Param        mine         query bool   false "Only events the caller takes part in"
// @Success      200 {object} APIResponse[[]appcommunity.EventResponse]
// @Security     BearerAuth
// @Router       /events [get]
func (h *EventHandler) List(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var q EventListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := listFilter(q.ListRequest)
	if q.Upcoming != nil {
		filter.Filters[community.FilterUpcoming] = *q.Upcoming
	}
	putUUID(filter, community.FilterOrganizerID, q.OrganizerID)
	if q.Mine {
		filter.Filters[community.FilterMine] = true
	}

	page, err := h.eventService.List(c.Request.Context(), a, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetByID godoc
// @Summary      Get event
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID"
// @Success      200 {object} APIResponse[appcommunity.EventResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id} [get]
func (h *EventHandler) GetByID(c *gin.Context) {
	byID(c, &h.BaseHandler, h.eventService.GetByID)
}

// Update godoc
// @Summary      Update event
// @Description  Organizer or admin only. capacity cannot drop below the participant count.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id      path string       true "Event ID"
// @Param        request body EventRequest true "Event"
// @Success      200 {object} APIResponse[appcommunity.EventResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req EventRequest
	byID(c, &h.BaseHandler, func(ctx context.Context, a identity.Actor, id uuid.UUID) (*appcommunity.EventResponse, error) {
		if !h.BindJSON(c, &req) {
			return nil, nil
		}
		return h.eventService.Update(ctx, a, id, appcommunity.UpdateEventRequest{
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			StartsAt:    req.StartsAt,
			EndsAt:      req.EndsAt,
			Capacity:    req.Capacity,
			Visibility:  req.visibility(),
		})
	})
}

// Delete godoc
// @Summary      Delete event
// @Description  Organizer or admin only
// @Tags         events
// @Param        id path string true "Event ID"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	h.withEvent(c, h.eventService.Delete)
}

// Cancel godoc
// @Summary      Cancel event
// @Description  Organizer or admin only. Invitations stop working.
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID"
// @Success      200 {object} APIResponse[appcommunity.EventResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/cancel [post]
func (h *EventHandler) Cancel(c *gin.Context) {
	byID(c, &h.BaseHandler, h.eventService.Cancel)
}

// Join godoc
// @Summary      Join event
// @Description  Public events only. Private events are joined with an invitation token.
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID"
// @Success      200 {object} APIResponse[appcommunity.EventResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/join [post]
func (h *EventHandler) Join(c *gin.Context) {
	byID(c, &h.BaseHandler, h.eventService.Join)
}

// JoinWithToken godoc
// @Summary      Join with invitation
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body JoinWithTokenRequest true "Invitation token"
// @Success      200 {object} APIResponse[appcommunity.EventResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/join [post]
func (h *EventHandler) JoinWithToken(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var req JoinWithTokenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	e, err := h.eventService.JoinWithToken(c.Request.Context(), a, req.Token)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, e)
}

// Leave godoc
// @Summary      Leave event
// @Tags         events
// @Param        id path string true "Event ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/leave [post]
func (h *EventHandler) Leave(c *gin.Context) {
	h.withEvent(c, h.eventService.Leave)
}

// Participants godoc
// @Summary      List participants
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID"
// @Success      200 {object} APIResponse[[]appcommunity.ParticipantResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/participants [get]
func (h *EventHandler) Participants(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	participants, err := h.eventService.Participants(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, participants)
}

// RemoveParticipant godoc
// @Summary      Remove participant
// @Description  Organizer or admin only
// @Tags         events
// @Param        id     path string true "Event ID"
// @Param        userId path string true "User ID"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/participants/{userId} [delete]
func (h *EventHandler) RemoveParticipant(c *gin.Context) {
	userID, ok := h.UUIDParam(c, "userId")
	if !ok {
		return
	}
	h.withEvent(c, func(ctx context.Context, a identity.Actor, id uuid.UUID) error {
		return h.eventService.RemoveParticipant(ctx, a, id, userID)
	})
}

// CreateInvitation godoc
// @Summary      Create invitation
// @Description  Organizer only. Anyone holding the token can join until it expires or is revoked.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id      path string                  true  "Event ID"
// @Param        request body CreateInvitationRequest false "Lifetime"
// @Success      201 {object} APIResponse[appcommunity.InvitationResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/invitations [post]
func (h *EventHandler) CreateInvitation(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}
	var req CreateInvitationRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.eventService.CreateInvitation(c.Request.Context(), a, id, time.Duration(req.TTLHours)*time.Hour)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inv)
}

// ListInvitations godoc
// @Summary      List invitations
// @Description  Organizer only
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID"
// @Success      200 {object} APIResponse[[]appcommunity.InvitationResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/invitations [get]
func (h *EventHandler) ListInvitations(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	invitations, err := h.eventService.ListInvitations(c.Request.Context(), a, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invitations)
}

// RevokeInvitation godoc
// @Summary      Revoke invitation
// @Description  Organizer only
// @Tags         events
// @Produce      json
// @Param        id           path string true "Event ID"
// @Param        invitationId path string true "Invitation ID"
// @Success      200 {object} APIResponse[appcommunity.InvitationResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/invitations/{invitationId} [delete]
func (h *EventHandler) RevokeInvitation(c *gin.Context) {
	byID(c, &h.BaseHandler, func(ctx context.Context, a identity.Actor, id uuid.UUID) (*appcommunity.InvitationResponse, error) {
		invitationID, ok := h.UUIDParam(c, "invitationId")
		if !ok {
			return nil, nil
		}
		return h.eventService.RevokeInvitation(ctx, a, id, invitationID)
	})
}

// withEvent runs op for the :id event and answers 204 on success
func (h *EventHandler) withEvent(c *gin.Context, op func(context.Context, identity.Actor, uuid.UUID) error) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := op(c.Request.Context(), a, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
