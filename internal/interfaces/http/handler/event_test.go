package handler

import (
	"net/http"
	"testing"
	"time"

	appcommunity "github.com/dormhub/backend/internal/application/community"
	"github.com/dormhub/backend/internal/domain/community"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupEventRouter(svc *MockEventService, a identity.Actor) *gin.Engine {
	h := NewEventHandler(svc)
	r := newTestRouter(&a)
	r.POST("/events", h.Create)
	r.GET("/events", h.List)
	r.POST("/events/join", h.JoinWithToken)
	r.GET("/events/:id", h.GetByID)
	r.PUT("/events/:id", h.Update)
	r.DELETE("/events/:id", h.Delete)
	r.POST("/events/:id/cancel", h.Cancel)
	r.POST("/events/:id/join", h.Join)
	r.POST("/events/:id/leave", h.Leave)
	r.GET("/events/:id/participants", h.Participants)
	r.DELETE("/events/:id/participants/:userId", h.RemoveParticipant)
	r.POST("/events/:id/invitations", h.CreateInvitation)
	r.GET("/events/:id/invitations", h.ListInvitations)
	r.DELETE("/events/:id/invitations/:invitationId", h.RevokeInvitation)
	return r
}

func TestEventHandler_Create(t *testing.T) {
	resident := newActor(identity.RoleResident)
	starts := time.Date(2026, 12, 5, 19, 0, 0, 0, time.UTC)

	t.Run("defaults to public", func(t *testing.T) {
		svc := new(MockEventService)
		r := setupEventRouter(svc, resident)
		svc.On("Create", mock.Anything, resident, mock.MatchedBy(func(req appcommunity.CreateEventRequest) bool {
			return req.Title == "Movie night" &&
				req.StartsAt.Equal(starts) &&
				req.EndsAt == nil &&
				req.Capacity == 0 &&
				req.Visibility == community.VisibilityPublic
		})).Return(&appcommunity.EventResponse{ID: uuid.New(), Title: "Movie night", Visibility: "public"}, nil)

		rec := doRequest(r, http.MethodPost, "/events", map[string]any{
			"title":     "Movie night",
			"starts_at": starts,
		})

		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("private with capacity", func(t *testing.T) {
		svc := new(MockEventService)
		r := setupEventRouter(svc, resident)
		svc.On("Create", mock.Anything, resident, mock.MatchedBy(func(req appcommunity.CreateEventRequest) bool {
			return req.Visibility == community.VisibilityPrivate && req.Capacity == 12 && req.EndsAt != nil
		})).Return(&appcommunity.EventResponse{ID: uuid.New()}, nil)

		rec := doRequest(r, http.MethodPost, "/events", map[string]any{
			"title":      "Board games",
			"starts_at":  starts,
			"ends_at":    starts.Add(3 * time.Hour),
			"capacity":   12,
			"visibility": "private",
		})

		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("ends before it starts", func(t *testing.T) {
		svc := new(MockEventService)
		r := setupEventRouter(svc, resident)

		rec := doRequest(r, http.MethodPost, "/events", map[string]any{
			"title":     "Backwards",
			"starts_at": starts,
			"ends_at":   starts.Add(-time.Hour),
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown visibility", func(t *testing.T) {
		svc := new(MockEventService)
		r := setupEventRouter(svc, resident)

		rec := doRequest(r, http.MethodPost, "/events", map[string]any{
			"title":      "Secret",
			"starts_at":  starts,
			"visibility": "hidden",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEventHandler_List(t *testing.T) {
	resident := newActor(identity.RoleResident)
	organizerID := uuid.New()
	svc := new(MockEventService)
	r := setupEventRouter(svc, resident)

	page := shared.NewPaginated([]appcommunity.EventResponse{{Title: "Movie night"}}, 1, 1, 20)
	svc.On("List", mock.Anything, resident, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters[community.FilterUpcoming] == true &&
			f.Filters[community.FilterOrganizerID] == organizerID &&
			f.Filters[community.FilterMine] == true
	})).Return(&page, nil).Once()
	svc.On("List", mock.Anything, resident, mock.MatchedBy(func(f shared.Filter) bool {
		return len(f.Filters) == 0
	})).Return(&page, nil).Once()

	rec := doRequest(r, http.MethodGet, "/events?upcoming=true&mine=true&organizer_id="+organizerID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// a client cannot widen visibility through the query
	rec = doRequest(r, http.MethodGet, "/events?visible_to="+uuid.NewString(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	svc.AssertExpectations(t)
}

func TestEventHandler_GetByID_Private(t *testing.T) {
	resident := newActor(identity.RoleResident)
	id := uuid.New()
	svc := new(MockEventService)
	r := setupEventRouter(svc, resident)
	svc.On("GetByID", mock.Anything, resident, id).
		Return(nil, shared.NewDomainError("EVENT_PRIVATE", "This event is private"))

	rec := doRequest(r, http.MethodGet, "/events/"+id.String(), nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "EVENT_PRIVATE", responseCode(t, rec))
}

func TestEventHandler_Participation(t *testing.T) {
	resident := newActor(identity.RoleResident)
	id := uuid.New()
	base := "/events/" + id.String()
	svc := new(MockEventService)
	r := setupEventRouter(svc, resident)

	svc.On("Join", mock.Anything, resident, id).
		Return(&appcommunity.EventResponse{ID: id, IsParticipant: true}, nil).Once()
	svc.On("Join", mock.Anything, resident, id).
		Return(nil, shared.NewDomainError("ALREADY_PARTICIPANT", "You already take part in this event")).Once()
	svc.On("Leave", mock.Anything, resident, id).Return(nil)
	svc.On("Participants", mock.Anything, resident, id).
		Return([]appcommunity.ParticipantResponse{{UserID: resident.UserID, JoinedVia: "direct"}}, nil)

	rec := doRequest(r, http.MethodPost, base+"/join", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decodeResponse(t, rec).Data.(map[string]any)["is_participant"])

	rec = doRequest(r, http.MethodPost, base+"/join", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(r, http.MethodGet, base+"/participants", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeResponse(t, rec).Data, 1)

	rec = doRequest(r, http.MethodPost, base+"/leave", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	svc.AssertExpectations(t)
}

func TestEventHandler_RemoveParticipant(t *testing.T) {
	organizer := newActor(identity.RoleResident)
	id, userID := uuid.New(), uuid.New()
	svc := new(MockEventService)
	r := setupEventRouter(svc, organizer)
	svc.On("RemoveParticipant", mock.Anything, organizer, id, userID).Return(nil)

	rec := doRequest(r, http.MethodDelete, "/events/"+id.String()+"/participants/"+userID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(r, http.MethodDelete, "/events/"+id.String()+"/participants/me", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertNumberOfCalls(t, "RemoveParticipant", 1)
}

func TestEventHandler_CreateInvitation(t *testing.T) {
	organizer := newActor(identity.RoleResident)
	id := uuid.New()
	path := "/events/" + id.String() + "/invitations"

	tests := []struct {
		name    string
		body    any
		wantTTL time.Duration
	}{
		{"default lifetime", nil, 0},
		{"explicit lifetime", map[string]any{"ttl_hours": 72}, 72 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockEventService)
			r := setupEventRouter(svc, organizer)
			svc.On("CreateInvitation", mock.Anything, organizer, id, tt.wantTTL).
				Return(&appcommunity.InvitationResponse{ID: uuid.New(), EventID: id, Token: "tok", Status: appcommunity.InvitationActive}, nil)

			rec := doRequest(r, http.MethodPost, path, tt.body)

			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			assert.Equal(t, "tok", decodeResponse(t, rec).Data.(map[string]any)["token"])
			svc.AssertExpectations(t)
		})
	}

	t.Run("lifetime out of range", func(t *testing.T) {
		svc := new(MockEventService)
		r := setupEventRouter(svc, organizer)

		rec := doRequest(r, http.MethodPost, path, map[string]any{"ttl_hours": 721})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not the organizer", func(t *testing.T) {
		svc := new(MockEventService)
		r := setupEventRouter(svc, organizer)
		svc.On("CreateInvitation", mock.Anything, organizer, id, time.Duration(0)).
			Return(nil, shared.NewDomainError("NOT_EVENT_ORGANIZER", "Only the organizer can invite"))

		rec := doRequest(r, http.MethodPost, path, nil)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestEventHandler_Invitations(t *testing.T) {
	organizer := newActor(identity.RoleResident)
	id, invitationID := uuid.New(), uuid.New()
	svc := new(MockEventService)
	r := setupEventRouter(svc, organizer)

	svc.On("ListInvitations", mock.Anything, organizer, id).Return([]appcommunity.InvitationResponse{
		{ID: invitationID, Status: appcommunity.InvitationActive},
		{ID: uuid.New(), Status: appcommunity.InvitationExpired},
	}, nil)
	svc.On("RevokeInvitation", mock.Anything, organizer, id, invitationID).
		Return(&appcommunity.InvitationResponse{ID: invitationID, Status: appcommunity.InvitationRevoked}, nil)

	rec := doRequest(r, http.MethodGet, "/events/"+id.String()+"/invitations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeResponse(t, rec).Data, 2)

	rec = doRequest(r, http.MethodDelete, "/events/"+id.String()+"/invitations/"+invitationID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "revoked", decodeResponse(t, rec).Data.(map[string]any)["status"])

	svc.AssertExpectations(t)
}

func TestEventHandler_JoinWithToken(t *testing.T) {
	resident := newActor(identity.RoleResident)
	eventID := uuid.New()

	tests := []struct {
		name       string
		token      string
		err        error
		wantStatus int
	}{
		{"valid", "good", nil, http.StatusOK},
		{"unknown", "nope", shared.NewDomainError("INVITATION_NOT_FOUND", "Invitation not found"), http.StatusNotFound},
		{"expired", "old", shared.NewDomainError("INVITATION_EXPIRED", "Invitation has expired"), http.StatusGone},
		{"revoked", "gone", shared.NewDomainError("INVITATION_REVOKED", "Invitation has been revoked"), http.StatusGone},
		{"full", "full", shared.NewDomainError("EVENT_FULL", "Event is full"), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockEventService)
			r := setupEventRouter(svc, resident)
			if tt.err != nil {
				svc.On("JoinWithToken", mock.Anything, resident, tt.token).Return(nil, tt.err)
			} else {
				svc.On("JoinWithToken", mock.Anything, resident, tt.token).
					Return(&appcommunity.EventResponse{ID: eventID, IsParticipant: true}, nil)
			}

			rec := doRequest(r, http.MethodPost, "/events/join", map[string]any{"token": tt.token})

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}

	t.Run("token required", func(t *testing.T) {
		svc := new(MockEventService)
		r := setupEventRouter(svc, resident)

		rec := doRequest(r, http.MethodPost, "/events/join", map[string]any{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
