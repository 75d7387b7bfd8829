package handler

import (
	"time"

	"github.com/dormhub/backend/internal/interfaces/http/dto"
)

// EventRequest represents the request body for creating or editing an event
type EventRequest struct {
	Title       string     `json:"title" binding:"required,max=120"`
	Description string     `json:"description" binding:"omitempty,max=4000"`
	Location    string     `json:"location" binding:"omitempty,max=200"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at" binding:"omitempty,gtfield=StartsAt"`
	Capacity    int        `json:"capacity" binding:"min=0,max=10000"`
	Visibility  string     `json:"visibility" binding:"omitempty,visibility"`
}

// CreateInvitationRequest sets the invitation lifetime. Zero means 48 hours.
type CreateInvitationRequest struct {
	TTLHours int `json:"ttl_hours" binding:"omitempty,min=1,max=720"`
}

// JoinWithTokenRequest represents the request body of POST /events/join
type JoinWithTokenRequest struct {
	Token string `json:"token" binding:"required,max=128"`
}

// EventListQuery holds the query parameters of GET /events
type EventListQuery struct {
	dto.ListRequest
	Upcoming    *bool  `form:"upcoming"`
	OrganizerID string `form:"organizer_id" binding:"omitempty,uuid"`
	Mine        bool   `form:"mine"`
}
