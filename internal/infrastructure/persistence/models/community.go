package models

import (
	"time"

	"github.com/dormhub/backend/internal/domain/community"
	"github.com/google/uuid"
)

// EventModel is the persistence model for the community Event aggregate
type EventModel struct {
	TenantAggregateModel
	Title        string               `gorm:"type:varchar(120);not null"`
	Description  string               `gorm:"type:text"`
	Location     string               `gorm:"type:varchar(200)"`
	StartsAt     time.Time            `gorm:"not null;index"`
	EndsAt       *time.Time
	Capacity     int                  `gorm:"not null;default:0"`
	Visibility   community.Visibility `gorm:"type:varchar(20);not null;default:'public'"`
	OrganizerID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Cancelled    bool                 `gorm:"not null;default:false"`
	CancelledAt  *time.Time
	Participants []ParticipantModel `gorm:"foreignKey:EventID;references:ID"`
}

// TableName returns the table name for GORM
func (EventModel) TableName() string {
	return "events"
}

// ToDomain converts the model to a domain Event
func (m *EventModel) ToDomain() *community.Event {
	e := &community.Event{
		Title:        m.Title,
		Description:  m.Description,
		Location:     m.Location,
		StartsAt:     m.StartsAt,
		EndsAt:       m.EndsAt,
		Capacity:     m.Capacity,
		Visibility:   m.Visibility,
		OrganizerID:  m.OrganizerID,
		Cancelled:    m.Cancelled,
		CancelledAt:  m.CancelledAt,
		Participants: make([]community.Participant, len(m.Participants)),
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	for i, p := range m.Participants {
		e.Participants[i] = community.Participant{
			ID:        p.ID,
			EventID:   p.EventID,
			UserID:    p.UserID,
			JoinedAt:  p.JoinedAt,
			JoinedVia: p.JoinedVia,
		}
	}
	return e
}

// EventModelFromDomain converts a domain Event to its model
func EventModelFromDomain(e *community.Event) *EventModel {
	m := &EventModel{
		Title:        e.Title,
		Description:  e.Description,
		Location:     e.Location,
		StartsAt:     e.StartsAt,
		EndsAt:       e.EndsAt,
		Capacity:     e.Capacity,
		Visibility:   e.Visibility,
		OrganizerID:  e.OrganizerID,
		Cancelled:    e.Cancelled,
		CancelledAt:  e.CancelledAt,
		Participants: make([]ParticipantModel, len(e.Participants)),
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	for i, p := range e.Participants {
		m.Participants[i] = ParticipantModel{
			ID:        p.ID,
			EventID:   e.ID,
			UserID:    p.UserID,
			JoinedAt:  p.JoinedAt,
			JoinedVia: p.JoinedVia,
		}
	}
	return m
}

// ParticipantModel is an attendee row of an event
type ParticipantModel struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_event_participant,priority:1"`
	UserID    uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_event_participant,priority:2;index"`
	JoinedAt  time.Time            `gorm:"not null"`
	JoinedVia community.JoinMethod `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ParticipantModel) TableName() string {
	return "event_participants"
}
