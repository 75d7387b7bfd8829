package community

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	tokenBytes = 32

	DefaultInvitationTTL = 48 * time.Hour
	MinInvitationTTL     = time.Hour
	MaxInvitationTTL     = 30 * 24 * time.Hour

	// InvitationRetention is how long expired or revoked invitations are kept
	InvitationRetention = 7 * 24 * time.Hour
)

// Invitation grants access to a (usually private) event through a secret token
type Invitation struct {
	shared.BaseEntity
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	EventID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Token     string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null"`
	RevokedAt *time.Time `gorm:"index"`
	Uses      int        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Invitation) TableName() string {
	return "event_invitations"
}

// NewInvitation creates an invitation for the event. A zero ttl means the default.
func NewInvitation(event *Event, createdBy uuid.UUID, ttl time.Duration, now time.Time) (*Invitation, error) {
	if event == nil {
		return nil, shared.NotFound("Event")
	}
	if event.Cancelled || event.HasEnded(now) {
		return nil, shared.NewDomainError("EVENT_CLOSED", "Event is no longer open for participants")
	}
	if ttl == 0 {
		ttl = DefaultInvitationTTL
	}
	if ttl < MinInvitationTTL || ttl > MaxInvitationTTL {
		return nil, shared.NewDomainError("INVALID_TTL", "Invitation lifetime must be between 1 hour and 30 days")
	}
	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	return &Invitation{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   event.TenantID,
		EventID:    event.ID,
		Token:      token,
		ExpiresAt:  now.Add(ttl),
		CreatedBy:  createdBy,
	}, nil
}

// GenerateToken returns a URL-safe random token
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invitation token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// IsRevoked reports whether the invitation was revoked
func (i *Invitation) IsRevoked() bool {
	return i.RevokedAt != nil
}

// IsExpired reports whether the invitation expired at the given time
func (i *Invitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// EnsureUsable checks the invitation can still be redeemed
func (i *Invitation) EnsureUsable(now time.Time) error {
	if i.IsRevoked() {
		return shared.NewDomainError("INVITATION_REVOKED", "Invitation has been revoked")
	}
	if i.IsExpired(now) {
		return shared.NewDomainError("INVITATION_EXPIRED", "Invitation has expired")
	}
	return nil
}

// Redeem counts a successful join
func (i *Invitation) Redeem(now time.Time) error {
	if err := i.EnsureUsable(now); err != nil {
		return err
	}
	i.Uses++
	i.Touch()
	return nil
}

// Revoke disables the invitation
func (i *Invitation) Revoke(now time.Time) error {
	if i.IsRevoked() {
		return shared.NewDomainError("INVITATION_REVOKED", "Invitation has already been revoked")
	}
	i.RevokedAt = &now
	i.Touch()
	return nil
}
