package identity

import (
	"context"
	"fmt"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)
	// FindByUsernameAnyTenant is used at login, before the tenant is known
	FindByUsernameAnyTenant(ctx context.Context, username string) (*User, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]User, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
	Save(ctx context.Context, user *User) error
	// SaveAll stores every user in one transaction. A failure stores none of
	// them and is reported as a *BatchWriteError.
	SaveAll(ctx context.Context, users []*User) error
}

// BatchWriteError names the user of a SaveAll batch that could not be written
type BatchWriteError struct {
	Index int
	Err   error
}

func (e *BatchWriteError) Error() string {
	return fmt.Sprintf("user %d: %v", e.Index, e.Err)
}

func (e *BatchWriteError) Unwrap() error {
	return e.Err
}
