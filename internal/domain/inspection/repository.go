package inspection

import (
	"context"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for inspection persistence.
// Supported filter keys: status, inspector_id, scheduled_from, scheduled_to.
type Repository interface {
	// FindByIDForTenant loads the inspection together with its rooms
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Inspection, error)
	// FindAllForTenant loads inspections together with their rooms
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Inspection, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// Save persists the inspection, replaces its room lines and writes pending
	// domain events to the outbox. Updates are guarded by the version number.
	Save(ctx context.Context, inspection *Inspection) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
