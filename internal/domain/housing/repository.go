package housing

import (
	"context"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BuildingRepository defines the interface for building persistence
type BuildingRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Building, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Building, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// ExistsByName checks name uniqueness, ignoring excludeID when set
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, building *Building) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// FloorRepository defines the interface for floor persistence
type FloorRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Floor, error)
	FindByBuilding(ctx context.Context, tenantID, buildingID uuid.UUID) ([]Floor, error)
	CountByBuilding(ctx context.Context, tenantID, buildingID uuid.UUID) (int64, error)
	ExistsByNumber(ctx context.Context, tenantID, buildingID uuid.UUID, number int) (bool, error)
	Save(ctx context.Context, floor *Floor) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// RoomRepository defines the interface for room persistence.
// Supported filter keys: building_id, floor_id, status, room_type.
type RoomRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Room, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Room, error)
	FindByBuilding(ctx context.Context, tenantID, buildingID uuid.UUID) ([]Room, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Room, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	CountByFloor(ctx context.Context, tenantID, floorID uuid.UUID) (int64, error)
	ExistsByNumber(ctx context.Context, tenantID, buildingID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, room *Room) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PlaceRepository defines the interface for place persistence
type PlaceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Place, error)
	FindByRoom(ctx context.Context, tenantID, roomID uuid.UUID) ([]Place, error)
	FindByRoomIDs(ctx context.Context, tenantID uuid.UUID, roomIDs []uuid.UUID) ([]Place, error)
	FindByOccupant(ctx context.Context, tenantID, userID uuid.UUID) (*Place, error)
	CountByRoom(ctx context.Context, tenantID, roomID uuid.UUID) (int64, error)
	CountOccupiedByRoom(ctx context.Context, tenantID, roomID uuid.UUID) (int64, error)
	ExistsByLabel(ctx context.Context, tenantID, roomID uuid.UUID, label string) (bool, error)
	Save(ctx context.Context, place *Place) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// MaintenanceRepository defines the interface for maintenance request persistence.
// Supported filter keys: room_id, status, priority, requester_id.
type MaintenanceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*MaintenanceRequest, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]MaintenanceRequest, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// CountOpenByRoom counts requested and in-progress requests of a room
	CountOpenByRoom(ctx context.Context, tenantID, roomID uuid.UUID) (int64, error)
	// CountInProgressByRoom counts in-progress requests of a room other than excludeID
	CountInProgressByRoom(ctx context.Context, tenantID, roomID, excludeID uuid.UUID) (int64, error)
	Save(ctx context.Context, request *MaintenanceRequest) error
	// SaveWithRoom persists the request and the affected room atomically
	SaveWithRoom(ctx context.Context, request *MaintenanceRequest, room *Room) error
}
