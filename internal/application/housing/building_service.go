package housing

import (
	"context"
	"errors"

	"github.com/dormhub/backend/internal/domain/housing"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BuildingService manages buildings and their floors
type BuildingService struct {
	buildingRepo housing.BuildingRepository
	floorRepo    housing.FloorRepository
	roomRepo     housing.RoomRepository
	logger       *zap.Logger
}

// NewBuildingService creates a new BuildingService
func NewBuildingService(
	buildingRepo housing.BuildingRepository,
	floorRepo housing.FloorRepository,
	roomRepo housing.RoomRepository,
	logger *zap.Logger,
) *BuildingService {
	return &BuildingService{
		buildingRepo: buildingRepo,
		floorRepo:    floorRepo,
		roomRepo:     roomRepo,
		logger:       logger,
	}
}

// Create creates a new building
func (s *BuildingService) Create(ctx context.Context, actor identity.Actor, req CreateBuildingRequest) (*BuildingResponse, error) {
	if err := requireStaff(actor, "manage buildings"); err != nil {
		return nil, err
	}

	exists, err := s.buildingRepo.ExistsByName(ctx, actor.TenantID, req.Name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("BUILDING_NAME_EXISTS", "A building with this name already exists")
	}

	building, err := housing.NewBuilding(actor.TenantID, req.Name, req.Address)
	if err != nil {
		return nil, err
	}
	building.Description = req.Description
	building.CreatedBy = &actor.UserID

	if err := s.buildingRepo.Save(ctx, building); err != nil {
		return nil, conflictAs(err, "BUILDING_NAME_EXISTS", "A building with this name already exists")
	}

	s.logger.Info("Building created", zap.String("building_id", building.ID.String()), zap.String("name", building.Name))
	resp := ToBuildingResponse(building)
	return &resp, nil
}

// GetByID retrieves a building
func (s *BuildingService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*BuildingResponse, error) {
	building, err := s.buildingRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBuildingResponse(building)
	return &resp, nil
}

// List returns a page of buildings. Filter keys: is_active.
func (s *BuildingService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[BuildingResponse], error) {
	filter = filter.Normalize()

	buildings, err := s.buildingRepo.FindAllForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.buildingRepo.CountForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]BuildingResponse, len(buildings))
	for i := range buildings {
		items[i] = ToBuildingResponse(&buildings[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update changes a building
func (s *BuildingService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateBuildingRequest) (*BuildingResponse, error) {
	if err := requireStaff(actor, "manage buildings"); err != nil {
		return nil, err
	}

	building, err := s.buildingRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.buildingRepo.ExistsByName(ctx, actor.TenantID, req.Name, &id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("BUILDING_NAME_EXISTS", "A building with this name already exists")
	}

	if err := building.Update(req.Name, req.Address, req.Description); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		building.SetActive(*req.IsActive)
	}
	if err := s.buildingRepo.Save(ctx, building); err != nil {
		return nil, conflictAs(err, "BUILDING_NAME_EXISTS", "A building with this name already exists")
	}

	resp := ToBuildingResponse(building)
	return &resp, nil
}

// Delete removes a building without floors
func (s *BuildingService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := requireStaff(actor, "manage buildings"); err != nil {
		return err
	}
	if _, err := s.buildingRepo.FindByIDForTenant(ctx, actor.TenantID, id); err != nil {
		return err
	}

	floors, err := s.floorRepo.CountByBuilding(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if floors > 0 {
		return shared.NewDomainError("BUILDING_HAS_FLOORS", "Remove the floors of the building first")
	}

	if err := s.buildingRepo.DeleteForTenant(ctx, actor.TenantID, id); err != nil {
		return err
	}
	s.logger.Info("Building deleted", zap.String("building_id", id.String()))
	return nil
}

// CreateFloor adds a floor to a building
func (s *BuildingService) CreateFloor(ctx context.Context, actor identity.Actor, buildingID uuid.UUID, req CreateFloorRequest) (*FloorResponse, error) {
	if err := requireStaff(actor, "manage buildings"); err != nil {
		return nil, err
	}
	if _, err := s.buildingRepo.FindByIDForTenant(ctx, actor.TenantID, buildingID); err != nil {
		return nil, err
	}

	exists, err := s.floorRepo.ExistsByNumber(ctx, actor.TenantID, buildingID, req.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("FLOOR_NUMBER_EXISTS", "The building already has a floor with this number")
	}

	floor, err := housing.NewFloor(actor.TenantID, buildingID, req.Number, req.Description)
	if err != nil {
		return nil, err
	}
	floor.CreatedBy = &actor.UserID
	if err := s.floorRepo.Save(ctx, floor); err != nil {
		return nil, conflictAs(err, "FLOOR_NUMBER_EXISTS", "The building already has a floor with this number")
	}

	resp := ToFloorResponse(floor)
	return &resp, nil
}

// ListFloors returns the floors of a building ordered by number
func (s *BuildingService) ListFloors(ctx context.Context, actor identity.Actor, buildingID uuid.UUID) ([]FloorResponse, error) {
	if _, err := s.buildingRepo.FindByIDForTenant(ctx, actor.TenantID, buildingID); err != nil {
		return nil, err
	}
	floors, err := s.floorRepo.FindByBuilding(ctx, actor.TenantID, buildingID)
	if err != nil {
		return nil, err
	}
	out := make([]FloorResponse, len(floors))
	for i := range floors {
		out[i] = ToFloorResponse(&floors[i])
	}
	return out, nil
}

// GetFloor retrieves a floor
func (s *BuildingService) GetFloor(ctx context.Context, actor identity.Actor, id uuid.UUID) (*FloorResponse, error) {
	floor, err := s.floorRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToFloorResponse(floor)
	return &resp, nil
}

// DeleteFloor removes a floor without rooms
func (s *BuildingService) DeleteFloor(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := requireStaff(actor, "manage buildings"); err != nil {
		return err
	}
	if _, err := s.floorRepo.FindByIDForTenant(ctx, actor.TenantID, id); err != nil {
		return err
	}

	rooms, err := s.roomRepo.CountByFloor(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if rooms > 0 {
		return shared.NewDomainError("FLOOR_HAS_ROOMS", "Remove the rooms of the floor first")
	}
	return s.floorRepo.DeleteForTenant(ctx, actor.TenantID, id)
}

func requireStaff(actor identity.Actor, action string) error {
	if !actor.IsStaff() {
		return shared.Forbidden("Only staff can " + action)
	}
	return nil
}

// conflictAs replaces a unique violation reported by the database with a
// specific domain error
func conflictAs(err error, code, message string) error {
	if errors.Is(err, shared.ErrAlreadyExists) {
		return shared.NewDomainError(code, message)
	}
	return err
}
