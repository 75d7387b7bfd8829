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

var errUserAlreadyHoused = shared.NewDomainError("USER_ALREADY_HOUSED", "The user already occupies a place")

// RoomService manages rooms and the places inside them
type RoomService struct {
	roomRepo        housing.RoomRepository
	floorRepo       housing.FloorRepository
	placeRepo       housing.PlaceRepository
	maintenanceRepo housing.MaintenanceRepository
	userRepo        identity.UserRepository
	logger          *zap.Logger
}

// NewRoomService creates a new RoomService
func NewRoomService(
	roomRepo housing.RoomRepository,
	floorRepo housing.FloorRepository,
	placeRepo housing.PlaceRepository,
	maintenanceRepo housing.MaintenanceRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *RoomService {
	return &RoomService{
		roomRepo:        roomRepo,
		floorRepo:       floorRepo,
		placeRepo:       placeRepo,
		maintenanceRepo: maintenanceRepo,
		userRepo:        userRepo,
		logger:          logger,
	}
}

// Create creates a room on a floor of the building
func (s *RoomService) Create(ctx context.Context, actor identity.Actor, req CreateRoomRequest) (*RoomResponse, error) {
	if err := requireStaff(actor, "manage rooms"); err != nil {
		return nil, err
	}

	floor, err := s.floorRepo.FindByIDForTenant(ctx, actor.TenantID, req.FloorID)
	if err != nil {
		return nil, err
	}
	if req.BuildingID != uuid.Nil && floor.BuildingID != req.BuildingID {
		return nil, shared.NewDomainError("FLOOR_NOT_IN_BUILDING", "The floor does not belong to the building")
	}

	exists, err := s.roomRepo.ExistsByNumber(ctx, actor.TenantID, floor.BuildingID, req.Number, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ROOM_NUMBER_EXISTS", "The building already has a room with this number")
	}

	room, err := housing.NewRoom(actor.TenantID, floor, req.Number, req.RoomType, req.Capacity)
	if err != nil {
		return nil, err
	}
	room.Description = req.Description
	room.CreatedBy = &actor.UserID

	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, conflictAs(err, "ROOM_NUMBER_EXISTS", "The building already has a room with this number")
	}

	s.logger.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("number", room.Number),
		zap.String("room_type", string(room.RoomType)))

	resp := ToRoomResponse(room, nil, true)
	return &resp, nil
}

// GetByID retrieves a room together with its places
func (s *RoomService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*RoomResponse, error) {
	room, err := s.roomRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	places, err := s.placeRepo.FindByRoom(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToRoomResponse(room, places, true)
	return &resp, nil
}

// List returns a page of rooms with occupancy counts.
// Filter keys: building_id, floor_id, status, room_type.
func (s *RoomService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[RoomResponse], error) {
	filter = filter.Normalize()

	rooms, err := s.roomRepo.FindAllForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.roomRepo.CountForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(rooms))
	for i := range rooms {
		ids[i] = rooms[i].ID
	}
	places, err := s.placeRepo.FindByRoomIDs(ctx, actor.TenantID, ids)
	if err != nil {
		return nil, err
	}
	byRoom := make(map[uuid.UUID][]housing.Place, len(rooms))
	for _, p := range places {
		byRoom[p.RoomID] = append(byRoom[p.RoomID], p)
	}

	items := make([]RoomResponse, len(rooms))
	for i := range rooms {
		items[i] = ToRoomResponse(&rooms[i], byRoom[rooms[i].ID], false)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update changes a room's number, type, capacity and description
func (s *RoomService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateRoomRequest) (*RoomResponse, error) {
	if err := requireStaff(actor, "manage rooms"); err != nil {
		return nil, err
	}

	room, err := s.roomRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	exists, err := s.roomRepo.ExistsByNumber(ctx, actor.TenantID, room.BuildingID, req.Number, &id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ROOM_NUMBER_EXISTS", "The building already has a room with this number")
	}

	places, err := s.placeRepo.FindByRoom(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := room.Update(req.Number, req.RoomType, req.Capacity, req.Description, len(places)); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, conflictAs(err, "ROOM_NUMBER_EXISTS", "The building already has a room with this number")
	}

	resp := ToRoomResponse(room, places, true)
	return &resp, nil
}

// Close takes a room out of service
func (s *RoomService) Close(ctx context.Context, actor identity.Actor, id uuid.UUID) (*RoomResponse, error) {
	return s.changeStatus(ctx, actor, id, (*housing.Room).Close)
}

// Reopen puts a closed room back into service
func (s *RoomService) Reopen(ctx context.Context, actor identity.Actor, id uuid.UUID) (*RoomResponse, error) {
	return s.changeStatus(ctx, actor, id, (*housing.Room).Reopen)
}

func (s *RoomService) changeStatus(ctx context.Context, actor identity.Actor, id uuid.UUID, apply func(*housing.Room) error) (*RoomResponse, error) {
	if err := requireStaff(actor, "manage rooms"); err != nil {
		return nil, err
	}
	room, err := s.roomRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(room); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("Room status changed", zap.String("room_id", room.ID.String()), zap.String("status", string(room.Status)))
	return s.GetByID(ctx, actor, id)
}

// Delete removes a room without residents or open maintenance. Its free
// places are removed with it.
func (s *RoomService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := requireStaff(actor, "manage rooms"); err != nil {
		return err
	}
	if _, err := s.roomRepo.FindByIDForTenant(ctx, actor.TenantID, id); err != nil {
		return err
	}

	occupied, err := s.placeRepo.CountOccupiedByRoom(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if occupied > 0 {
		return shared.NewDomainError("ROOM_OCCUPIED", "The room still has residents")
	}
	open, err := s.maintenanceRepo.CountOpenByRoom(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return shared.NewDomainError("ROOM_HAS_OPEN_MAINTENANCE", "The room has open maintenance requests")
	}

	if err := s.roomRepo.DeleteForTenant(ctx, actor.TenantID, id); err != nil {
		return err
	}
	s.logger.Info("Room deleted", zap.String("room_id", id.String()))
	return nil
}

// CreatePlace adds a place to a residential room
func (s *RoomService) CreatePlace(ctx context.Context, actor identity.Actor, roomID uuid.UUID, req CreatePlaceRequest) (*PlaceResponse, error) {
	if err := requireStaff(actor, "manage places"); err != nil {
		return nil, err
	}
	room, err := s.roomRepo.FindByIDForTenant(ctx, actor.TenantID, roomID)
	if err != nil {
		return nil, err
	}

	count, err := s.placeRepo.CountByRoom(ctx, actor.TenantID, roomID)
	if err != nil {
		return nil, err
	}
	if err := room.EnsureCanAddPlace(int(count)); err != nil {
		return nil, err
	}

	place, err := housing.NewPlace(actor.TenantID, roomID, req.Label)
	if err != nil {
		return nil, err
	}
	exists, err := s.placeRepo.ExistsByLabel(ctx, actor.TenantID, roomID, place.Label)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("PLACE_LABEL_EXISTS", "The room already has a place with this label")
	}
	place.CreatedBy = &actor.UserID

	if err := s.placeRepo.Save(ctx, place); err != nil {
		return nil, conflictAs(err, "PLACE_LABEL_EXISTS", "The room already has a place with this label")
	}
	resp := ToPlaceResponse(place)
	return &resp, nil
}

// ListPlaces returns the places of a room
func (s *RoomService) ListPlaces(ctx context.Context, actor identity.Actor, roomID uuid.UUID) ([]PlaceResponse, error) {
	if _, err := s.roomRepo.FindByIDForTenant(ctx, actor.TenantID, roomID); err != nil {
		return nil, err
	}
	places, err := s.placeRepo.FindByRoom(ctx, actor.TenantID, roomID)
	if err != nil {
		return nil, err
	}
	return ToPlaceResponses(places), nil
}

// GetPlace retrieves a place
func (s *RoomService) GetPlace(ctx context.Context, actor identity.Actor, id uuid.UUID) (*PlaceResponse, error) {
	place, err := s.placeRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPlaceResponse(place)
	return &resp, nil
}

// AssignPlace moves an active user into a free place
func (s *RoomService) AssignPlace(ctx context.Context, actor identity.Actor, placeID, userID uuid.UUID) (*PlaceResponse, error) {
	if err := requireStaff(actor, "assign places"); err != nil {
		return nil, err
	}

	place, err := s.placeRepo.FindByIDForTenant(ctx, actor.TenantID, placeID)
	if err != nil {
		return nil, err
	}
	room, err := s.roomRepo.FindByIDForTenant(ctx, actor.TenantID, place.RoomID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, actor.TenantID, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("USER_INACTIVE", "Inactive users cannot be assigned a place")
	}

	current, err := s.placeRepo.FindByOccupant(ctx, actor.TenantID, userID)
	switch {
	case err == nil && current != nil:
		return nil, errUserAlreadyHoused
	case err != nil && !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	if err := place.Assign(room, userID); err != nil {
		return nil, err
	}
	if err := s.placeRepo.Save(ctx, place); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errUserAlreadyHoused
		}
		return nil, err
	}

	s.logger.Info("Place assigned",
		zap.String("place_id", place.ID.String()),
		zap.String("room_id", room.ID.String()),
		zap.String("occupant_id", userID.String()))

	resp := ToPlaceResponse(place)
	return &resp, nil
}

// ReleasePlace frees an occupied place
func (s *RoomService) ReleasePlace(ctx context.Context, actor identity.Actor, placeID uuid.UUID) (*PlaceResponse, error) {
	if err := requireStaff(actor, "release places"); err != nil {
		return nil, err
	}
	place, err := s.placeRepo.FindByIDForTenant(ctx, actor.TenantID, placeID)
	if err != nil {
		return nil, err
	}
	if err := place.Release(); err != nil {
		return nil, err
	}
	if err := s.placeRepo.Save(ctx, place); err != nil {
		return nil, err
	}

	s.logger.Info("Place released", zap.String("place_id", place.ID.String()))
	resp := ToPlaceResponse(place)
	return &resp, nil
}

// DeletePlace removes a free place
func (s *RoomService) DeletePlace(ctx context.Context, actor identity.Actor, placeID uuid.UUID) error {
	if err := requireStaff(actor, "manage places"); err != nil {
		return err
	}
	place, err := s.placeRepo.FindByIDForTenant(ctx, actor.TenantID, placeID)
	if err != nil {
		return err
	}
	if place.IsOccupied() {
		return shared.NewDomainError("PLACE_OCCUPIED", "Release the place before deleting it")
	}
	return s.placeRepo.DeleteForTenant(ctx, actor.TenantID, placeID)
}

// MyPlace returns the caller's place and room
func (s *RoomService) MyPlace(ctx context.Context, actor identity.Actor) (*MyPlaceResponse, error) {
	place, err := s.placeRepo.FindByOccupant(ctx, actor.TenantID, actor.UserID)
	if err != nil {
		return nil, err
	}
	room, err := s.roomRepo.FindByIDForTenant(ctx, actor.TenantID, place.RoomID)
	if err != nil {
		return nil, err
	}
	places, err := s.placeRepo.FindByRoom(ctx, actor.TenantID, room.ID)
	if err != nil {
		return nil, err
	}
	return &MyPlaceResponse{
		Place: ToPlaceResponse(place),
		Room:  ToRoomResponse(room, places, false),
	}, nil
}
