package housing

import (
	"context"
	"errors"
	"testing"

	"github.com/dormhub/backend/internal/domain/housing"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBuildingRepository is a mock implementation of housing.BuildingRepository
type MockBuildingRepository struct {
	mock.Mock
}

func (m *MockBuildingRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*housing.Building, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*housing.Building), args.Error(1)
}

func (m *MockBuildingRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]housing.Building, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]housing.Building), args.Error(1)
}

func (m *MockBuildingRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBuildingRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBuildingRepository) Save(ctx context.Context, building *housing.Building) error {
	args := m.Called(ctx, building)
	return args.Error(0)
}

func (m *MockBuildingRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockFloorRepository is a mock implementation of housing.FloorRepository
type MockFloorRepository struct {
	mock.Mock
}

func (m *MockFloorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*housing.Floor, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*housing.Floor), args.Error(1)
}

func (m *MockFloorRepository) FindByBuilding(ctx context.Context, tenantID, buildingID uuid.UUID) ([]housing.Floor, error) {
	args := m.Called(ctx, tenantID, buildingID)
	return args.Get(0).([]housing.Floor), args.Error(1)
}

func (m *MockFloorRepository) CountByBuilding(ctx context.Context, tenantID, buildingID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, buildingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFloorRepository) ExistsByNumber(ctx context.Context, tenantID, buildingID uuid.UUID, number int) (bool, error) {
	args := m.Called(ctx, tenantID, buildingID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockFloorRepository) Save(ctx context.Context, floor *housing.Floor) error {
	args := m.Called(ctx, floor)
	return args.Error(0)
}

func (m *MockFloorRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockRoomRepository is a mock implementation of housing.RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*housing.Room, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*housing.Room), args.Error(1)
}

func (m *MockRoomRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]housing.Room, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]housing.Room), args.Error(1)
}

func (m *MockRoomRepository) FindByBuilding(ctx context.Context, tenantID, buildingID uuid.UUID) ([]housing.Room, error) {
	args := m.Called(ctx, tenantID, buildingID)
	return args.Get(0).([]housing.Room), args.Error(1)
}

func (m *MockRoomRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]housing.Room, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]housing.Room), args.Error(1)
}

func (m *MockRoomRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRoomRepository) CountByFloor(ctx context.Context, tenantID, floorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, floorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRoomRepository) ExistsByNumber(ctx context.Context, tenantID, buildingID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, buildingID, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoomRepository) Save(ctx context.Context, room *housing.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockPlaceRepository is a mock implementation of housing.PlaceRepository
type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*housing.Place, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*housing.Place), args.Error(1)
}

func (m *MockPlaceRepository) FindByRoom(ctx context.Context, tenantID, roomID uuid.UUID) ([]housing.Place, error) {
	args := m.Called(ctx, tenantID, roomID)
	return args.Get(0).([]housing.Place), args.Error(1)
}

func (m *MockPlaceRepository) FindByRoomIDs(ctx context.Context, tenantID uuid.UUID, roomIDs []uuid.UUID) ([]housing.Place, error) {
	args := m.Called(ctx, tenantID, roomIDs)
	return args.Get(0).([]housing.Place), args.Error(1)
}

func (m *MockPlaceRepository) FindByOccupant(ctx context.Context, tenantID, userID uuid.UUID) (*housing.Place, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*housing.Place), args.Error(1)
}

func (m *MockPlaceRepository) CountByRoom(ctx context.Context, tenantID, roomID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, roomID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlaceRepository) CountOccupiedByRoom(ctx context.Context, tenantID, roomID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, roomID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlaceRepository) ExistsByLabel(ctx context.Context, tenantID, roomID uuid.UUID, label string) (bool, error) {
	args := m.Called(ctx, tenantID, roomID, label)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlaceRepository) Save(ctx context.Context, place *housing.Place) error {
	args := m.Called(ctx, place)
	return args.Error(0)
}

func (m *MockPlaceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockMaintenanceRepository is a mock implementation of housing.MaintenanceRepository
type MockMaintenanceRepository struct {
	mock.Mock
}

func (m *MockMaintenanceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*housing.MaintenanceRequest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*housing.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]housing.MaintenanceRequest, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]housing.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaintenanceRepository) CountOpenByRoom(ctx context.Context, tenantID, roomID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, roomID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaintenanceRepository) CountInProgressByRoom(ctx context.Context, tenantID, roomID, excludeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, roomID, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaintenanceRepository) Save(ctx context.Context, request *housing.MaintenanceRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockMaintenanceRepository) SaveWithRoom(ctx context.Context, request *housing.MaintenanceRequest, room *housing.Room) error {
	args := m.Called(ctx, request, room)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsernameAnyTenant(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]identity.User, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, tenantID, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SaveAll(ctx context.Context, users []*identity.User) error {
	args := m.Called(ctx, users)
	return args.Error(0)
}

// Test fixtures

func staff(tenantID uuid.UUID) identity.Actor {
	return identity.NewActor(tenantID, uuid.New(), identity.RoleManager)
}

func resident(tenantID uuid.UUID) identity.Actor {
	return identity.NewActor(tenantID, uuid.New(), identity.RoleResident)
}

func newTestFloor(t *testing.T, tenantID uuid.UUID) *housing.Floor {
	t.Helper()
	floor, err := housing.NewFloor(tenantID, uuid.New(), 1, "")
	require.NoError(t, err)
	floor.MarkPersisted()
	return floor
}

func newTestRoom(t *testing.T, tenantID uuid.UUID, capacity int) *housing.Room {
	t.Helper()
	room, err := housing.NewRoom(tenantID, newTestFloor(t, tenantID), "101", housing.RoomTypeStandard, capacity)
	require.NoError(t, err)
	room.MarkPersisted()
	room.ClearDomainEvents()
	return room
}

func newTestPlace(t *testing.T, room *housing.Room, label string) *housing.Place {
	t.Helper()
	place, err := housing.NewPlace(room.TenantID, room.ID, label)
	require.NoError(t, err)
	place.MarkPersisted()
	return place
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}
