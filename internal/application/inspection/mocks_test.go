package inspection

import (
	"context"
	"time"

	"github.com/dormhub/backend/internal/domain/housing"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/inspection"
	"github.com/dormhub/backend/internal/domain/shared"
	infra "github.com/dormhub/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockInspectionRepository struct {
	mock.Mock
}

func (m *MockInspectionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inspection.Inspection, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inspection.Inspection), args.Error(1)
}

func (m *MockInspectionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inspection.Inspection, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]inspection.Inspection), args.Error(1)
}

func (m *MockInspectionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInspectionRepository) Save(ctx context.Context, i *inspection.Inspection) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockInspectionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

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
	return m.Called(ctx, room).Error(0)
}

func (m *MockRoomRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

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
	return m.Called(ctx, floor).Error(0)
}

func (m *MockFloorRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

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
	return m.Called(ctx, building).Error(0)
}

func (m *MockBuildingRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

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
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) SaveAll(ctx context.Context, users []*identity.User) error {
	return m.Called(ctx, users).Error(0)
}

type MockReportRenderer struct {
	mock.Mock
}

func (m *MockReportRenderer) PDF(ctx context.Context, report *infra.InspectionReport) ([]byte, error) {
	args := m.Called(ctx, report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockReportStorage struct {
	mock.Mock
}

func (m *MockReportStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *MockReportStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockReportStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type MockArchiveSubmitter struct {
	mock.Mock
}

func (m *MockArchiveSubmitter) SubmitReportArchive(tenantID, inspectionID uuid.UUID) error {
	return m.Called(tenantID, inspectionID).Error(0)
}
