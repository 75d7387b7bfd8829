package handler

import (
	"context"
	"time"

	appcommunity "github.com/dormhub/backend/internal/application/community"
	appevent "github.com/dormhub/backend/internal/application/event"
	apphousing "github.com/dormhub/backend/internal/application/housing"
	appidentity "github.com/dormhub/backend/internal/application/identity"
	appinspection "github.com/dormhub/backend/internal/application/inspection"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// result unpacks a (*T, error) pair recorded on a mock
func result[T any](args mock.Arguments) (*T, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func list[T any](args mock.Arguments) ([]T, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, input appidentity.LoginInput) (*appidentity.LoginResult, error) {
	return result[appidentity.LoginResult](m.Called(ctx, input))
}

func (m *MockAuthService) RefreshToken(ctx context.Context, input appidentity.RefreshTokenInput) (*appidentity.TokenResult, error) {
	return result[appidentity.TokenResult](m.Called(ctx, input))
}

func (m *MockAuthService) Logout(ctx context.Context, input appidentity.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockAuthService) GetCurrentUser(ctx context.Context, actor identity.Actor) (*appidentity.UserDTO, error) {
	return result[appidentity.UserDTO](m.Called(ctx, actor))
}

func (m *MockAuthService) ChangePassword(ctx context.Context, actor identity.Actor, input appidentity.ChangePasswordInput) error {
	return m.Called(ctx, actor, input).Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, actor identity.Actor, input appidentity.CreateUserInput) (*appidentity.UserDTO, error) {
	return result[appidentity.UserDTO](m.Called(ctx, actor, input))
}

func (m *MockUserService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appidentity.UserDTO, error) {
	return result[appidentity.UserDTO](m.Called(ctx, actor, id))
}

func (m *MockUserService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[appidentity.UserDTO], error) {
	return result[shared.Paginated[appidentity.UserDTO]](m.Called(ctx, actor, filter))
}

func (m *MockUserService) ChangeRole(ctx context.Context, actor identity.Actor, id uuid.UUID, role identity.Role) (*appidentity.UserDTO, error) {
	return result[appidentity.UserDTO](m.Called(ctx, actor, id, role))
}

func (m *MockUserService) Activate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appidentity.UserDTO, error) {
	return result[appidentity.UserDTO](m.Called(ctx, actor, id))
}

func (m *MockUserService) Deactivate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appidentity.UserDTO, error) {
	return result[appidentity.UserDTO](m.Called(ctx, actor, id))
}

func (m *MockUserService) Import(ctx context.Context, actor identity.Actor, input appidentity.ImportUsersInput) (*appidentity.ImportUsersResult, error) {
	return result[appidentity.ImportUsersResult](m.Called(ctx, actor, input))
}

type MockBuildingService struct {
	mock.Mock
}

func (m *MockBuildingService) Create(ctx context.Context, actor identity.Actor, req apphousing.CreateBuildingRequest) (*apphousing.BuildingResponse, error) {
	return result[apphousing.BuildingResponse](m.Called(ctx, actor, req))
}

func (m *MockBuildingService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.BuildingResponse, error) {
	return result[apphousing.BuildingResponse](m.Called(ctx, actor, id))
}

func (m *MockBuildingService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[apphousing.BuildingResponse], error) {
	return result[shared.Paginated[apphousing.BuildingResponse]](m.Called(ctx, actor, filter))
}

func (m *MockBuildingService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req apphousing.UpdateBuildingRequest) (*apphousing.BuildingResponse, error) {
	return result[apphousing.BuildingResponse](m.Called(ctx, actor, id, req))
}

func (m *MockBuildingService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockBuildingService) CreateFloor(ctx context.Context, actor identity.Actor, buildingID uuid.UUID, req apphousing.CreateFloorRequest) (*apphousing.FloorResponse, error) {
	return result[apphousing.FloorResponse](m.Called(ctx, actor, buildingID, req))
}

func (m *MockBuildingService) ListFloors(ctx context.Context, actor identity.Actor, buildingID uuid.UUID) ([]apphousing.FloorResponse, error) {
	return list[apphousing.FloorResponse](m.Called(ctx, actor, buildingID))
}

func (m *MockBuildingService) GetFloor(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.FloorResponse, error) {
	return result[apphousing.FloorResponse](m.Called(ctx, actor, id))
}

func (m *MockBuildingService) DeleteFloor(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockRoomService struct {
	mock.Mock
}

func (m *MockRoomService) Create(ctx context.Context, actor identity.Actor, req apphousing.CreateRoomRequest) (*apphousing.RoomResponse, error) {
	return result[apphousing.RoomResponse](m.Called(ctx, actor, req))
}

func (m *MockRoomService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.RoomResponse, error) {
	return result[apphousing.RoomResponse](m.Called(ctx, actor, id))
}

func (m *MockRoomService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[apphousing.RoomResponse], error) {
	return result[shared.Paginated[apphousing.RoomResponse]](m.Called(ctx, actor, filter))
}

func (m *MockRoomService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req apphousing.UpdateRoomRequest) (*apphousing.RoomResponse, error) {
	return result[apphousing.RoomResponse](m.Called(ctx, actor, id, req))
}

func (m *MockRoomService) Close(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.RoomResponse, error) {
	return result[apphousing.RoomResponse](m.Called(ctx, actor, id))
}

func (m *MockRoomService) Reopen(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.RoomResponse, error) {
	return result[apphousing.RoomResponse](m.Called(ctx, actor, id))
}

func (m *MockRoomService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockRoomService) CreatePlace(ctx context.Context, actor identity.Actor, roomID uuid.UUID, req apphousing.CreatePlaceRequest) (*apphousing.PlaceResponse, error) {
	return result[apphousing.PlaceResponse](m.Called(ctx, actor, roomID, req))
}

func (m *MockRoomService) ListPlaces(ctx context.Context, actor identity.Actor, roomID uuid.UUID) ([]apphousing.PlaceResponse, error) {
	return list[apphousing.PlaceResponse](m.Called(ctx, actor, roomID))
}

func (m *MockRoomService) GetPlace(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.PlaceResponse, error) {
	return result[apphousing.PlaceResponse](m.Called(ctx, actor, id))
}

func (m *MockRoomService) AssignPlace(ctx context.Context, actor identity.Actor, placeID, userID uuid.UUID) (*apphousing.PlaceResponse, error) {
	return result[apphousing.PlaceResponse](m.Called(ctx, actor, placeID, userID))
}

func (m *MockRoomService) ReleasePlace(ctx context.Context, actor identity.Actor, placeID uuid.UUID) (*apphousing.PlaceResponse, error) {
	return result[apphousing.PlaceResponse](m.Called(ctx, actor, placeID))
}

func (m *MockRoomService) DeletePlace(ctx context.Context, actor identity.Actor, placeID uuid.UUID) error {
	return m.Called(ctx, actor, placeID).Error(0)
}

func (m *MockRoomService) MyPlace(ctx context.Context, actor identity.Actor) (*apphousing.MyPlaceResponse, error) {
	return result[apphousing.MyPlaceResponse](m.Called(ctx, actor))
}

type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) Create(ctx context.Context, actor identity.Actor, req apphousing.CreateMaintenanceRequest) (*apphousing.MaintenanceResponse, error) {
	return result[apphousing.MaintenanceResponse](m.Called(ctx, actor, req))
}

func (m *MockMaintenanceService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*apphousing.MaintenanceResponse, error) {
	return result[apphousing.MaintenanceResponse](m.Called(ctx, actor, id))
}

func (m *MockMaintenanceService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[apphousing.MaintenanceResponse], error) {
	return result[shared.Paginated[apphousing.MaintenanceResponse]](m.Called(ctx, actor, filter))
}

func (m *MockMaintenanceService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req apphousing.UpdateMaintenanceRequest) (*apphousing.MaintenanceResponse, error) {
	return result[apphousing.MaintenanceResponse](m.Called(ctx, actor, id, req))
}

func (m *MockMaintenanceService) Start(ctx context.Context, actor identity.Actor, id uuid.UUID, assignee string) (*apphousing.MaintenanceResponse, error) {
	return result[apphousing.MaintenanceResponse](m.Called(ctx, actor, id, assignee))
}

func (m *MockMaintenanceService) Complete(ctx context.Context, actor identity.Actor, id uuid.UUID, resolution string) (*apphousing.MaintenanceResponse, error) {
	return result[apphousing.MaintenanceResponse](m.Called(ctx, actor, id, resolution))
}

func (m *MockMaintenanceService) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID, reason string) (*apphousing.MaintenanceResponse, error) {
	return result[apphousing.MaintenanceResponse](m.Called(ctx, actor, id, reason))
}

type MockInspectionService struct {
	mock.Mock
}

func (m *MockInspectionService) Create(ctx context.Context, actor identity.Actor, req appinspection.CreateInspectionRequest) (*appinspection.InspectionResponse, error) {
	return result[appinspection.InspectionResponse](m.Called(ctx, actor, req))
}

func (m *MockInspectionService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appinspection.InspectionResponse, error) {
	return result[appinspection.InspectionResponse](m.Called(ctx, actor, id))
}

func (m *MockInspectionService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[appinspection.InspectionResponse], error) {
	return result[shared.Paginated[appinspection.InspectionResponse]](m.Called(ctx, actor, filter))
}

func (m *MockInspectionService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req appinspection.UpdateInspectionRequest) (*appinspection.InspectionResponse, error) {
	return result[appinspection.InspectionResponse](m.Called(ctx, actor, id, req))
}

func (m *MockInspectionService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockInspectionService) Start(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appinspection.InspectionResponse, error) {
	return result[appinspection.InspectionResponse](m.Called(ctx, actor, id))
}

func (m *MockInspectionService) SetRoomStatus(ctx context.Context, actor identity.Actor, id, roomID uuid.UUID, req appinspection.SetRoomStatusRequest) (*appinspection.InspectionResponse, error) {
	return result[appinspection.InspectionResponse](m.Called(ctx, actor, id, roomID, req))
}

func (m *MockInspectionService) Complete(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appinspection.InspectionResponse, error) {
	return result[appinspection.InspectionResponse](m.Called(ctx, actor, id))
}

func (m *MockInspectionService) RenderReport(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appinspection.ReportFile, error) {
	return result[appinspection.ReportFile](m.Called(ctx, actor, id))
}

func (m *MockInspectionService) ReportURL(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appinspection.ReportURLResponse, error) {
	return result[appinspection.ReportURLResponse](m.Called(ctx, actor, id))
}

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Create(ctx context.Context, actor identity.Actor, req appcommunity.CreateEventRequest) (*appcommunity.EventResponse, error) {
	return result[appcommunity.EventResponse](m.Called(ctx, actor, req))
}

func (m *MockEventService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appcommunity.EventResponse, error) {
	return result[appcommunity.EventResponse](m.Called(ctx, actor, id))
}

func (m *MockEventService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[appcommunity.EventResponse], error) {
	return result[shared.Paginated[appcommunity.EventResponse]](m.Called(ctx, actor, filter))
}

func (m *MockEventService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req appcommunity.UpdateEventRequest) (*appcommunity.EventResponse, error) {
	return result[appcommunity.EventResponse](m.Called(ctx, actor, id, req))
}

func (m *MockEventService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockEventService) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appcommunity.EventResponse, error) {
	return result[appcommunity.EventResponse](m.Called(ctx, actor, id))
}

func (m *MockEventService) Join(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appcommunity.EventResponse, error) {
	return result[appcommunity.EventResponse](m.Called(ctx, actor, id))
}

func (m *MockEventService) JoinWithToken(ctx context.Context, actor identity.Actor, token string) (*appcommunity.EventResponse, error) {
	return result[appcommunity.EventResponse](m.Called(ctx, actor, token))
}

func (m *MockEventService) Leave(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockEventService) Participants(ctx context.Context, actor identity.Actor, id uuid.UUID) ([]appcommunity.ParticipantResponse, error) {
	return list[appcommunity.ParticipantResponse](m.Called(ctx, actor, id))
}

func (m *MockEventService) RemoveParticipant(ctx context.Context, actor identity.Actor, id, userID uuid.UUID) error {
	return m.Called(ctx, actor, id, userID).Error(0)
}

func (m *MockEventService) CreateInvitation(ctx context.Context, actor identity.Actor, eventID uuid.UUID, ttl time.Duration) (*appcommunity.InvitationResponse, error) {
	return result[appcommunity.InvitationResponse](m.Called(ctx, actor, eventID, ttl))
}

func (m *MockEventService) ListInvitations(ctx context.Context, actor identity.Actor, eventID uuid.UUID) ([]appcommunity.InvitationResponse, error) {
	return list[appcommunity.InvitationResponse](m.Called(ctx, actor, eventID))
}

func (m *MockEventService) RevokeInvitation(ctx context.Context, actor identity.Actor, eventID, invitationID uuid.UUID) (*appcommunity.InvitationResponse, error) {
	return result[appcommunity.InvitationResponse](m.Called(ctx, actor, eventID, invitationID))
}

type MockOutboxService struct {
	mock.Mock
}

func (m *MockOutboxService) Stats(ctx context.Context, actor identity.Actor) (*appevent.OutboxStatsResponse, error) {
	return result[appevent.OutboxStatsResponse](m.Called(ctx, actor))
}

func (m *MockOutboxService) ListDead(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[appevent.OutboxEntryResponse], error) {
	return result[shared.Paginated[appevent.OutboxEntryResponse]](m.Called(ctx, actor, filter))
}

func (m *MockOutboxService) Retry(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appevent.OutboxEntryResponse, error) {
	return result[appevent.OutboxEntryResponse](m.Called(ctx, actor, id))
}

func (m *MockOutboxService) RetryAll(ctx context.Context, actor identity.Actor) (*appevent.RetryAllResponse, error) {
	return result[appevent.RetryAllResponse](m.Called(ctx, actor))
}

var (
	_ AuthService        = (*MockAuthService)(nil)
	_ UserService        = (*MockUserService)(nil)
	_ BuildingService    = (*MockBuildingService)(nil)
	_ RoomService        = (*MockRoomService)(nil)
	_ MaintenanceService = (*MockMaintenanceService)(nil)
	_ InspectionService  = (*MockInspectionService)(nil)
	_ EventService       = (*MockEventService)(nil)
	_ OutboxService      = (*MockOutboxService)(nil)
)
