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

// MaintenanceService runs the maintenance request lifecycle
type MaintenanceService struct {
	maintenanceRepo housing.MaintenanceRepository
	roomRepo        housing.RoomRepository
	placeRepo       housing.PlaceRepository
	logger          *zap.Logger
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(
	maintenanceRepo housing.MaintenanceRepository,
	roomRepo housing.RoomRepository,
	placeRepo housing.PlaceRepository,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		maintenanceRepo: maintenanceRepo,
		roomRepo:        roomRepo,
		placeRepo:       placeRepo,
		logger:          logger,
	}
}

// Create opens a request. Residents can only report problems in the room
// they live in.
func (s *MaintenanceService) Create(ctx context.Context, actor identity.Actor, req CreateMaintenanceRequest) (*MaintenanceResponse, error) {
	if _, err := s.roomRepo.FindByIDForTenant(ctx, actor.TenantID, req.RoomID); err != nil {
		return nil, err
	}
	if !actor.IsStaff() {
		if err := s.ensureResidentOf(ctx, actor, req.RoomID); err != nil {
			return nil, err
		}
	}

	m, err := housing.NewMaintenanceRequest(actor.TenantID, req.RoomID, actor.UserID, req.Title, req.Description, req.Priority)
	if err != nil {
		return nil, err
	}
	if err := s.maintenanceRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("Maintenance requested",
		zap.String("request_id", m.ID.String()),
		zap.String("room_id", m.RoomID.String()),
		zap.String("priority", string(m.Priority)))

	resp := ToMaintenanceResponse(m)
	return &resp, nil
}

func (s *MaintenanceService) ensureResidentOf(ctx context.Context, actor identity.Actor, roomID uuid.UUID) error {
	place, err := s.placeRepo.FindByOccupant(ctx, actor.TenantID, actor.UserID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if place == nil || place.RoomID != roomID {
		return shared.NewDomainError("NOT_ROOM_RESIDENT", "You can only report problems in the room you live in")
	}
	return nil
}

// GetByID retrieves a request. Residents only see their own.
func (s *MaintenanceService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*MaintenanceResponse, error) {
	m, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToMaintenanceResponse(m)
	return &resp, nil
}

// List returns a page of requests. Residents only see their own.
// Filter keys: room_id, status, priority, requester_id.
func (s *MaintenanceService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[MaintenanceResponse], error) {
	filter = filter.Normalize()
	if !actor.IsStaff() {
		filter = filter.With("requester_id", actor.UserID)
	}

	requests, err := s.maintenanceRepo.FindAllForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.maintenanceRepo.CountForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]MaintenanceResponse, len(requests))
	for i := range requests {
		items[i] = ToMaintenanceResponse(&requests[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update edits a request that nobody started working on
func (s *MaintenanceService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateMaintenanceRequest) (*MaintenanceResponse, error) {
	m, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	priority := req.Priority
	if priority == "" {
		priority = m.Priority
	}
	if err := m.Update(req.Title, req.Description, priority); err != nil {
		return nil, err
	}
	if err := s.maintenanceRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMaintenanceResponse(m)
	return &resp, nil
}

// Start assigns the work and puts the room under maintenance
func (s *MaintenanceService) Start(ctx context.Context, actor identity.Actor, id uuid.UUID, assignee string) (*MaintenanceResponse, error) {
	if err := requireStaff(actor, "start maintenance"); err != nil {
		return nil, err
	}
	m, err := s.maintenanceRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	room, err := s.roomRepo.FindByIDForTenant(ctx, actor.TenantID, m.RoomID)
	if err != nil {
		return nil, err
	}

	if err := m.Start(assignee); err != nil {
		return nil, err
	}
	room.StartMaintenance()

	if err := s.maintenanceRepo.SaveWithRoom(ctx, m, room); err != nil {
		return nil, err
	}

	s.logger.Info("Maintenance started",
		zap.String("request_id", m.ID.String()),
		zap.String("room_status", string(room.Status)))
	resp := ToMaintenanceResponse(m)
	return &resp, nil
}

// Complete closes the work with a resolution note
func (s *MaintenanceService) Complete(ctx context.Context, actor identity.Actor, id uuid.UUID, resolution string) (*MaintenanceResponse, error) {
	if err := requireStaff(actor, "complete maintenance"); err != nil {
		return nil, err
	}
	m, err := s.maintenanceRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := m.Complete(resolution); err != nil {
		return nil, err
	}
	room, err := s.roomAfterWork(ctx, actor.TenantID, m)
	if err != nil {
		return nil, err
	}
	if err := s.maintenanceRepo.SaveWithRoom(ctx, m, room); err != nil {
		return nil, err
	}

	s.logger.Info("Maintenance completed", zap.String("request_id", m.ID.String()))
	resp := ToMaintenanceResponse(m)
	return &resp, nil
}

// Cancel withdraws a request. The requester may cancel before work started,
// staff at any time before it is finished.
func (s *MaintenanceService) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID, reason string) (*MaintenanceResponse, error) {
	m, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	wasInProgress := m.Status == housing.MaintenanceStatusInProgress
	if err := m.Cancel(reason, actor.IsStaff()); err != nil {
		return nil, err
	}

	var room *housing.Room
	if wasInProgress {
		if room, err = s.roomAfterWork(ctx, actor.TenantID, m); err != nil {
			return nil, err
		}
	}
	if err := s.maintenanceRepo.SaveWithRoom(ctx, m, room); err != nil {
		return nil, err
	}

	s.logger.Info("Maintenance cancelled", zap.String("request_id", m.ID.String()))
	resp := ToMaintenanceResponse(m)
	return &resp, nil
}

// roomAfterWork returns the room back in service when no other request keeps
// it under maintenance, or nil when the room does not change
func (s *MaintenanceService) roomAfterWork(ctx context.Context, tenantID uuid.UUID, m *housing.MaintenanceRequest) (*housing.Room, error) {
	others, err := s.maintenanceRepo.CountInProgressByRoom(ctx, tenantID, m.RoomID, m.ID)
	if err != nil {
		return nil, err
	}
	if others > 0 {
		return nil, nil
	}
	room, err := s.roomRepo.FindByIDForTenant(ctx, tenantID, m.RoomID)
	if err != nil {
		return nil, err
	}
	if room.Status != housing.RoomStatusUnderMaintenance {
		return nil, nil
	}
	room.EndMaintenance()
	return room, nil
}

// load finds a request and checks the caller may act on it
func (s *MaintenanceService) load(ctx context.Context, actor identity.Actor, id uuid.UUID) (*housing.MaintenanceRequest, error) {
	m, err := s.maintenanceRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !m.IsRequestedBy(actor.UserID) {
		return nil, shared.Forbidden("You can only access your own maintenance requests")
	}
	return m, nil
}
