package persistence

import (
	"context"

	"github.com/dormhub/backend/internal/domain/housing"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var maintenanceList = listQuery{
	sortFields:   MaintenanceSortFields,
	defaultOrder: "created_at DESC",
	searchCols:   []string{"title", "description"},
}

// GormMaintenanceRepository implements housing.MaintenanceRepository using GORM
type GormMaintenanceRepository struct {
	aggregateWriter
	db *gorm.DB
}

// NewGormMaintenanceRepository creates a new GormMaintenanceRepository
func NewGormMaintenanceRepository(db *gorm.DB) *GormMaintenanceRepository {
	return &GormMaintenanceRepository{db: db}
}

// FindByIDForTenant finds a maintenance request by ID within a tenant
func (r *GormMaintenanceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*housing.MaintenanceRequest, error) {
	var m housing.MaintenanceRequest
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error; err != nil {
		return nil, notFound(err, "Maintenance request")
	}
	m.MarkPersisted()
	return &m, nil
}

// FindAllForTenant lists requests. Filter keys: room_id, status, priority, requester_id.
func (r *GormMaintenanceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]housing.MaintenanceRequest, error) {
	var requests []housing.MaintenanceRequest
	if err := maintenanceList.page(r.filtered(ctx, tenantID, filter), filter).Find(&requests).Error; err != nil {
		return nil, err
	}
	return markLoaded(requests), nil
}

// CountForTenant counts requests matching the filter
func (r *GormMaintenanceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

func (r *GormMaintenanceRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&housing.MaintenanceRequest{}).Where("tenant_id = ?", tenantID)
	query = maintenanceList.search(query, filter)
	for key, value := range filter.Filters {
		switch key {
		case "room_id", "status", "priority", "requester_id":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

// CountOpenByRoom counts requests of a room that are not finished
func (r *GormMaintenanceRepository) CountOpenByRoom(ctx context.Context, tenantID, roomID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&housing.MaintenanceRequest{}).
		Where("tenant_id = ? AND room_id = ? AND status IN ?", tenantID, roomID,
			[]housing.MaintenanceStatus{housing.MaintenanceStatusRequested, housing.MaintenanceStatusInProgress}).
		Count(&count).Error
	return count, err
}

// CountInProgressByRoom counts in-progress requests of a room other than excludeID
func (r *GormMaintenanceRepository) CountInProgressByRoom(ctx context.Context, tenantID, roomID, excludeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&housing.MaintenanceRequest{}).
		Where("tenant_id = ? AND room_id = ? AND status = ? AND id <> ?",
			tenantID, roomID, housing.MaintenanceStatusInProgress, excludeID).
		Count(&count).Error
	return count, err
}

// Save creates or updates a request
func (r *GormMaintenanceRepository) Save(ctx context.Context, m *housing.MaintenanceRequest) error {
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.write(ctx, tx, m, m)
	}); err != nil {
		return err
	}
	committed(m)
	return nil
}

// SaveWithRoom saves the request and the room whose status it changed in one transaction
func (r *GormMaintenanceRepository) SaveWithRoom(ctx context.Context, m *housing.MaintenanceRequest, room *housing.Room) error {
	if room == nil {
		return r.Save(ctx, m)
	}
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.write(ctx, tx, m, m); err != nil {
			return err
		}
		return r.write(ctx, tx, room, room)
	}); err != nil {
		return err
	}
	committed(m, room)
	return nil
}

var _ housing.MaintenanceRepository = (*GormMaintenanceRepository)(nil)
