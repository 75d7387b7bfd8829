package persistence

import (
	"context"
	"strings"

	"github.com/dormhub/backend/internal/domain/housing"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var roomList = listQuery{
	sortFields:   RoomSortFields,
	defaultOrder: "number ASC",
	searchCols:   []string{"number", "description"},
}

// GormRoomRepository implements housing.RoomRepository using GORM
type GormRoomRepository struct {
	aggregateWriter
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByIDForTenant finds a room by ID within a tenant
func (r *GormRoomRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*housing.Room, error) {
	var room housing.Room
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&room).Error; err != nil {
		return nil, notFound(err, "Room")
	}
	room.MarkPersisted()
	return &room, nil
}

// FindByIDs finds rooms by IDs within a tenant
func (r *GormRoomRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]housing.Room, error) {
	if len(ids) == 0 {
		return []housing.Room{}, nil
	}
	var rooms []housing.Room
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return markLoaded(rooms), nil
}

// FindByBuilding lists all rooms of a building ordered by number
func (r *GormRoomRepository) FindByBuilding(ctx context.Context, tenantID, buildingID uuid.UUID) ([]housing.Room, error) {
	var rooms []housing.Room
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND building_id = ?", tenantID, buildingID).
		Order("number ASC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return markLoaded(rooms), nil
}

// FindAllForTenant lists rooms. Filter keys: building_id, floor_id, status, room_type.
func (r *GormRoomRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]housing.Room, error) {
	var rooms []housing.Room
	if err := roomList.page(r.filtered(ctx, tenantID, filter), filter).Find(&rooms).Error; err != nil {
		return nil, err
	}
	return markLoaded(rooms), nil
}

// CountForTenant counts rooms matching the filter
func (r *GormRoomRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

func (r *GormRoomRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&housing.Room{}).Where("tenant_id = ?", tenantID)
	query = roomList.search(query, filter)
	for key, value := range filter.Filters {
		switch key {
		case "building_id", "floor_id", "status", "room_type":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

// CountByFloor counts the rooms on a floor
func (r *GormRoomRepository) CountByFloor(ctx context.Context, tenantID, floorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&housing.Room{}).
		Where("tenant_id = ? AND floor_id = ?", tenantID, floorID).
		Count(&count).Error
	return count, err
}

// ExistsByNumber checks if a room number is taken in the building, ignoring excludeID
func (r *GormRoomRepository) ExistsByNumber(ctx context.Context, tenantID, buildingID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&housing.Room{}).
		Where("tenant_id = ? AND building_id = ? AND number = ?", tenantID, buildingID, strings.ToUpper(strings.TrimSpace(number)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// Save creates or updates a room
func (r *GormRoomRepository) Save(ctx context.Context, room *housing.Room) error {
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.write(ctx, tx, room, room)
	}); err != nil {
		return err
	}
	committed(room)
	return nil
}

// DeleteForTenant deletes a room
func (r *GormRoomRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(ctx, r.db, &housing.Room{}, tenantID, id, "Room")
}

var _ housing.RoomRepository = (*GormRoomRepository)(nil)
