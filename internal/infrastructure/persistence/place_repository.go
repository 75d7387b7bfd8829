package persistence

import (
	"context"
	"strings"

	"github.com/dormhub/backend/internal/domain/housing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPlaceRepository implements housing.PlaceRepository using GORM
type GormPlaceRepository struct {
	aggregateWriter
	db *gorm.DB
}

// NewGormPlaceRepository creates a new GormPlaceRepository
func NewGormPlaceRepository(db *gorm.DB) *GormPlaceRepository {
	return &GormPlaceRepository{db: db}
}

// FindByIDForTenant finds a place by ID within a tenant
func (r *GormPlaceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*housing.Place, error) {
	var p housing.Place
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&p).Error; err != nil {
		return nil, notFound(err, "Place")
	}
	p.MarkPersisted()
	return &p, nil
}

// FindByRoom lists the places of a room ordered by label
func (r *GormPlaceRepository) FindByRoom(ctx context.Context, tenantID, roomID uuid.UUID) ([]housing.Place, error) {
	var places []housing.Place
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND room_id = ?", tenantID, roomID).
		Order("label ASC").
		Find(&places).Error; err != nil {
		return nil, err
	}
	return markLoaded(places), nil
}

// FindByRoomIDs lists the places of several rooms
func (r *GormPlaceRepository) FindByRoomIDs(ctx context.Context, tenantID uuid.UUID, roomIDs []uuid.UUID) ([]housing.Place, error) {
	if len(roomIDs) == 0 {
		return []housing.Place{}, nil
	}
	var places []housing.Place
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND room_id IN ?", tenantID, roomIDs).
		Order("label ASC").
		Find(&places).Error; err != nil {
		return nil, err
	}
	return markLoaded(places), nil
}

// FindByOccupant finds the place a user is housed in
func (r *GormPlaceRepository) FindByOccupant(ctx context.Context, tenantID, userID uuid.UUID) (*housing.Place, error) {
	var p housing.Place
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND occupant_id = ?", tenantID, userID).
		First(&p).Error; err != nil {
		return nil, notFound(err, "Place")
	}
	p.MarkPersisted()
	return &p, nil
}

// CountByRoom counts all places of a room
func (r *GormPlaceRepository) CountByRoom(ctx context.Context, tenantID, roomID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&housing.Place{}).
		Where("tenant_id = ? AND room_id = ?", tenantID, roomID).
		Count(&count).Error
	return count, err
}

// CountOccupiedByRoom counts the occupied places of a room
func (r *GormPlaceRepository) CountOccupiedByRoom(ctx context.Context, tenantID, roomID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&housing.Place{}).
		Where("tenant_id = ? AND room_id = ? AND occupant_id IS NOT NULL", tenantID, roomID).
		Count(&count).Error
	return count, err
}

// ExistsByLabel checks if a label is taken in the room
func (r *GormPlaceRepository) ExistsByLabel(ctx context.Context, tenantID, roomID uuid.UUID, label string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&housing.Place{}).
		Where("tenant_id = ? AND room_id = ? AND label = ?", tenantID, roomID, strings.ToUpper(strings.TrimSpace(label))).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a place
func (r *GormPlaceRepository) Save(ctx context.Context, p *housing.Place) error {
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.write(ctx, tx, p, p)
	}); err != nil {
		return err
	}
	committed(p)
	return nil
}

// DeleteForTenant deletes a place
func (r *GormPlaceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(ctx, r.db, &housing.Place{}, tenantID, id, "Place")
}

var _ housing.PlaceRepository = (*GormPlaceRepository)(nil)
