package persistence

import (
	"context"
	"strings"

	"github.com/dormhub/backend/internal/domain/housing"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var buildingList = listQuery{
	sortFields:   BuildingSortFields,
	defaultOrder: "name ASC",
	searchCols:   []string{"name", "address"},
}

// GormBuildingRepository implements housing.BuildingRepository using GORM
type GormBuildingRepository struct {
	aggregateWriter
	db *gorm.DB
}

// NewGormBuildingRepository creates a new GormBuildingRepository
func NewGormBuildingRepository(db *gorm.DB) *GormBuildingRepository {
	return &GormBuildingRepository{db: db}
}

// FindByIDForTenant finds a building by ID within a tenant
func (r *GormBuildingRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*housing.Building, error) {
	var b housing.Building
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&b).Error; err != nil {
		return nil, notFound(err, "Building")
	}
	b.MarkPersisted()
	return &b, nil
}

// FindAllForTenant lists buildings. Filter keys: is_active.
func (r *GormBuildingRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]housing.Building, error) {
	var buildings []housing.Building
	if err := buildingList.page(r.filtered(ctx, tenantID, filter), filter).Find(&buildings).Error; err != nil {
		return nil, err
	}
	return markLoaded(buildings), nil
}

// CountForTenant counts buildings matching the filter
func (r *GormBuildingRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

func (r *GormBuildingRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&housing.Building{}).Where("tenant_id = ?", tenantID)
	query = buildingList.search(query, filter)
	if active, ok := filter.Filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", active)
	}
	return query
}

// ExistsByName checks if a building name is taken, ignoring excludeID
func (r *GormBuildingRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&housing.Building{}).
		Where("tenant_id = ? AND LOWER(name) = ?", tenantID, strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// Save creates or updates a building
func (r *GormBuildingRepository) Save(ctx context.Context, b *housing.Building) error {
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.write(ctx, tx, b, b)
	}); err != nil {
		return err
	}
	committed(b)
	return nil
}

// DeleteForTenant deletes a building
func (r *GormBuildingRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(ctx, r.db, &housing.Building{}, tenantID, id, "Building")
}

var _ housing.BuildingRepository = (*GormBuildingRepository)(nil)

// GormFloorRepository implements housing.FloorRepository using GORM
type GormFloorRepository struct {
	aggregateWriter
	db *gorm.DB
}

// NewGormFloorRepository creates a new GormFloorRepository
func NewGormFloorRepository(db *gorm.DB) *GormFloorRepository {
	return &GormFloorRepository{db: db}
}

// FindByIDForTenant finds a floor by ID within a tenant
func (r *GormFloorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*housing.Floor, error) {
	var f housing.Floor
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&f).Error; err != nil {
		return nil, notFound(err, "Floor")
	}
	f.MarkPersisted()
	return &f, nil
}

// FindByBuilding lists the floors of a building ordered by number
func (r *GormFloorRepository) FindByBuilding(ctx context.Context, tenantID, buildingID uuid.UUID) ([]housing.Floor, error) {
	var floors []housing.Floor
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND building_id = ?", tenantID, buildingID).
		Order("number ASC").
		Find(&floors).Error; err != nil {
		return nil, err
	}
	return markLoaded(floors), nil
}

// CountByBuilding counts the floors of a building
func (r *GormFloorRepository) CountByBuilding(ctx context.Context, tenantID, buildingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&housing.Floor{}).
		Where("tenant_id = ? AND building_id = ?", tenantID, buildingID).
		Count(&count).Error
	return count, err
}

// ExistsByNumber checks if the floor number exists in the building
func (r *GormFloorRepository) ExistsByNumber(ctx context.Context, tenantID, buildingID uuid.UUID, number int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&housing.Floor{}).
		Where("tenant_id = ? AND building_id = ? AND number = ?", tenantID, buildingID, number).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a floor
func (r *GormFloorRepository) Save(ctx context.Context, f *housing.Floor) error {
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.write(ctx, tx, f, f)
	}); err != nil {
		return err
	}
	committed(f)
	return nil
}

// DeleteForTenant deletes a floor
func (r *GormFloorRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(ctx, r.db, &housing.Floor{}, tenantID, id, "Floor")
}

var _ housing.FloorRepository = (*GormFloorRepository)(nil)

func deleteForTenant(ctx context.Context, db *gorm.DB, model any, tenantID, id uuid.UUID, resource string) error {
	result := db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound(resource)
	}
	return nil
}
