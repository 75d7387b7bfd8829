package persistence

import (
	"context"
	"time"

	"github.com/dormhub/backend/internal/domain/inspection"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/dormhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var inspectionList = listQuery{
	sortFields:   InspectionSortFields,
	defaultOrder: "scheduled_at DESC",
	searchCols:   []string{"name"},
}

// GormInspectionRepository implements inspection.Repository using GORM
type GormInspectionRepository struct {
	aggregateWriter
	db *gorm.DB
}

// NewGormInspectionRepository creates a new GormInspectionRepository
func NewGormInspectionRepository(db *gorm.DB) *GormInspectionRepository {
	return &GormInspectionRepository{db: db}
}

func preloadInspectionRooms(db *gorm.DB) *gorm.DB {
	return db.Preload("Rooms", func(db *gorm.DB) *gorm.DB {
		return db.Order("building_name ASC, floor_number ASC, room_number ASC")
	})
}

// FindByIDForTenant loads an inspection with its rooms
func (r *GormInspectionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inspection.Inspection, error) {
	var model models.InspectionModel
	if err := preloadInspectionRooms(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, notFound(err, "Inspection")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists inspections with their rooms
func (r *GormInspectionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inspection.Inspection, error) {
	var rows []models.InspectionModel
	query := inspectionList.page(r.filtered(ctx, tenantID, filter), filter)
	if err := preloadInspectionRooms(query).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]inspection.Inspection, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// CountForTenant counts inspections matching the filter
func (r *GormInspectionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

func (r *GormInspectionRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.InspectionModel{}).Where("tenant_id = ?", tenantID)
	query = inspectionList.search(query, filter)
	for key, value := range filter.Filters {
		switch key {
		case "status", "inspector_id":
			query = query.Where(key+" = ?", value)
		case "scheduled_from":
			if t, ok := value.(time.Time); ok {
				query = query.Where("scheduled_at >= ?", t)
			}
		case "scheduled_to":
			if t, ok := value.(time.Time); ok {
				query = query.Where("scheduled_at <= ?", t)
			}
		}
	}
	return query
}

// Save persists the inspection and replaces its room lines
func (r *GormInspectionRepository) Save(ctx context.Context, i *inspection.Inspection) error {
	model := models.InspectionModelFromDomain(i)
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.write(ctx, tx, model, i, "Rooms"); err != nil {
			return err
		}
		ids := make([]uuid.UUID, len(model.Rooms))
		for idx, room := range model.Rooms {
			ids[idx] = room.ID
		}
		stale := tx.Where("inspection_id = ?", i.ID)
		if len(ids) > 0 {
			stale = stale.Where("id NOT IN ?", ids)
		}
		if err := stale.Delete(&models.InspectionRoomModel{}).Error; err != nil {
			return err
		}
		for idx := range model.Rooms {
			if err := tx.Save(&model.Rooms[idx]).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}
	committed(i)
	return nil
}

// DeleteForTenant deletes an inspection and its room lines
func (r *GormInspectionRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteForTenant(ctx, tx, &models.InspectionModel{}, tenantID, id, "Inspection"); err != nil {
			return err
		}
		return tx.Where("inspection_id = ?", id).Delete(&models.InspectionRoomModel{}).Error
	})
}

var _ inspection.Repository = (*GormInspectionRepository)(nil)
