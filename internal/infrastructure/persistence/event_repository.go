package persistence

import (
	"context"
	"time"

	"github.com/dormhub/backend/internal/domain/community"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/dormhub/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var eventList = listQuery{
	sortFields:   EventSortFields,
	defaultOrder: "starts_at ASC",
	searchCols:   []string{"title", "location"},
}

// GormEventRepository implements community.EventRepository using GORM
type GormEventRepository struct {
	aggregateWriter
	db  *gorm.DB
	now func() time.Time
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db, now: time.Now}
}

func preloadParticipants(db *gorm.DB) *gorm.DB {
	return db.Preload("Participants", func(db *gorm.DB) *gorm.DB {
		return db.Order("joined_at ASC")
	})
}

// FindByIDForTenant loads an event with its participants
func (r *GormEventRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*community.Event, error) {
	var model models.EventModel
	if err := preloadParticipants(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, notFound(err, "Event")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists events with their participants
func (r *GormEventRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]community.Event, error) {
	var rows []models.EventModel
	query := eventList.page(r.filtered(ctx, tenantID, filter), filter)
	if err := preloadParticipants(query).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]community.Event, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// CountForTenant counts events matching the filter
func (r *GormEventRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

func (r *GormEventRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.EventModel{}).Where("tenant_id = ?", tenantID)
	query = eventList.search(query, filter)
	participating := func(userID any) *gorm.DB {
		return db.Model(&models.ParticipantModel{}).Select("event_id").Where("user_id = ?", userID)
	}
	for key, value := range filter.Filters {
		switch key {
		case community.FilterUpcoming:
			if upcoming, ok := value.(bool); ok && upcoming {
				query = query.Where("starts_at >= ? AND cancelled = ?", r.now(), false)
			}
		case community.FilterOrganizerID:
			query = query.Where("organizer_id = ?", value)
		case community.FilterMine:
			query = query.Where("id IN (?)", participating(value))
		case community.FilterVisibleTo:
			query = query.Where("(visibility = ? OR organizer_id = ? OR id IN (?))",
				community.VisibilityPublic, value, participating(value))
		}
	}
	return query
}

// Save persists the event and syncs its participants
func (r *GormEventRepository) Save(ctx context.Context, e *community.Event) error {
	return r.save(ctx, e, nil)
}

// SaveWithInvitation saves the event and the redeemed invitation atomically
func (r *GormEventRepository) SaveWithInvitation(ctx context.Context, e *community.Event, inv *community.Invitation) error {
	return r.save(ctx, e, inv)
}

func (r *GormEventRepository) save(ctx context.Context, e *community.Event, inv *community.Invitation) error {
	model := models.EventModelFromDomain(e)
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.write(ctx, tx, model, e, "Participants"); err != nil {
			return err
		}
		ids := make([]uuid.UUID, len(model.Participants))
		for i, p := range model.Participants {
			ids[i] = p.ID
		}
		stale := tx.Where("event_id = ?", e.ID)
		if len(ids) > 0 {
			stale = stale.Where("id NOT IN ?", ids)
		}
		if err := stale.Delete(&models.ParticipantModel{}).Error; err != nil {
			return err
		}
		for i := range model.Participants {
			if err := tx.Save(&model.Participants[i]).Error; err != nil {
				return translateWriteError(err)
			}
		}
		if inv != nil {
			if err := tx.Save(inv).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}
	committed(e)
	return nil
}

// DeleteForTenant deletes an event with its participants and invitations
func (r *GormEventRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteForTenant(ctx, tx, &models.EventModel{}, tenantID, id, "Event"); err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.ParticipantModel{}).Error; err != nil {
			return err
		}
		return tx.Where("event_id = ?", id).Delete(&community.Invitation{}).Error
	})
}

var _ community.EventRepository = (*GormEventRepository)(nil)

// GormInvitationRepository implements community.InvitationRepository using GORM
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewGormInvitationRepository creates a new GormInvitationRepository
func NewGormInvitationRepository(db *gorm.DB) *GormInvitationRepository {
	return &GormInvitationRepository{db: db}
}

// FindByIDForTenant finds an invitation by ID within a tenant
func (r *GormInvitationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*community.Invitation, error) {
	var inv community.Invitation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&inv).Error; err != nil {
		return nil, notFound(err, "Invitation")
	}
	return &inv, nil
}

// FindByToken finds an invitation by its token within a tenant
func (r *GormInvitationRepository) FindByToken(ctx context.Context, tenantID uuid.UUID, token string) (*community.Invitation, error) {
	var inv community.Invitation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND token = ?", tenantID, token).
		First(&inv).Error; err != nil {
		return nil, notFound(err, "Invitation")
	}
	return &inv, nil
}

// FindByEvent lists the invitations of an event, newest first
func (r *GormInvitationRepository) FindByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]community.Invitation, error) {
	var invitations []community.Invitation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND event_id = ?", tenantID, eventID).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// Save creates or updates an invitation
func (r *GormInvitationRepository) Save(ctx context.Context, inv *community.Invitation) error {
	return translateWriteError(r.db.WithContext(ctx).Save(inv).Error)
}

// DeleteStale removes invitations that expired or were revoked before cutoff
func (r *GormInvitationRepository) DeleteStale(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND (expires_at < ? OR revoked_at < ?)", tenantID, cutoff, cutoff).
		Delete(&community.Invitation{})
	return result.RowsAffected, result.Error
}

// ListTenantIDs returns the distinct tenants that own invitations
func (r *GormInvitationRepository) ListTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&community.Invitation{}).
		Distinct("tenant_id").
		Pluck("tenant_id", &ids).Error
	return ids, err
}

var _ community.InvitationRepository = (*GormInvitationRepository)(nil)
