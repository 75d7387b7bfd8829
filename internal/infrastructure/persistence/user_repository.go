package persistence

import (
	"context"
	"strings"

	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var userList = listQuery{
	sortFields:   UserSortFields,
	defaultOrder: "username ASC",
	searchCols:   []string{"username", "display_name", "email"},
}

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	aggregateWriter
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByIDForTenant finds a user by ID within a tenant
func (r *GormUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&user).Error; err != nil {
		return nil, notFound(err, "User")
	}
	user.MarkPersisted()
	return &user, nil
}

// FindByUsername finds a user by username within a tenant
func (r *GormUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND username = ?", tenantID, strings.ToLower(username)).
		First(&user).Error; err != nil {
		return nil, notFound(err, "User")
	}
	user.MarkPersisted()
	return &user, nil
}

// FindByUsernameAnyTenant finds a user by username across tenants. When the
// username exists in several tenants the caller has to name the tenant.
func (r *GormUserRepository) FindByUsernameAnyTenant(ctx context.Context, username string) (*identity.User, error) {
	var users []identity.User
	if err := r.db.WithContext(ctx).
		Where("username = ?", strings.ToLower(username)).
		Limit(2).
		Find(&users).Error; err != nil {
		return nil, err
	}
	switch len(users) {
	case 0:
		return nil, shared.NotFound("User")
	case 1:
		users[0].MarkPersisted()
		return &users[0], nil
	default:
		return nil, shared.NewDomainError("TENANT_REQUIRED", "Username exists in several dormitories, tenant_id is required")
	}
}

// FindByIDs finds users by IDs within a tenant
func (r *GormUserRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]identity.User, error) {
	if len(ids) == 0 {
		return []identity.User{}, nil
	}
	var users []identity.User
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return markLoaded(users), nil
}

// FindAllForTenant lists users. Filter keys: role, status.
func (r *GormUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	var users []identity.User
	query := userList.page(r.filtered(ctx, tenantID, filter), filter)
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return markLoaded(users), nil
}

// CountForTenant counts users matching the filter
func (r *GormUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

func (r *GormUserRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&identity.User{}).Where("tenant_id = ?", tenantID)
	query = userList.search(query, filter)
	for key, value := range filter.Filters {
		switch key {
		case "role":
			query = query.Where("role = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// ExistsByUsername checks if a username is taken within a tenant
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identity.User{}).
		Where("tenant_id = ? AND username = ?", tenantID, strings.ToLower(username)).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.write(ctx, tx, user, user)
	}); err != nil {
		return err
	}
	committed(user)
	return nil
}

// SaveAll creates or updates users in a single transaction
func (r *GormUserRepository) SaveAll(ctx context.Context, users []*identity.User) error {
	if len(users) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, user := range users {
			if err := r.write(ctx, tx, user, user); err != nil {
				return &identity.BatchWriteError{Index: i, Err: err}
			}
		}
		return nil
	}); err != nil {
		return err
	}
	for _, user := range users {
		committed(user)
	}
	return nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
