package identity

import (
	"context"
	"time"

	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/dormhub/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user administration
type UserService struct {
	userRepo  identity.UserRepository
	blacklist auth.TokenBlacklist
	// sessionTTL bounds how long revoked sessions must be remembered
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, actor identity.Actor, input CreateUserInput) (*UserDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, actor.TenantID, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_EXISTS", "Username already exists")
	}

	role := input.Role
	if role == "" {
		role = identity.RoleResident
	}
	user, err := identity.NewUser(actor.TenantID, input.Username, input.Password, role)
	if err != nil {
		return nil, err
	}
	if input.DisplayName != "" || input.Email != "" {
		if err := user.SetProfile(input.DisplayName, input.Email); err != nil {
			return nil, err
		}
	}
	user.CreatedBy = &actor.UserID

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	dto := ToUserDTO(user)
	return &dto, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*UserDTO, error) {
	if !actor.IsStaff() && actor.UserID != id {
		return nil, shared.Forbidden("Residents can only view their own account")
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// List returns a page of users. Filter keys: role, status.
func (s *UserService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[UserDTO], error) {
	if !actor.IsStaff() {
		return nil, shared.Forbidden("Only staff can list users")
	}
	filter = filter.Normalize()

	users, err := s.userRepo.FindAllForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.CountForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToUserDTOs(users), total, filter.Page, filter.PageSize)
	return &page, nil
}

// ChangeRole assigns a new role. Sessions of the user are revoked so the new
// role takes effect immediately.
func (s *UserService) ChangeRole(ctx context.Context, actor identity.Actor, id uuid.UUID, role identity.Role) (*UserDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if actor.UserID == id {
		return nil, shared.NewDomainError("CANNOT_CHANGE_OWN_ROLE", "Admins cannot change their own role")
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	previous := user.Role
	if err := user.ChangeRole(role); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if previous != user.Role {
		s.revokeSessions(ctx, user.ID)
	}

	s.logger.Info("User role changed",
		zap.String("user_id", user.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(user.Role)))

	dto := ToUserDTO(user)
	return &dto, nil
}

// Activate re-enables a deactivated user
func (s *UserService) Activate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*UserDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Activate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User activated", zap.String("user_id", user.ID.String()))
	dto := ToUserDTO(user)
	return &dto, nil
}

// Deactivate blocks a user and revokes all of their tokens
func (s *UserService) Deactivate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*UserDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if actor.UserID == id {
		return nil, shared.NewDomainError("CANNOT_DEACTIVATE_SELF", "Admins cannot deactivate themselves")
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.revokeSessions(ctx, user.ID)

	s.logger.Info("User deactivated", zap.String("user_id", user.ID.String()))
	dto := ToUserDTO(user)
	return &dto, nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.InvalidateUser(ctx, userID.String(), s.sessionTTL); err != nil {
		s.logger.Error("Failed to revoke user sessions", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func requireAdmin(actor identity.Actor) error {
	if !actor.IsAdmin() {
		return shared.Forbidden("Only admins can manage users")
	}
	return nil
}
