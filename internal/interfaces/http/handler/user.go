package handler

import (
	"context"
	"net/http"

	appidentity "github.com/dormhub/backend/internal/application/identity"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/dormhub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserService is the part of identity.UserService used over HTTP
type UserService interface {
	Create(ctx context.Context, actor identity.Actor, input appidentity.CreateUserInput) (*appidentity.UserDTO, error)
	GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appidentity.UserDTO, error)
	List(ctx context.Context, actor identity.Actor, filter shared.Filter) (*shared.Paginated[appidentity.UserDTO], error)
	ChangeRole(ctx context.Context, actor identity.Actor, id uuid.UUID, role identity.Role) (*appidentity.UserDTO, error)
	Activate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appidentity.UserDTO, error)
	Deactivate(ctx context.Context, actor identity.Actor, id uuid.UUID) (*appidentity.UserDTO, error)
	Import(ctx context.Context, actor identity.Actor, input appidentity.ImportUsersInput) (*appidentity.ImportUsersResult, error)
}

// maxRosterFileSize bounds roster uploads
const maxRosterFileSize = 2 << 20

// UserHandler handles account management for staff
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create godoc
// @Summary      Create user
// @Description  Create an account in the caller's dormitory. Only admins may create staff accounts.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "New account"
// @Success      201 {object} APIResponse[appidentity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var req CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	role := identity.Role(req.Role)
	if role == "" {
		role = identity.RoleResident
	}
	user, err := h.userService.Create(c.Request.Context(), a, appidentity.CreateUserInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size (max 100)"
// @Param        search    query string false "Username, name or email"
// @Param        role      query string false "admin, manager or resident"
// @Param        status    query string false "active or inactive"
// @Success      200 {object} APIResponse[[]appidentity.UserDTO]
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var q UserListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := listFilter(q.ListRequest)
	putString(filter, "role", q.Role)
	putString(filter, "status", q.Status)

	page, err := h.userService.List(c.Request.Context(), a, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// GetByID godoc
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	byID(c, &h.BaseHandler, h.userService.GetByID)
}

// ChangeRole godoc
// @Summary      Change user role
// @Description  Admin only. Existing sessions of the user are revoked.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path string            true "User ID"
// @Param        request body ChangeRoleRequest true "New role"
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req ChangeRoleRequest
	byID(c, &h.BaseHandler, func(ctx context.Context, a identity.Actor, id uuid.UUID) (*appidentity.UserDTO, error) {
		if !h.BindJSON(c, &req) {
			return nil, nil
		}
		return h.userService.ChangeRole(ctx, a, id, identity.Role(req.Role))
	})
}

// Activate godoc
// @Summary      Activate user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Security     BearerAuth
// @Router       /users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	byID(c, &h.BaseHandler, h.userService.Activate)
}

// Deactivate godoc
// @Summary      Deactivate user
// @Description  The user can no longer log in and existing sessions are revoked
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Security     BearerAuth
// @Router       /users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	byID(c, &h.BaseHandler, h.userService.Deactivate)
}

// Import godoc
// @Summary      Import users from CSV
// @Description  Columns: username, password, role, display_name, email. Rows are validated
// @Description  first and nothing is created when any row is invalid.
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        file          formData file   true  "Roster CSV (UTF-8)"
// @Param        conflict_mode query    string false "skip (default) or fail"
// @Param        dry_run       query    bool   false "Validate without creating accounts"
// @Success      200 {object} APIResponse[appidentity.ImportUsersResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/import [post]
func (h *UserHandler) Import(c *gin.Context) {
	a, ok := h.Actor(c)
	if !ok {
		return
	}
	var q UserImportQuery
	if !h.BindQuery(c, &q) {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()
	if header.Size > maxRosterFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.CodePayloadTooLarge, "Roster file exceeds 2MB")
		return
	}

	result, err := h.userService.Import(c.Request.Context(), a, appidentity.ImportUsersInput{
		File:         file,
		ConflictMode: appidentity.ConflictMode(q.ConflictMode),
		DryRun:       q.DryRun,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
