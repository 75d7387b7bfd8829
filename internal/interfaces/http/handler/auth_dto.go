package handler

import (
	"github.com/dormhub/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
)

// LoginRequest represents the request body for user login
type LoginRequest struct {
	// TenantID is only required when the username exists in several dormitories
	TenantID *uuid.UUID `json:"tenant_id"`
	Username string     `json:"username" binding:"required,max=50"`
	Password string     `json:"password" binding:"required,max=72"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token so it is revoked too
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// CreateUserRequest represents the request body for creating an account
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	DisplayName string `json:"display_name" binding:"omitempty,max=100"`
	Role        string `json:"role" binding:"omitempty,role"`
}

// ChangeRoleRequest represents the request body for changing a user's role
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,role"`
}

// UserListQuery holds the query parameters of GET /users
type UserListQuery struct {
	dto.ListRequest
	Role   string `form:"role" binding:"omitempty,role"`
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}

// UserImportQuery holds the query parameters of POST /users/import
type UserImportQuery struct {
	ConflictMode string `form:"conflict_mode" binding:"omitempty,oneof=skip fail"`
	DryRun       bool   `form:"dry_run"`
}
