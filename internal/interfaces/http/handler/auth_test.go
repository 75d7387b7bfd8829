package handler

import (
	"net/http"
	"testing"
	"time"

	appidentity "github.com/dormhub/backend/internal/application/identity"
	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/dormhub/backend/internal/infrastructure/auth"
	"github.com/dormhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(svc *MockAuthService, a *identity.Actor, claims *auth.Claims) *gin.Engine {
	h := NewAuthHandler(svc)
	r := newTestRouter(a)
	if claims != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.JWTClaimsKey, claims)
			c.Next()
		})
	}
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.RefreshToken)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.GetCurrentUser)
	r.PUT("/auth/password", h.ChangePassword)
	return r
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil, nil)

		userID := uuid.New()
		svc.On("Login", mock.Anything, mock.MatchedBy(func(in appidentity.LoginInput) bool {
			return in.Username == "warden" && in.Password == "s3cret-pass" && in.TenantID == nil && in.IP != ""
		})).Return(&appidentity.LoginResult{
			TokenResult: appidentity.TokenResult{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"},
			User:        appidentity.UserDTO{ID: userID, Username: "warden", Role: "manager"},
		}, nil)

		rec := doRequest(r, http.MethodPost, "/auth/login", map[string]any{
			"username": "warden",
			"password": "s3cret-pass",
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		data := decodeResponse(t, rec).Data.(map[string]any)
		assert.Equal(t, "access", data["access_token"])
		assert.Equal(t, "warden", data["user"].(map[string]any)["username"])
		svc.AssertExpectations(t)
	})

	t.Run("tenant is passed through", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil, nil)

		tenantID := uuid.New()
		svc.On("Login", mock.Anything, mock.MatchedBy(func(in appidentity.LoginInput) bool {
			return in.TenantID != nil && *in.TenantID == tenantID
		})).Return(&appidentity.LoginResult{}, nil)

		rec := doRequest(r, http.MethodPost, "/auth/login", map[string]any{
			"tenant_id": tenantID,
			"username":  "warden",
			"password":  "s3cret-pass",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil, nil)

		rec := doRequest(r, http.MethodPost, "/auth/login", map[string]any{"username": "wa", "password": "short"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Len(t, resp.Error.Details, 2)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil, nil)
		svc.On("Login", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password"))

		rec := doRequest(r, http.MethodPost, "/auth/login", map[string]any{"username": "warden", "password": "wrong-pass"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", responseCode(t, rec))
	})

	t.Run("inactive account", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil, nil)
		svc.On("Login", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is deactivated"))

		rec := doRequest(r, http.MethodPost, "/auth/login", map[string]any{"username": "warden", "password": "s3cret-pass"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	svc := new(MockAuthService)
	r := setupAuthRouter(svc, nil, nil)

	svc.On("RefreshToken", mock.Anything, appidentity.RefreshTokenInput{RefreshToken: "old"}).
		Return(&appidentity.TokenResult{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)
	svc.On("RefreshToken", mock.Anything, appidentity.RefreshTokenInput{RefreshToken: "revoked"}).
		Return(nil, shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked"))

	rec := doRequest(r, http.MethodPost, "/auth/refresh", map[string]any{"refresh_token": "old"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new-refresh", decodeResponse(t, rec).Data.(map[string]any)["refresh_token"])

	rec = doRequest(r, http.MethodPost, "/auth/refresh", map[string]any{"refresh_token": "revoked"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REVOKED", responseCode(t, rec))

	rec = doRequest(r, http.MethodPost, "/auth/refresh", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	a := newActor(identity.RoleResident)
	expires := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1", ExpiresAt: jwt.NewNumericDate(expires)},
		UserID:           a.UserID.String(),
	}

	t.Run("revokes access and refresh token", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, &a, claims)
		svc.On("Logout", mock.Anything, appidentity.LogoutInput{
			UserID:          a.UserID,
			TokenJTI:        "jti-1",
			AccessExpiresAt: expires,
			RefreshToken:    "refresh",
		}).Return(nil)

		rec := doRequest(r, http.MethodPost, "/auth/logout", map[string]any{"refresh_token": "refresh"})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("body is optional", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, &a, claims)
		svc.On("Logout", mock.Anything, mock.MatchedBy(func(in appidentity.LogoutInput) bool {
			return in.TokenJTI == "jti-1" && in.RefreshToken == ""
		})).Return(nil)

		rec := doRequest(r, http.MethodPost, "/auth/logout", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, nil, nil)

		rec := doRequest(r, http.MethodPost, "/auth/logout", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	a := newActor(identity.RoleManager)
	svc := new(MockAuthService)
	r := setupAuthRouter(svc, &a, nil)
	svc.On("GetCurrentUser", mock.Anything, a).
		Return(&appidentity.UserDTO{ID: a.UserID, TenantID: a.TenantID, Username: "warden", Role: "manager"}, nil)

	rec := doRequest(r, http.MethodGet, "/auth/me", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeResponse(t, rec).Data.(map[string]any)
	assert.Equal(t, a.UserID.String(), data["id"])
	assert.Equal(t, "manager", data["role"])
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	a := newActor(identity.RoleResident)

	t.Run("success", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, &a, nil)
		svc.On("ChangePassword", mock.Anything, a, appidentity.ChangePasswordInput{
			OldPassword: "old-password",
			NewPassword: "new-password",
		}).Return(nil)

		rec := doRequest(r, http.MethodPut, "/auth/password", map[string]any{
			"old_password": "old-password",
			"new_password": "new-password",
		})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("new password too short", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, &a, nil)

		rec := doRequest(r, http.MethodPut, "/auth/password", map[string]any{
			"old_password": "old-password",
			"new_password": "short",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "new_password", resp.Error.Details[0].Field)
	})

	t.Run("wrong old password", func(t *testing.T) {
		svc := new(MockAuthService)
		r := setupAuthRouter(svc, &a, nil)
		svc.On("ChangePassword", mock.Anything, a, mock.Anything).
			Return(shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect"))

		rec := doRequest(r, http.MethodPut, "/auth/password", map[string]any{
			"old_password": "bad-password",
			"new_password": "new-password",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "INVALID_PASSWORD", responseCode(t, rec))
	})
}
