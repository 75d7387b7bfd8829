package identity

import (
	"errors"
	"testing"

	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, role Role) *User {
	t.Helper()
	user, err := NewUser(uuid.New(), "Jane.Doe", "secret-pass1", role)
	require.NoError(t, err)
	return user
}

func TestNewUser(t *testing.T) {
	t.Run("creates active user with hashed password", func(t *testing.T) {
		user := newTestUser(t, RoleResident)

		assert.Equal(t, "jane.doe", user.Username)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEqual(t, "secret-pass1", user.PasswordHash)
		assert.True(t, user.VerifyPassword("secret-pass1"))
		assert.False(t, user.VerifyPassword("wrong-pass"))
		require.Len(t, user.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeUserCreated, user.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		cases := []struct {
			name     string
			username string
			password string
			role     Role
			code     string
		}{
			{"short username", "ab", "secret-pass1", RoleResident, "INVALID_USERNAME"},
			{"bad characters", "jane doe", "secret-pass1", RoleResident, "INVALID_USERNAME"},
			{"short password", "jane", "short", RoleResident, "INVALID_PASSWORD"},
			{"unknown role", "jane", "secret-pass1", Role("janitor"), "INVALID_ROLE"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewUser(uuid.New(), tc.username, tc.password, tc.role)
				var domainErr *shared.DomainError
				require.True(t, errors.As(err, &domainErr))
				assert.Equal(t, tc.code, domainErr.Code)
			})
		}
	})
}

func TestValidateAccount(t *testing.T) {
	assert.NoError(t, ValidateAccount("jane.doe", "secret-pass1", RoleResident))
	assert.NoError(t, ValidateAccount("jane", string(make([]byte, 72)), RoleManager))

	cases := map[string]struct {
		username, password string
		role               Role
		code               string
	}{
		"long username": {username: string(make([]byte, 51)), password: "secret-pass1", role: RoleResident, code: "INVALID_USERNAME"},
		"long password": {username: "jane", password: string(make([]byte, 73)), role: RoleResident, code: "INVALID_PASSWORD"},
		"empty role":    {username: "jane", password: "secret-pass1", role: "", code: "INVALID_ROLE"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var domainErr *shared.DomainError
			require.ErrorAs(t, ValidateAccount(tc.username, tc.password, tc.role), &domainErr)
			assert.Equal(t, tc.code, domainErr.Code)
		})
	}
}

func TestValidateProfile(t *testing.T) {
	assert.NoError(t, ValidateProfile("Jane Doe", " Jane@Example.com "))
	assert.NoError(t, ValidateProfile("", ""))

	var domainErr *shared.DomainError
	require.ErrorAs(t, ValidateProfile("", "not-an-email"), &domainErr)
	assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
	require.ErrorAs(t, ValidateProfile(string(make([]byte, 101)), ""), &domainErr)
	assert.Equal(t, "INVALID_DISPLAY_NAME", domainErr.Code)
}

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleManager))
	assert.True(t, RoleManager.AtLeast(RoleManager))
	assert.False(t, RoleResident.AtLeast(RoleManager))
	assert.True(t, RoleResident.AtLeast(RoleResident))
	assert.False(t, Role("").AtLeast(Role("")))
	assert.True(t, RoleAdmin.IsStaff())
	assert.False(t, RoleResident.IsStaff())
}

func TestUser_ChangePassword(t *testing.T) {
	user := newTestUser(t, RoleResident)

	err := user.ChangePassword("wrong-pass", "another-pass")
	assert.Error(t, err)

	require.NoError(t, user.ChangePassword("secret-pass1", "another-pass"))
	assert.True(t, user.VerifyPassword("another-pass"))
	assert.Equal(t, 2, user.Version)
}

func TestUser_ChangeRole(t *testing.T) {
	user := newTestUser(t, RoleResident)
	user.ClearDomainEvents()

	require.NoError(t, user.ChangeRole(RoleManager))
	assert.Equal(t, RoleManager, user.Role)
	require.Len(t, user.GetDomainEvents(), 1)

	evt, ok := user.GetDomainEvents()[0].(*UserRoleChangedEvent)
	require.True(t, ok)
	assert.Equal(t, RoleResident, evt.OldRole)

	assert.Error(t, user.ChangeRole(Role("owner")))
}

func TestUser_ActivateDeactivate(t *testing.T) {
	user := newTestUser(t, RoleResident)

	assert.Error(t, user.Activate())
	require.NoError(t, user.Deactivate())
	assert.False(t, user.IsActive())
	assert.Error(t, user.Deactivate())
	require.NoError(t, user.Activate())
	assert.True(t, user.IsActive())
}

func TestUser_SetProfile(t *testing.T) {
	user := newTestUser(t, RoleResident)

	require.NoError(t, user.SetProfile(" Jane Doe ", "Jane@Example.com"))
	assert.Equal(t, "Jane Doe", user.Name())
	assert.Equal(t, "jane@example.com", user.Email)

	assert.Error(t, user.SetProfile("Jane", "not-an-email"))
}
