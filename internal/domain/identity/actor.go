package identity

import "github.com/google/uuid"

// Actor is the authenticated caller of an operation
type Actor struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     Role
}

// NewActor creates an actor, treating an unknown role as resident
func NewActor(tenantID, userID uuid.UUID, role Role) Actor {
	if !role.IsValid() {
		role = RoleResident
	}
	return Actor{TenantID: tenantID, UserID: userID, Role: role}
}

// IsStaff is true for managers and admins
func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}

// IsAdmin is true for admins only
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
