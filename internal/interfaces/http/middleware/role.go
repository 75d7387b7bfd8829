package middleware

import (
	"net/http"
	"slices"

	"github.com/dormhub/backend/internal/domain/identity"
	"github.com/dormhub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only when the caller has one of roles.
// It must run after the JWT middleware.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetJWTUserID(c) == "" {
			abortWithError(c, http.StatusUnauthorized, dto.CodeUnauthorized, "Authentication required")
			return
		}
		if !slices.Contains(roles, GetJWTRole(c)) {
			abortWithError(c, http.StatusForbidden, dto.CodeForbidden, "Access denied: insufficient role")
			return
		}
		c.Next()
	}
}

// RequireStaff allows managers and admins
func RequireStaff() gin.HandlerFunc {
	return RequireRole(identity.RoleManager, identity.RoleAdmin)
}

// RequireAdmin allows admins only
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin)
}
