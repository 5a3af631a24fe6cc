package auth

import (
	"slices"

	"tourlog/internal/apperr"
	"tourlog/internal/model"
)

// HasPermission is always true for admins; otherwise the permission must be
// listed in the claims.
func HasPermission(claims *Claims, perm model.Permission) bool {
	if claims == nil {
		return false
	}
	if claims.Role == model.RoleAdmin {
		return true
	}
	return slices.Contains(claims.Permissions, perm)
}

// RequireRole denies unless the claims carry exactly the given role
func RequireRole(claims *Claims, role model.Role) error {
	return RequireAnyRole(claims, role)
}

// RequireAnyRole denies unless the claims carry one of the given roles
func RequireAnyRole(claims *Claims, roles ...model.Role) error {
	if claims != nil && slices.Contains(roles, claims.Role) {
		return nil
	}
	return apperr.Forbidden("Access denied: insufficient role")
}

// RequirePermission denies unless HasPermission holds
func RequirePermission(claims *Claims, perm model.Permission) error {
	if HasPermission(claims, perm) {
		return nil
	}
	return apperr.Forbidden("Access denied: missing permission '" + string(perm) + "'")
}
