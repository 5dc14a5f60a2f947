package authz

import "time"

// HasPermission reports whether the user holds the permission right now,
// given the optional resource context.
func HasPermission(user User, permission string, rctx *ResourceContext) bool {
	return HasPermissionAt(user, permission, rctx, time.Now())
}

// HasPermissionAt is HasPermission evaluated at an explicit instant.
//
// Decision order: inactive users are denied everything; admins are allowed
// everything, whether or not the name is in the catalog; a live explicit
// grant of the requested name allows regardless of context (explicit grants
// are not club-scoped); otherwise the role fallback decides.
func HasPermissionAt(user User, permission string, rctx *ResourceContext, at time.Time) bool {
	if !user.IsActive {
		return false
	}
	if user.Role == RoleAdmin {
		return true
	}
	for _, g := range user.Permissions {
		if g.Permission == permission && g.Live(at) {
			return true
		}
	}
	return CanPerform(user, permission)
}

// HasAnyPermission reports whether the user holds at least one of the named
// permissions. An empty list is false.
func HasAnyPermission(user User, permissions []string, rctx *ResourceContext) bool {
	return HasAnyPermissionAt(user, permissions, rctx, time.Now())
}

// HasAnyPermissionAt is HasAnyPermission at an explicit instant.
func HasAnyPermissionAt(user User, permissions []string, rctx *ResourceContext, at time.Time) bool {
	for _, p := range permissions {
		if HasPermissionAt(user, p, rctx, at) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the user holds every named permission.
// An empty list is vacuously true.
func HasAllPermissions(user User, permissions []string, rctx *ResourceContext) bool {
	return HasAllPermissionsAt(user, permissions, rctx, time.Now())
}

// HasAllPermissionsAt is HasAllPermissions at an explicit instant.
func HasAllPermissionsAt(user User, permissions []string, rctx *ResourceContext, at time.Time) bool {
	for _, p := range permissions {
		if !HasPermissionAt(user, p, rctx, at) {
			return false
		}
	}
	return true
}
