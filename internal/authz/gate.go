package authz

import "time"

// Requirement describes what a caller demands before an action proceeds.
// Exactly one of the three forms is expected: a single permission, a list of
// permissions, or a role requirement. An empty requirement denies.
type Requirement struct {
	// Single-permission form.
	Permission string
	// Permission-list form; RequireAll selects all-of over any-of.
	Permissions []string
	RequireAll  bool
	// Optional resource context for the permission forms.
	Context *ResourceContext

	// Role-requirement form.
	RequiredRole   *Role
	AllowedRoles   []Role
	ResourceClubID *int64
}

// Decision is the gate outcome. Reason is advisory, for logs and response
// bodies; the gate never produces transport-level errors.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// RequirePermission builds a single-permission requirement.
func RequirePermission(name string) Requirement {
	return Requirement{Permission: name}
}

// RequireAnyOf builds an any-of permission requirement.
func RequireAnyOf(names ...string) Requirement {
	return Requirement{Permissions: names}
}

// RequireAllOf builds an all-of permission requirement.
func RequireAllOf(names ...string) Requirement {
	return Requirement{Permissions: names, RequireAll: true}
}

// RequireRoles builds a role allow-list requirement.
func RequireRoles(roles ...Role) Requirement {
	return Requirement{AllowedRoles: roles}
}

// Decide resolves a requirement against the user snapshot. An empty or
// unrecognised requirement denies; the gate never defaults to allow.
func Decide(user User, req Requirement) Decision {
	return DecideAt(user, req, time.Now())
}

// DecideAt is Decide evaluated at an explicit instant.
func DecideAt(user User, req Requirement, at time.Time) Decision {
	switch {
	case req.Permission != "":
		if HasPermissionAt(user, req.Permission, req.Context, at) {
			return allow()
		}
		return deny("missing permission " + req.Permission)
	case len(req.Permissions) > 0:
		if req.RequireAll {
			if HasAllPermissionsAt(user, req.Permissions, req.Context, at) {
				return allow()
			}
			return deny("missing one or more required permissions")
		}
		if HasAnyPermissionAt(user, req.Permissions, req.Context, at) {
			return allow()
		}
		return deny("missing all acceptable permissions")
	case req.RequiredRole != nil || len(req.AllowedRoles) > 0 || req.ResourceClubID != nil:
		if AuthorizeRole(user, req.RequiredRole, req.AllowedRoles, req.ResourceClubID) {
			return allow()
		}
		return deny("role not authorized")
	default:
		return deny("no requirement specified")
	}
}
