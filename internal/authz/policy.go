package authz

// roleFallback lists the actions a role may perform when the user holds no
// explicit grant for them. It is consulted only after the explicit-grant
// lookup finds nothing; an explicit grant or revocation always wins.
var roleFallback = map[Role][]string{
	RoleClubLeader: {PermCreateClub, PermCreateTask, PermAssignTask, PermUploadFile},
	RoleMember:     {PermUploadFile},
}

// CanPerform resolves the legacy role fallback for an action name. Admins may
// perform anything; inactive users nothing.
func CanPerform(user User, action string) bool {
	if !user.IsActive {
		return false
	}
	if user.Role == RoleAdmin {
		return true
	}
	for _, a := range roleFallback[user.Role] {
		if a == action {
			return true
		}
	}
	return false
}

// AuthorizeRole resolves a role requirement used by route and UI guards.
// Admins are always authorized. requiredRole demands an exact match,
// allowedRoles an allow-list; with neither set, only the club-scoping rule
// applies. A club leader checked against a resource belonging to another
// club is denied regardless of the role constraints; members are not
// club-scoped.
func AuthorizeRole(user User, requiredRole *Role, allowedRoles []Role, resourceClubID *int64) bool {
	if !user.IsActive {
		return false
	}
	if user.Role == RoleAdmin {
		return true
	}
	if user.Role == RoleClubLeader && resourceClubID != nil {
		if user.ClubID == nil || *user.ClubID != *resourceClubID {
			return false
		}
	}
	if requiredRole != nil {
		return user.Role == *requiredRole
	}
	if len(allowedRoles) > 0 {
		for _, r := range allowedRoles {
			if user.Role == r {
				return true
			}
		}
		return false
	}
	return true
}

// CheckRole compares roles on the strict hierarchy admin > club_leader >
// member. Unlike AuthorizeRole this is hierarchical, not exact-match: a
// leader satisfies a member requirement.
func CheckRole(userRole, requiredRole Role) bool {
	return userRole.rank() >= requiredRole.rank()
}
