package authz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func int64Ptr(v int64) *int64 { return &v }

func activeMember(grants ...Grant) User {
	return User{ID: 7, Role: RoleMember, Permissions: grants, IsActive: true}
}

func TestHasPermissionInactiveUserDeniedEverything(t *testing.T) {
	now := time.Now()
	user := User{
		ID:       1,
		Role:     RoleAdmin,
		IsActive: false,
		Permissions: []Grant{
			{Permission: PermCreateClub, GrantedBy: 2, GrantedAt: now.Add(-time.Hour)},
		},
	}
	for _, e := range Catalog() {
		assert.False(t, HasPermissionAt(user, e.Name, nil, now), e.Name)
	}
	assert.False(t, HasPermissionAt(user, PermCreateClub, nil, now), "explicit grant must not override inactivity")
}

func TestHasPermissionAdminBypassesEverything(t *testing.T) {
	now := time.Now()
	admin := User{ID: 1, Role: RoleAdmin, IsActive: true}
	for _, e := range Catalog() {
		assert.True(t, HasPermissionAt(admin, e.Name, nil, now), e.Name)
	}
	// The bypass is unconditional: it fires even for names the catalog does
	// not know. Validation happens at grant time, not check time.
	assert.True(t, HasPermissionAt(admin, "NOT_IN_CATALOG", nil, now))
}

func TestHasPermissionExplicitGrant(t *testing.T) {
	now := time.Now()
	user := activeMember(Grant{Permission: PermCreateClub, GrantedBy: 1, GrantedAt: now.Add(-time.Minute)})

	assert.True(t, HasPermissionAt(user, PermCreateClub, nil, now))
	assert.False(t, HasPermissionAt(user, PermDeleteClub, nil, now))
}

func TestHasPermissionExplicitGrantIgnoresContext(t *testing.T) {
	now := time.Now()
	user := activeMember(Grant{Permission: PermEditClub, GrantedBy: 1, GrantedAt: now.Add(-time.Minute)})
	rctx := &ResourceContext{ClubID: int64Ptr(99), ResourceOwnerID: int64Ptr(42)}

	// Explicit grants are not club-scoped; only the role-requirement path
	// honors club scoping.
	assert.True(t, HasPermissionAt(user, PermEditClub, rctx, now))
}

func TestHasPermissionLazyExpiry(t *testing.T) {
	now := time.Now()
	expired := Grant{
		Permission: PermAssignTask,
		GrantedBy:  1,
		GrantedAt:  now.Add(-2 * time.Hour),
		ExpiresAt:  timePtr(now.Add(-time.Hour)),
	}
	live := Grant{
		Permission: PermCreateTask,
		GrantedBy:  1,
		GrantedAt:  now.Add(-2 * time.Hour),
		ExpiresAt:  timePtr(now.Add(time.Hour)),
	}
	user := activeMember(expired, live)

	assert.False(t, HasPermissionAt(user, PermAssignTask, nil, now), "expired grant is treated as absent")
	assert.True(t, HasPermissionAt(user, PermCreateTask, nil, now))
	// Exactly at the expiry instant the grant is no longer live.
	assert.False(t, HasPermissionAt(user, PermCreateTask, nil, now.Add(time.Hour)))
}

func TestHasPermissionFallsThroughToRoleFallback(t *testing.T) {
	now := time.Now()
	member := activeMember()
	assert.True(t, HasPermissionAt(member, PermUploadFile, nil, now))
	assert.False(t, HasPermissionAt(member, PermCreateClub, nil, now))

	// An explicit grant for an unrelated permission does not suppress the
	// fallback for other names.
	granted := activeMember(Grant{Permission: PermViewUsers, GrantedBy: 1, GrantedAt: now.Add(-time.Minute)})
	assert.True(t, HasPermissionAt(granted, PermUploadFile, nil, now))
}

func TestHasAnyPermissionEmptyListIsFalse(t *testing.T) {
	now := time.Now()
	users := []User{
		{ID: 1, Role: RoleAdmin, IsActive: true},
		activeMember(),
		{ID: 3, Role: RoleClubLeader, IsActive: false},
	}
	for _, u := range users {
		assert.False(t, HasAnyPermissionAt(u, nil, nil, now))
		assert.False(t, HasAnyPermissionAt(u, []string{}, nil, now))
	}
}

func TestHasAllPermissionsEmptyListIsTrue(t *testing.T) {
	now := time.Now()
	users := []User{
		{ID: 1, Role: RoleAdmin, IsActive: true},
		activeMember(),
		{ID: 3, Role: RoleClubLeader, IsActive: false},
	}
	for _, u := range users {
		assert.True(t, HasAllPermissionsAt(u, nil, nil, now))
		assert.True(t, HasAllPermissionsAt(u, []string{}, nil, now))
	}
}

func TestHasAnyAndAllCombinations(t *testing.T) {
	now := time.Now()
	user := activeMember(Grant{Permission: PermCreateTask, GrantedBy: 1, GrantedAt: now.Add(-time.Minute)})

	assert.True(t, HasAnyPermissionAt(user, []string{PermDeleteClub, PermCreateTask}, nil, now))
	assert.False(t, HasAnyPermissionAt(user, []string{PermDeleteClub, PermDeleteFile}, nil, now))

	// UPLOAD_FILE arrives via role fallback, CREATE_TASK via explicit grant.
	assert.True(t, HasAllPermissionsAt(user, []string{PermCreateTask, PermUploadFile}, nil, now))
	assert.False(t, HasAllPermissionsAt(user, []string{PermCreateTask, PermDeleteClub}, nil, now))
}
