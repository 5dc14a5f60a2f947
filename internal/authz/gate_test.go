package authz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecideEmptyRequirementDenies(t *testing.T) {
	admin := User{ID: 1, Role: RoleAdmin, IsActive: true}

	d := Decide(admin, Requirement{})
	assert.False(t, d.Allowed, "no requirement means deny, even for admins")
	assert.NotEmpty(t, d.Reason)
}

func TestDecideSinglePermission(t *testing.T) {
	now := time.Now()
	user := activeMember(Grant{Permission: PermCreateTask, GrantedBy: 1, GrantedAt: now.Add(-time.Minute)})

	assert.True(t, DecideAt(user, RequirePermission(PermCreateTask), now).Allowed)

	d := DecideAt(user, RequirePermission(PermDeleteClub), now)
	assert.False(t, d.Allowed)
	assert.Contains(t, d.Reason, PermDeleteClub)
}

func TestDecidePermissionList(t *testing.T) {
	now := time.Now()
	user := activeMember(Grant{Permission: PermCreateTask, GrantedBy: 1, GrantedAt: now.Add(-time.Minute)})

	assert.True(t, DecideAt(user, RequireAnyOf(PermDeleteClub, PermCreateTask), now).Allowed)
	assert.False(t, DecideAt(user, RequireAllOf(PermDeleteClub, PermCreateTask), now).Allowed)
	assert.True(t, DecideAt(user, RequireAllOf(PermCreateTask, PermUploadFile), now).Allowed)
}

func TestDecideRoleRequirement(t *testing.T) {
	leader := User{ID: 1, Role: RoleClubLeader, IsActive: true, ClubID: int64Ptr(5)}

	assert.True(t, Decide(leader, RequireRoles(RoleClubLeader)).Allowed)
	assert.False(t, Decide(leader, RequireRoles(RoleAdmin)).Allowed)

	scoped := Requirement{AllowedRoles: []Role{RoleClubLeader}, ResourceClubID: int64Ptr(6)}
	assert.False(t, Decide(leader, scoped).Allowed, "club-scope mismatch")
	scoped.ResourceClubID = int64Ptr(5)
	assert.True(t, Decide(leader, scoped).Allowed)
}

func TestDecideResourceClubIDAloneIsARoleRequirement(t *testing.T) {
	leader := User{ID: 1, Role: RoleClubLeader, IsActive: true, ClubID: int64Ptr(5)}

	// Only a club scope: members and matching leaders pass, foreign leaders
	// do not.
	assert.True(t, Decide(leader, Requirement{ResourceClubID: int64Ptr(5)}).Allowed)
	assert.False(t, Decide(leader, Requirement{ResourceClubID: int64Ptr(9)}).Allowed)
}

func TestDecideInactiveUser(t *testing.T) {
	inactive := User{ID: 1, Role: RoleAdmin, IsActive: false}

	assert.False(t, Decide(inactive, RequirePermission(PermViewUsers)).Allowed)
	assert.False(t, Decide(inactive, RequireRoles(RoleAdmin)).Allowed)
}
