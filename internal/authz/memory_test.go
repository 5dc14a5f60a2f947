package authz

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGrantThenHasPermission(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Grant(ctx, 7, PermCreateClub, 1, nil))

	grants, err := store.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, int64(1), grants[0].GrantedBy)

	user := User{ID: 7, Role: RoleMember, IsActive: true, Permissions: grants}
	assert.True(t, HasPermission(user, PermCreateClub, nil))
}

func TestMemoryStoreGrantUnknownPermission(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Grant(ctx, 7, "BAD_NAME", 1, nil)
	require.ErrorIs(t, err, ErrUnknownPermission)

	grants, err := store.List(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, grants)
}

func TestMemoryStoreDuplicateGrant(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Grant(ctx, 7, PermCreateTask, 1, nil))
	err := store.Grant(ctx, 7, PermCreateTask, 2, nil)
	require.ErrorIs(t, err, ErrDuplicateGrant)

	grants, err := store.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, grants, 1, "exactly one grant survives")
	assert.Equal(t, int64(1), grants[0].GrantedBy, "original grant is not overwritten")
}

func TestMemoryStoreExpiredGrantIsReplaceable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Now()
	clock := base
	var mu sync.Mutex
	store.SetClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return clock
	})

	expiry := base.Add(time.Hour)
	require.NoError(t, store.Grant(ctx, 7, PermAssignTask, 1, &expiry))

	// While live, a second grant is a duplicate.
	require.ErrorIs(t, store.Grant(ctx, 7, PermAssignTask, 1, nil), ErrDuplicateGrant)

	// The grant expires: List still returns it but the evaluator denies.
	mu.Lock()
	clock = base.Add(2 * time.Hour)
	mu.Unlock()
	grants, err := store.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	user := User{ID: 7, Role: RoleMember, IsActive: true, Permissions: grants}
	assert.False(t, HasPermissionAt(user, PermAssignTask, nil, base.Add(2*time.Hour)))

	// Granting again replaces the expired entry instead of duplicating it.
	require.NoError(t, store.Grant(ctx, 7, PermAssignTask, 2, nil))
	grants, err = store.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, int64(2), grants[0].GrantedBy)
}

func TestMemoryStoreGrantRejectsPastExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	past := time.Now().Add(-time.Hour)
	err := store.Grant(ctx, 7, PermCreateTask, 1, &past)
	require.ErrorIs(t, err, ErrInvalidExpiry)
}

func TestMemoryStoreRevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Grant(ctx, 7, PermCreateClub, 1, nil))
	require.NoError(t, store.Revoke(ctx, 7, PermCreateClub))
	require.NoError(t, store.Revoke(ctx, 7, PermCreateClub), "revoking again is not an error")
	require.NoError(t, store.Revoke(ctx, 7, PermDeleteClub), "revoking a grant that never existed is not an error")

	grants, err := store.List(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, grants)
}

func TestMemoryStoreRevokeLeavesOthersUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Grant(ctx, 7, PermCreateClub, 1, nil))
	require.NoError(t, store.Grant(ctx, 7, PermCreateTask, 1, nil))
	require.NoError(t, store.Revoke(ctx, 7, PermCreateClub))

	grants, err := store.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, PermCreateTask, grants[0].Permission)
}

func TestMemoryStoreSetAllIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Grant(ctx, 7, PermUploadFile, 1, nil))

	err := store.SetAll(ctx, 7, []string{PermCreateClub, "BAD_NAME"}, 2)
	require.ErrorIs(t, err, ErrUnknownPermission)

	grants, err := store.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, grants, 1, "failed bulk set leaves the prior list untouched")
	assert.Equal(t, PermUploadFile, grants[0].Permission)

	require.NoError(t, store.SetAll(ctx, 7, []string{PermCreateClub, PermCreateTask, PermCreateTask}, 2))
	grants, err = store.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, grants, 2, "bulk set deduplicates by name")
}

func TestMemoryStoreConcurrentGrants(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			_ = store.Grant(ctx, 7, PermCreateClub, n, nil)
		}(int64(i))
	}
	wg.Wait()

	grants, err := store.List(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, grants, 1, "concurrent grants leave exactly one surviving grant")
}
