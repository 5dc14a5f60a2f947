package authz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

type stubResolver struct {
	user User
	err  error
}

func (s *stubResolver) ResolveUser(ctx context.Context, userID int64) (User, error) {
	if s.err != nil {
		return User{}, s.err
	}
	return s.user, nil
}

func requestWithSessionUser(t *testing.T, userID string) *http.Request {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/clubs", nil)
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	if userID != "" {
		sess.SetUser(userID)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func serveGuarded(mw func(http.Handler) http.Handler, req *http.Request) *httptest.ResponseRecorder {
	var hit bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		w.WriteHeader(http.StatusNoContent)
	})
	res := httptest.NewRecorder()
	mw(next).ServeHTTP(res, req)
	_ = hit
	return res
}

func TestMiddlewareRequireAnyAllows(t *testing.T) {
	user := User{ID: 42, Role: RoleMember, IsActive: true, Permissions: []Grant{
		{Permission: PermCreateClub, GrantedBy: 1, GrantedAt: time.Now().Add(-time.Minute)},
	}}
	m := Middleware{Resolver: &stubResolver{user: user}}

	res := serveGuarded(m.RequireAny(PermCreateClub, PermDeleteClub), requestWithSessionUser(t, "42"))
	assert.Equal(t, http.StatusNoContent, res.Code)
}

func TestMiddlewareRequireAllDenies(t *testing.T) {
	user := User{ID: 42, Role: RoleMember, IsActive: true}
	m := Middleware{Resolver: &stubResolver{user: user}}

	res := serveGuarded(m.RequireAll(PermUploadFile, PermDeleteFile), requestWithSessionUser(t, "42"))
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestMiddlewareRequireRole(t *testing.T) {
	leader := User{ID: 42, Role: RoleClubLeader, IsActive: true}
	m := Middleware{Resolver: &stubResolver{user: leader}}

	assert.Equal(t, http.StatusNoContent,
		serveGuarded(m.RequireRole(RoleClubLeader, RoleAdmin), requestWithSessionUser(t, "42")).Code)
	assert.Equal(t, http.StatusForbidden,
		serveGuarded(m.RequireRole(RoleAdmin), requestWithSessionUser(t, "42")).Code)
}

func TestMiddlewareNoSessionUser(t *testing.T) {
	m := Middleware{Resolver: &stubResolver{user: User{ID: 42, Role: RoleAdmin, IsActive: true}}}

	res := serveGuarded(m.RequireAny(PermViewUsers), requestWithSessionUser(t, ""))
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestMiddlewareResolverFailureIsNeverAllow(t *testing.T) {
	m := Middleware{Resolver: &stubResolver{err: &StoreError{Op: "list", Err: errors.New("connection lost")}}}

	res := serveGuarded(m.RequireAny(PermViewUsers), requestWithSessionUser(t, "42"))
	assert.Equal(t, http.StatusInternalServerError, res.Code)
}

func TestMiddlewareZeroPermissionsDenies(t *testing.T) {
	admin := User{ID: 42, Role: RoleAdmin, IsActive: true}
	m := Middleware{Resolver: &stubResolver{user: admin}}

	// An empty guard is an empty requirement: fail closed.
	res := serveGuarded(m.RequireAny(), requestWithSessionUser(t, "42"))
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestMiddlewarePutsUserInContext(t *testing.T) {
	user := User{ID: 42, Role: RoleAdmin, IsActive: true}
	m := Middleware{Resolver: &stubResolver{user: user}}

	var got User
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = UserFromContext(r.Context())
	})
	res := httptest.NewRecorder()
	m.RequireRole(RoleAdmin)(next).ServeHTTP(res, requestWithSessionUser(t, "42"))

	require.True(t, ok)
	assert.Equal(t, int64(42), got.ID)
}
