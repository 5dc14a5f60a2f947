package members

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/authz"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

type stubRepo struct {
	memberships map[int64]Membership
	nextID      int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{memberships: map[int64]Membership{}, nextID: 1}
}

func (s *stubRepo) ListByClub(ctx context.Context, clubID int64, status Status) ([]Membership, error) {
	var out []Membership
	for _, m := range s.memberships {
		if m.ClubID != clubID {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *stubRepo) Get(ctx context.Context, id int64) (Membership, error) {
	m, ok := s.memberships[id]
	if !ok {
		return Membership{}, shared.ErrNotFound
	}
	return m, nil
}

func (s *stubRepo) Create(ctx context.Context, clubID, userID int64) (int64, error) {
	for _, m := range s.memberships {
		if m.ClubID == clubID && m.UserID == userID && m.Status != StatusRejected {
			return 0, ErrAlreadyMember
		}
	}
	id := s.nextID
	s.nextID++
	s.memberships[id] = Membership{ID: id, ClubID: clubID, UserID: userID, Status: StatusPending}
	return id, nil
}

func (s *stubRepo) SetStatus(ctx context.Context, id int64, status Status, decidedBy int64) error {
	m, ok := s.memberships[id]
	if !ok {
		return shared.ErrNotFound
	}
	m.Status = status
	m.DecidedBy = &decidedBy
	s.memberships[id] = m
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := s.memberships[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.memberships, id)
	return nil
}

func TestJoinThenApprove(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	id, err := svc.Join(ctx, 10, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, 2, id))

	m, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, m.Status)
	require.NotNil(t, m.DecidedBy)
	require.Equal(t, int64(2), *m.DecidedBy)
}

func TestJoinTwiceRejected(t *testing.T) {
	svc := NewService(newStubRepo(), nil)
	ctx := context.Background()

	_, err := svc.Join(ctx, 10, 1)
	require.NoError(t, err)
	_, err = svc.Join(ctx, 10, 1)
	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestRemoveUnknownMembership(t *testing.T) {
	svc := NewService(newStubRepo(), nil)

	err := svc.Remove(context.Background(), 1, 42)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCanManageScopes(t *testing.T) {
	clubA, clubB := int64(1), int64(2)

	admin := authz.User{ID: 1, Role: authz.RoleAdmin, IsActive: true}
	require.True(t, CanManage(admin, clubA))

	leaderA := authz.User{ID: 2, Role: authz.RoleClubLeader, IsActive: true, ClubID: &clubA}
	require.True(t, CanManage(leaderA, clubA))
	require.False(t, CanManage(leaderA, clubB))

	member := authz.User{ID: 3, Role: authz.RoleMember, IsActive: true}
	require.False(t, CanManage(member, clubA))

	granted := authz.User{
		ID: 4, Role: authz.RoleMember, IsActive: true,
		Permissions: []authz.Grant{{Permission: authz.PermManageMembers}},
	}
	require.True(t, CanManage(granted, clubB))
}
