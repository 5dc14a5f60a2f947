package clubs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

type stubRepo struct {
	clubs    map[int64]Club
	nextID   int64
	members  int64
	tasks    int64
	meets    int64
	files    int64
	countErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{clubs: map[int64]Club{}, nextID: 1}
}

func (s *stubRepo) List(ctx context.Context) ([]Club, error) {
	out := make([]Club, 0, len(s.clubs))
	for _, c := range s.clubs {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubRepo) Get(ctx context.Context, id int64) (Club, error) {
	c, ok := s.clubs[id]
	if !ok {
		return Club{}, shared.ErrNotFound
	}
	return c, nil
}

func (s *stubRepo) Create(ctx context.Context, name, description string, leaderID *int64) (Club, error) {
	for _, c := range s.clubs {
		if c.Name == name {
			return Club{}, ErrNameTaken
		}
	}
	c := Club{ID: s.nextID, Name: name, Description: description, LeaderID: leaderID}
	s.clubs[c.ID] = c
	s.nextID++
	return c, nil
}

func (s *stubRepo) Update(ctx context.Context, id int64, name, description string) error {
	c, ok := s.clubs[id]
	if !ok {
		return shared.ErrNotFound
	}
	c.Name, c.Description = name, description
	s.clubs[id] = c
	return nil
}

func (s *stubRepo) SetLeader(ctx context.Context, id int64, leaderID *int64) error {
	c, ok := s.clubs[id]
	if !ok {
		return shared.ErrNotFound
	}
	c.LeaderID = leaderID
	s.clubs[id] = c
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := s.clubs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.clubs, id)
	return nil
}

func (s *stubRepo) CountMembers(ctx context.Context, clubID int64) (int64, error) {
	return s.members, s.countErr
}

func (s *stubRepo) CountOpenTasks(ctx context.Context, clubID int64) (int64, error) {
	return s.tasks, s.countErr
}

func (s *stubRepo) CountUpcomingMeetings(ctx context.Context, clubID int64) (int64, error) {
	return s.meets, s.countErr
}

func (s *stubRepo) CountFiles(ctx context.Context, clubID int64) (int64, error) {
	return s.files, s.countErr
}

func TestCreateAndGetClub(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "Robotics", "Builds robots", nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Robotics", got.Name)
}

func TestCreateDuplicateName(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "Chess", "", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, "Chess", "", nil)
	require.ErrorIs(t, err, ErrNameTaken)
}

func TestDashboardAggregatesCounters(t *testing.T) {
	repo := newStubRepo()
	repo.members, repo.tasks, repo.meets, repo.files = 12, 3, 2, 8
	svc := NewService(repo, nil)
	ctx := context.Background()

	club, err := svc.Create(ctx, 1, "Photography", "", nil)
	require.NoError(t, err)

	d, err := svc.GetDashboard(ctx, club.ID)
	require.NoError(t, err)
	require.Equal(t, int64(12), d.MemberCount)
	require.Equal(t, int64(3), d.OpenTasks)
	require.Equal(t, int64(2), d.UpcomingMeet)
	require.Equal(t, int64(8), d.FileCount)
}

func TestDashboardPropagatesCounterError(t *testing.T) {
	repo := newStubRepo()
	repo.countErr = errors.New("query timeout")
	svc := NewService(repo, nil)
	ctx := context.Background()

	club, err := svc.Create(ctx, 1, "Debate", "", nil)
	require.NoError(t, err)

	_, err = svc.GetDashboard(ctx, club.ID)
	require.Error(t, err)
}

func TestDashboardUnknownClub(t *testing.T) {
	svc := NewService(newStubRepo(), nil)

	_, err := svc.GetDashboard(context.Background(), 42)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
