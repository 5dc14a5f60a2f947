package meetings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

type stubRepo struct {
	meetings map[int64]Meeting
	rsvps    map[int64]map[int64]RSVPStatus
	nextID   int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		meetings: map[int64]Meeting{},
		rsvps:    map[int64]map[int64]RSVPStatus{},
		nextID:   1,
	}
}

func (s *stubRepo) ListByClub(ctx context.Context, clubID int64, includePast bool) ([]Meeting, error) {
	var out []Meeting
	for _, m := range s.meetings {
		if m.ClubID == clubID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubRepo) Get(ctx context.Context, id int64) (Meeting, error) {
	m, ok := s.meetings[id]
	if !ok {
		return Meeting{}, shared.ErrNotFound
	}
	return m, nil
}

func (s *stubRepo) Create(ctx context.Context, m Meeting) (Meeting, error) {
	m.ID = s.nextID
	s.nextID++
	s.meetings[m.ID] = m
	return m, nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := s.meetings[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.meetings, id)
	return nil
}

func (s *stubRepo) UpsertRSVP(ctx context.Context, meetingID, userID int64, status RSVPStatus) error {
	if s.rsvps[meetingID] == nil {
		s.rsvps[meetingID] = map[int64]RSVPStatus{}
	}
	s.rsvps[meetingID][userID] = status
	return nil
}

func (s *stubRepo) ListRSVPs(ctx context.Context, meetingID int64) ([]RSVP, error) {
	var out []RSVP
	for userID, status := range s.rsvps[meetingID] {
		out = append(out, RSVP{MeetingID: meetingID, UserID: userID, Status: status})
	}
	return out, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestScheduleValidatesWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewService(newStubRepo(), nil)
	svc.SetClock(fixedClock(now))
	ctx := context.Background()

	_, err := svc.Schedule(ctx, 1, 1, "Weekly sync", "", "Room 4", now.Add(2*time.Hour), now.Add(time.Hour))
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.Schedule(ctx, 1, 1, "Weekly sync", "", "Room 4", now.Add(-time.Hour), now.Add(time.Hour))
	require.ErrorIs(t, err, ErrPastMeeting)

	m, err := svc.Schedule(ctx, 1, 1, "Weekly sync", "", "Room 4", now.Add(time.Hour), now.Add(2*time.Hour))
	require.NoError(t, err)
	require.NotZero(t, m.ID)
}

func TestReplyUpsertsAndClosesAtStart(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	svc := NewService(repo, nil)
	svc.SetClock(fixedClock(now))
	ctx := context.Background()

	m, err := svc.Schedule(ctx, 1, 1, "AGM", "", "", now.Add(time.Hour), now.Add(2*time.Hour))
	require.NoError(t, err)

	require.NoError(t, svc.Reply(ctx, 7, m.ID, RSVPMaybe))
	require.NoError(t, svc.Reply(ctx, 7, m.ID, RSVPYes))

	rsvps, err := svc.ListRSVPs(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, rsvps, 1)
	require.Equal(t, RSVPYes, rsvps[0].Status)

	svc.SetClock(fixedClock(now.Add(time.Hour)))
	err = svc.Reply(ctx, 7, m.ID, RSVPNo)
	require.ErrorIs(t, err, ErrPastMeeting)
}

func TestReplyRejectsUnknownStatus(t *testing.T) {
	svc := NewService(newStubRepo(), nil)

	err := svc.Reply(context.Background(), 7, 1, RSVPStatus("perhaps"))
	require.Error(t, err)
}

func TestCancelStartedMeeting(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := NewService(newStubRepo(), nil)
	svc.SetClock(fixedClock(now))
	ctx := context.Background()

	m, err := svc.Schedule(ctx, 1, 1, "Workshop", "", "", now.Add(time.Minute), now.Add(time.Hour))
	require.NoError(t, err)

	svc.SetClock(fixedClock(now.Add(time.Minute)))
	err = svc.Cancel(ctx, 1, m.ID)
	require.ErrorIs(t, err, ErrPastMeeting)
}
