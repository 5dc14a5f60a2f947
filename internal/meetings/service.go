package meetings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// ErrInvalidWindow indicates a meeting whose times are inconsistent.
var ErrInvalidWindow = errors.New("meeting end must be after start")

// RepositoryPort defines data access methods for meetings.
type RepositoryPort interface {
	ListByClub(ctx context.Context, clubID int64, includePast bool) ([]Meeting, error)
	Get(ctx context.Context, id int64) (Meeting, error)
	Create(ctx context.Context, m Meeting) (Meeting, error)
	Delete(ctx context.Context, id int64) error
	UpsertRSVP(ctx context.Context, meetingID, userID int64, status RSVPStatus) error
	ListRSVPs(ctx context.Context, meetingID int64) ([]RSVP, error)
}

// AuditPort records administrative actions.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles meeting business logic.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
	now   func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

// SetClock overrides the time source. Test use only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// ListByClub returns the club's meetings.
func (s *Service) ListByClub(ctx context.Context, clubID int64, includePast bool) ([]Meeting, error) {
	return s.repo.ListByClub(ctx, clubID, includePast)
}

// Get fetches one meeting.
func (s *Service) Get(ctx context.Context, id int64) (Meeting, error) {
	return s.repo.Get(ctx, id)
}

// Schedule creates a meeting. The window must be in the future and
// consistent.
func (s *Service) Schedule(ctx context.Context, actorID, clubID int64, title, description, location string, startsAt, endsAt time.Time) (Meeting, error) {
	if !endsAt.After(startsAt) {
		return Meeting{}, ErrInvalidWindow
	}
	if !startsAt.After(s.now()) {
		return Meeting{}, ErrPastMeeting
	}
	meeting, err := s.repo.Create(ctx, Meeting{
		ClubID:      clubID,
		Title:       title,
		Description: description,
		Location:    location,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		CreatedBy:   actorID,
	})
	if err != nil {
		return Meeting{}, err
	}
	s.recordAudit(ctx, actorID, "meeting.schedule", meeting.ID, map[string]any{"club_id": clubID, "starts_at": startsAt})
	return meeting, nil
}

// Cancel removes a meeting that has not started yet.
func (s *Service) Cancel(ctx context.Context, actorID, id int64) error {
	meeting, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !meeting.StartsAt.After(s.now()) {
		return ErrPastMeeting
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "meeting.cancel", id, nil)
	return nil
}

// Reply records the user's RSVP. Replies close once the meeting starts.
func (s *Service) Reply(ctx context.Context, userID, meetingID int64, status RSVPStatus) error {
	if !status.Valid() {
		return fmt.Errorf("meetings: invalid rsvp status %q", status)
	}
	meeting, err := s.repo.Get(ctx, meetingID)
	if err != nil {
		return err
	}
	if !meeting.StartsAt.After(s.now()) {
		return ErrPastMeeting
	}
	return s.repo.UpsertRSVP(ctx, meetingID, userID, status)
}

// ListRSVPs returns replies for a meeting.
func (s *Service) ListRSVPs(ctx context.Context, meetingID int64) ([]RSVP, error) {
	return s.repo.ListRSVPs(ctx, meetingID)
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, meetingID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "meeting",
		EntityID: fmt.Sprintf("%d", meetingID),
		Meta:     meta,
	})
}
