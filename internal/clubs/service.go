package clubs

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// RepositoryPort defines data access methods for clubs.
type RepositoryPort interface {
	List(ctx context.Context) ([]Club, error)
	Get(ctx context.Context, id int64) (Club, error)
	Create(ctx context.Context, name, description string, leaderID *int64) (Club, error)
	Update(ctx context.Context, id int64, name, description string) error
	SetLeader(ctx context.Context, id int64, leaderID *int64) error
	Delete(ctx context.Context, id int64) error
	CountMembers(ctx context.Context, clubID int64) (int64, error)
	CountOpenTasks(ctx context.Context, clubID int64) (int64, error)
	CountUpcomingMeetings(ctx context.Context, clubID int64) (int64, error)
	CountFiles(ctx context.Context, clubID int64) (int64, error)
}

// AuditPort records administrative actions.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles club business logic.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns all clubs.
func (s *Service) List(ctx context.Context) ([]Club, error) {
	return s.repo.List(ctx)
}

// Get returns one club.
func (s *Service) Get(ctx context.Context, id int64) (Club, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new club.
func (s *Service) Create(ctx context.Context, actorID int64, name, description string, leaderID *int64) (Club, error) {
	club, err := s.repo.Create(ctx, name, description, leaderID)
	if err != nil {
		return Club{}, err
	}
	s.recordAudit(ctx, actorID, "club.create", club.ID, map[string]any{"name": name})
	return club, nil
}

// Update changes a club's details.
func (s *Service) Update(ctx context.Context, actorID, id int64, name, description string) error {
	if err := s.repo.Update(ctx, id, name, description); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "club.update", id, map[string]any{"name": name})
	return nil
}

// SetLeader assigns or clears the club leader.
func (s *Service) SetLeader(ctx context.Context, actorID, id int64, leaderID *int64) error {
	if err := s.repo.SetLeader(ctx, id, leaderID); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "club.set_leader", id, map[string]any{"leader_id": leaderID})
	return nil
}

// Delete removes a club.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "club.delete", id, nil)
	return nil
}

// GetDashboard loads the club together with its activity counters. The
// counters are independent queries and run concurrently.
func (s *Service) GetDashboard(ctx context.Context, id int64) (Dashboard, error) {
	club, err := s.repo.Get(ctx, id)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{Club: club}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.MemberCount, err = s.repo.CountMembers(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.OpenTasks, err = s.repo.CountOpenTasks(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.UpcomingMeet, err = s.repo.CountUpcomingMeetings(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.FileCount, err = s.repo.CountFiles(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, clubID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "club",
		EntityID: fmt.Sprintf("%d", clubID),
		Meta:     meta,
	})
}
