package members

import (
	"context"
	"fmt"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/authz"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// RepositoryPort defines data access methods for memberships.
type RepositoryPort interface {
	ListByClub(ctx context.Context, clubID int64, status Status) ([]Membership, error)
	Get(ctx context.Context, id int64) (Membership, error)
	Create(ctx context.Context, clubID, userID int64) (int64, error)
	SetStatus(ctx context.Context, id int64, status Status, decidedBy int64) error
	Delete(ctx context.Context, id int64) error
}

// AuditPort records administrative actions.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles membership business logic.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// CanManage reports whether the user may manage the club's membership:
// an explicit grant, the admin role, or being the leader of that club.
func CanManage(user authz.User, clubID int64) bool {
	if authz.Decide(user, authz.RequirePermission(authz.PermManageMembers)).Allowed {
		return true
	}
	req := authz.Requirement{
		AllowedRoles:   []authz.Role{authz.RoleClubLeader},
		ResourceClubID: &clubID,
	}
	return authz.Decide(user, req).Allowed
}

// List returns the club's memberships, optionally filtered by status.
func (s *Service) List(ctx context.Context, clubID int64, status Status) ([]Membership, error) {
	return s.repo.ListByClub(ctx, clubID, status)
}

// Join records a pending membership request for the calling user.
func (s *Service) Join(ctx context.Context, userID, clubID int64) (int64, error) {
	return s.repo.Create(ctx, clubID, userID)
}

// Approve accepts a pending membership.
func (s *Service) Approve(ctx context.Context, actorID, membershipID int64) error {
	return s.decide(ctx, actorID, membershipID, StatusApproved)
}

// Reject declines a pending membership.
func (s *Service) Reject(ctx context.Context, actorID, membershipID int64) error {
	return s.decide(ctx, actorID, membershipID, StatusRejected)
}

func (s *Service) decide(ctx context.Context, actorID, membershipID int64, status Status) error {
	if err := s.repo.SetStatus(ctx, membershipID, status, actorID); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "member."+string(status), membershipID, nil)
	return nil
}

// Remove deletes a membership from the club.
func (s *Service) Remove(ctx context.Context, actorID, membershipID int64) error {
	if err := s.repo.Delete(ctx, membershipID); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "member.remove", membershipID, nil)
	return nil
}

// Get fetches one membership.
func (s *Service) Get(ctx context.Context, id int64) (Membership, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, membershipID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "membership",
		EntityID: fmt.Sprintf("%d", membershipID),
		Meta:     meta,
	})
}
