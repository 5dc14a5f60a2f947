package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/authz"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	CountUsers(ctx context.Context) (int, error)
	ListUsers(ctx context.Context, limit, offset int) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	SetRole(ctx context.Context, id int64, role string, clubID *int64) error
}

// AuditPort records administrative actions.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles user administration business logic. It is also the
// authz.UserResolver used by the route guards.
type Service struct {
	repo   RepositoryPort
	grants authz.GrantStore
	audit  AuditPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, grants authz.GrantStore, audit AuditPort) *Service {
	return &Service{repo: repo, grants: grants, audit: audit}
}

var _ authz.UserResolver = (*Service)(nil)

// ResolveUser loads the authorization snapshot for a user, grants included.
func (s *Service) ResolveUser(ctx context.Context, userID int64) (authz.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return authz.User{}, err
	}
	grants, err := s.grants.List(ctx, userID)
	if err != nil {
		return authz.User{}, err
	}
	return authz.User{
		ID:          user.ID,
		Role:        user.Role,
		Permissions: grants,
		IsActive:    user.IsActive,
		ClubID:      user.ClubID,
	}, nil
}

// ListUsers returns one page of users with pagination metadata.
func (s *Service) ListUsers(ctx context.Context, page, perPage int) ([]User, shared.Pagination, error) {
	total, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	paging := shared.NewPagination(page, perPage, total)
	users, err := s.repo.ListUsers(ctx, paging.PerPage, (paging.Page-1)*paging.PerPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return users, paging, nil
}

// GetUser returns one user.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// Deactivate disables an account. A deactivated user is denied every
// permission on the next check; no grant cleanup is required.
func (s *Service) Deactivate(ctx context.Context, actorID, userID int64) error {
	if err := s.repo.SetActive(ctx, userID, false); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "user.deactivate", userID, nil)
	return nil
}

// Activate re-enables an account.
func (s *Service) Activate(ctx context.Context, actorID, userID int64) error {
	if err := s.repo.SetActive(ctx, userID, true); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "user.activate", userID, nil)
	return nil
}

// AssignRole changes a user's role. Club leaders may carry a club scope;
// other roles never do.
func (s *Service) AssignRole(ctx context.Context, actorID, userID int64, role authz.Role, clubID *int64) error {
	if !role.Valid() {
		return fmt.Errorf("users: invalid role %q", role)
	}
	if role != authz.RoleClubLeader {
		clubID = nil
	}
	if err := s.repo.SetRole(ctx, userID, string(role), clubID); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "user.assign_role", userID, map[string]any{"role": role, "club_id": clubID})
	return nil
}

// ListGrants returns the stored permission grants for a user, expired
// entries included.
func (s *Service) ListGrants(ctx context.Context, userID int64) ([]authz.Grant, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.grants.List(ctx, userID)
}

// GrantPermission adds a permission grant on behalf of the actor.
func (s *Service) GrantPermission(ctx context.Context, actorID, userID int64, permission string, expiresAt *time.Time) error {
	if err := s.grants.Grant(ctx, userID, permission, actorID, expiresAt); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "permission.grant", userID, map[string]any{"permission": permission, "expires_at": expiresAt})
	return nil
}

// RevokePermission removes a grant. Idempotent.
func (s *Service) RevokePermission(ctx context.Context, actorID, userID int64, permission string) error {
	if err := s.grants.Revoke(ctx, userID, permission); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "permission.revoke", userID, map[string]any{"permission": permission})
	return nil
}

// SetPermissions replaces the user's grant list wholesale. Used to apply
// role templates.
func (s *Service) SetPermissions(ctx context.Context, actorID, userID int64, permissions []string) error {
	if err := s.grants.SetAll(ctx, userID, permissions, actorID); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "permission.set_all", userID, map[string]any{"permissions": permissions})
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, userID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: fmt.Sprintf("%d", userID),
		Meta:     meta,
	})
}

// IsNotFound reports whether err is the user-missing case.
func IsNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
