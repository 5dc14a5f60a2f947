package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/authz"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// RepositoryPort defines data access methods for tasks.
type RepositoryPort interface {
	ListByClub(ctx context.Context, clubID int64) ([]Task, error)
	ListByAssignee(ctx context.Context, userID int64) ([]Task, error)
	Get(ctx context.Context, id int64) (Task, error)
	Create(ctx context.Context, t Task) (Task, error)
	Update(ctx context.Context, id int64, title, description string, dueAt *time.Time) error
	SetAssignee(ctx context.Context, id int64, assigneeID *int64) error
	SetStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}

// AuditPort records administrative actions.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles task business logic.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// ListByClub returns the club's tasks.
func (s *Service) ListByClub(ctx context.Context, clubID int64) ([]Task, error) {
	return s.repo.ListByClub(ctx, clubID)
}

// ListMine returns tasks assigned to the user.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]Task, error) {
	return s.repo.ListByAssignee(ctx, userID)
}

// Get fetches one task.
func (s *Service) Get(ctx context.Context, id int64) (Task, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new task in pending state.
func (s *Service) Create(ctx context.Context, actorID, clubID int64, title, description string, assigneeID *int64, dueAt *time.Time) (Task, error) {
	task, err := s.repo.Create(ctx, Task{
		ClubID:      clubID,
		Title:       title,
		Description: description,
		AssigneeID:  assigneeID,
		CreatedBy:   actorID,
		DueAt:       dueAt,
	})
	if err != nil {
		return Task{}, err
	}
	s.recordAudit(ctx, actorID, "task.create", task.ID, map[string]any{"title": title, "club_id": clubID})
	return task, nil
}

// Update changes a task's details.
func (s *Service) Update(ctx context.Context, actorID, id int64, title, description string, dueAt *time.Time) error {
	if err := s.repo.Update(ctx, id, title, description, dueAt); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "task.update", id, nil)
	return nil
}

// Assign sets the task's assignee.
func (s *Service) Assign(ctx context.Context, actorID, id int64, assigneeID *int64) error {
	if err := s.repo.SetAssignee(ctx, id, assigneeID); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "task.assign", id, map[string]any{"assignee_id": assigneeID})
	return nil
}

// Transition moves the task through its lifecycle. The actor must either
// hold the completion permission or be the task's assignee; other
// transitions are open to the assignee and to edit-permission holders.
func (s *Service) Transition(ctx context.Context, actor authz.User, id int64, to Status) error {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(task.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrBadTransition, task.Status, to)
	}

	isAssignee := task.AssigneeID != nil && *task.AssigneeID == actor.ID
	required := authz.PermEditTask
	if to == StatusCompleted {
		required = authz.PermCompleteTask
	}
	if !isAssignee && !authz.Decide(actor, authz.RequirePermission(required)).Allowed {
		return shared.ErrForbidden
	}

	if err := s.repo.SetStatus(ctx, id, to); err != nil {
		return err
	}
	s.recordAudit(ctx, actor.ID, "task.status", id, map[string]any{"status": to})
	return nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "task.delete", id, nil)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, taskID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "task",
		EntityID: fmt.Sprintf("%d", taskID),
		Meta:     meta,
	})
}
