package notifications

import (
	"context"
	"fmt"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// RepositoryPort defines data access methods for notifications.
type RepositoryPort interface {
	ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]Notification, error)
	Create(ctx context.Context, n Notification) (Notification, error)
	CreateForAllActive(ctx context.Context, kind Kind, title, body string) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

// Enqueuer hands announcement fan-out to the background worker.
type Enqueuer interface {
	EnqueueAnnouncement(ctx context.Context, title, body string) error
}

// IdempotencyPort deduplicates announcement submissions.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// AuditPort records administrative actions.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

const idempotencyModule = "notifications"

// Service handles notification business logic.
type Service struct {
	repo     RepositoryPort
	enqueuer Enqueuer
	idem     IdempotencyPort
	audit    AuditPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, enqueuer Enqueuer, idem IdempotencyPort, audit AuditPort) *Service {
	return &Service{repo: repo, enqueuer: enqueuer, idem: idem, audit: audit}
}

// List returns the user's notifications.
func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool) ([]Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly)
}

// Notify delivers one notification directly.
func (s *Service) Notify(ctx context.Context, userID int64, kind Kind, title, body string) (Notification, error) {
	return s.repo.Create(ctx, Notification{UserID: userID, Kind: kind, Title: title, Body: body})
}

// Announce schedules a system-wide announcement. Delivery runs in the
// background worker; the idempotency key guards against double submission
// of the same announcement.
func (s *Service) Announce(ctx context.Context, actorID int64, idempotencyKey, title, body string) error {
	if s.idem != nil && idempotencyKey != "" {
		if err := s.idem.CheckAndInsert(ctx, idempotencyKey, idempotencyModule); err != nil {
			return err
		}
	}
	if err := s.enqueuer.EnqueueAnnouncement(ctx, title, body); err != nil {
		if s.idem != nil && idempotencyKey != "" {
			_ = s.idem.Delete(ctx, idempotencyKey)
		}
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "announcement.send",
			Entity:   "announcement",
			EntityID: "broadcast",
			Meta:     map[string]any{"title": title},
		})
	}
	return nil
}

// FanOut writes the announcement into every active user's inbox. Called by
// the worker.
func (s *Service) FanOut(ctx context.Context, title, body string) (int64, error) {
	n, err := s.repo.CreateForAllActive(ctx, KindAnnouncement, title, body)
	if err != nil {
		return 0, fmt.Errorf("notifications: fan out announcement: %w", err)
	}
	return n, nil
}

// MarkRead records that the user read one notification.
func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead clears the user's unread set.
func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}
