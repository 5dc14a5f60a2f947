package files

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/authz"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// MaxSizeBytes caps declared upload sizes at 50 MiB.
const MaxSizeBytes = 50 << 20

// RepositoryPort defines data access methods for file metadata.
type RepositoryPort interface {
	ListByClub(ctx context.Context, clubID int64) ([]File, error)
	Get(ctx context.Context, id int64) (File, error)
	Create(ctx context.Context, f File) (File, error)
	Delete(ctx context.Context, id int64) error
}

// AuditPort records administrative actions.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles file metadata business logic.
type Service struct {
	repo        RepositoryPort
	audit       AuditPort
	mediaBase   string
	newObjectID func() string
}

// NewService builds Service instance. mediaBase is the public URL prefix
// under which object keys resolve.
func NewService(repo RepositoryPort, audit AuditPort, mediaBase string) *Service {
	return &Service{
		repo:      repo,
		audit:     audit,
		mediaBase: strings.TrimSuffix(mediaBase, "/"),
		newObjectID: func() string {
			return uuid.NewString()
		},
	}
}

// ListByClub returns files attached to a club.
func (s *Service) ListByClub(ctx context.Context, clubID int64) ([]File, error) {
	return s.repo.ListByClub(ctx, clubID)
}

// Get fetches one file record.
func (s *Service) Get(ctx context.Context, id int64) (File, error) {
	return s.repo.Get(ctx, id)
}

// Register records uploaded-file metadata. The object key is generated
// here so names never collide regardless of the client-supplied name.
func (s *Service) Register(ctx context.Context, ownerID int64, clubID *int64, name, mimeType string, sizeBytes int64) (File, error) {
	if sizeBytes <= 0 || sizeBytes > MaxSizeBytes {
		return File{}, ErrTooLarge
	}
	key := s.newObjectID()
	if ext := path.Ext(name); ext != "" {
		key += ext
	}
	file, err := s.repo.Create(ctx, File{
		ClubID:    clubID,
		OwnerID:   ownerID,
		Name:      name,
		ObjectKey: key,
		MimeType:  mimeType,
		SizeBytes: sizeBytes,
	})
	if err != nil {
		return File{}, err
	}
	s.recordAudit(ctx, ownerID, "file.register", file.ID, map[string]any{"name": name, "size": sizeBytes})
	return file, nil
}

// Delete removes a record. Owners may delete their own files; anyone else
// needs the delete permission.
func (s *Service) Delete(ctx context.Context, actor authz.User, id int64) error {
	file, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if file.OwnerID != actor.ID && !authz.Decide(actor, authz.RequirePermission(authz.PermDeleteFile)).Allowed {
		return shared.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actor.ID, "file.delete", id, nil)
	return nil
}

// URL resolves the public URL for a stored object.
func (s *Service) URL(f File) string {
	return s.mediaBase + "/" + f.ObjectKey
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, fileID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "file",
		EntityID: fmt.Sprintf("%d", fileID),
		Meta:     meta,
	})
}
