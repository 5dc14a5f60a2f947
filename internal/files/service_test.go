package files

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/authz"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

type stubRepo struct {
	files  map[int64]File
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{files: map[int64]File{}, nextID: 1}
}

func (s *stubRepo) ListByClub(ctx context.Context, clubID int64) ([]File, error) {
	var out []File
	for _, f := range s.files {
		if f.ClubID != nil && *f.ClubID == clubID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *stubRepo) Get(ctx context.Context, id int64) (File, error) {
	f, ok := s.files[id]
	if !ok {
		return File{}, shared.ErrNotFound
	}
	return f, nil
}

func (s *stubRepo) Create(ctx context.Context, f File) (File, error) {
	f.ID = s.nextID
	s.nextID++
	s.files[f.ID] = f
	return f, nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := s.files[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.files, id)
	return nil
}

func TestRegisterGeneratesObjectKey(t *testing.T) {
	svc := NewService(newStubRepo(), nil, "https://media.example.com/")
	ctx := context.Background()

	a, err := svc.Register(ctx, 1, nil, "poster.png", "image/png", 1024)
	require.NoError(t, err)
	b, err := svc.Register(ctx, 1, nil, "poster.png", "image/png", 1024)
	require.NoError(t, err)

	require.NotEqual(t, a.ObjectKey, b.ObjectKey)
	require.True(t, strings.HasSuffix(a.ObjectKey, ".png"))
	require.Equal(t, "https://media.example.com/"+a.ObjectKey, svc.URL(a))
}

func TestRegisterRejectsOversize(t *testing.T) {
	svc := NewService(newStubRepo(), nil, "https://media.example.com")

	_, err := svc.Register(context.Background(), 1, nil, "video.mp4", "video/mp4", MaxSizeBytes+1)
	require.ErrorIs(t, err, ErrTooLarge)

	_, err = svc.Register(context.Background(), 1, nil, "empty.txt", "text/plain", 0)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestDeleteOwnership(t *testing.T) {
	svc := NewService(newStubRepo(), nil, "https://media.example.com")
	ctx := context.Background()

	file, err := svc.Register(ctx, 5, nil, "notes.pdf", "application/pdf", 2048)
	require.NoError(t, err)

	other := authz.User{ID: 9, Role: authz.RoleMember, IsActive: true}
	err = svc.Delete(ctx, other, file.ID)
	require.ErrorIs(t, err, shared.ErrForbidden)

	owner := authz.User{ID: 5, Role: authz.RoleMember, IsActive: true}
	require.NoError(t, svc.Delete(ctx, owner, file.ID))
}

func TestDeleteWithPermission(t *testing.T) {
	svc := NewService(newStubRepo(), nil, "https://media.example.com")
	ctx := context.Background()

	file, err := svc.Register(ctx, 5, nil, "notes.pdf", "application/pdf", 2048)
	require.NoError(t, err)

	moderator := authz.User{
		ID: 9, Role: authz.RoleMember, IsActive: true,
		Permissions: []authz.Grant{{Permission: authz.PermDeleteFile}},
	}
	require.NoError(t, svc.Delete(ctx, moderator, file.ID))
}
