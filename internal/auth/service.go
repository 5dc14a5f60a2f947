package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/authz"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// WelcomeMailer queues the onboarding email for a fresh account.
type WelcomeMailer interface {
	EnqueueWelcomeEmail(ctx context.Context, to, name string) error
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	mailer WelcomeMailer
}

// NewService constructs a new Service. mailer may be nil; registration
// then skips the welcome email.
func NewService(repo Repository, mailer WelcomeMailer) *Service {
	return &Service{repo: repo, mailer: mailer}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Register creates a new account. New accounts always start as plain
// members; role changes go through the privileged assignment endpoint.
func (s *Service) Register(ctx context.Context, email, name, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.CreateUser(ctx, strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(name), string(hash), string(authz.RoleMember))
	if err != nil {
		return nil, err
	}
	if s.mailer != nil {
		// Best effort; registration already succeeded.
		_ = s.mailer.EnqueueWelcomeEmail(ctx, user.Email, user.Name)
	}
	return user, nil
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
