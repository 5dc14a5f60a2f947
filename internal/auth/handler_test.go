package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/auth"
	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
	_ "github.com/HappyHackingSpace/CommunityHub-sub001/testing"
)

type stubRepo struct {
	user     *auth.User
	sessions []string
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) CreateUser(ctx context.Context, email, name, passwordHash, role string) (*auth.User, error) {
	if s.user != nil && s.user.Email == email {
		return nil, shared.ErrEmailTaken
	}
	s.user = &auth.User{ID: 10, Email: email, Name: name, PasswordHash: passwordHash, Role: role, IsActive: true}
	return s.user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	s.sessions = append(s.sessions, id)
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	handler := auth.NewHandler(testLogger(), auth.NewService(repo, nil), sessionManager)
	return handler, sessionManager
}

func withSession(t *testing.T, sm *shared.SessionManager, req *http.Request) *http.Request {
	t.Helper()
	sess, err := sm.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestLoginSuccess(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{user: &auth.User{ID: 1, Email: "user@test.local", PasswordHash: string(hashed), Role: "member", IsActive: true}}
	handler, sm := newAuthHandler(t, repo)

	body := `{"email":"user@test.local","password":"correctpass"}`
	req := withSession(t, sm, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))
	res := httptest.NewRecorder()
	handler.LoginForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var payload struct {
		ID   int64  `json:"id"`
		Role string `json:"role"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.ID != 1 || payload.Role != "member" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	sess := shared.SessionFromContext(req.Context())
	if sess.User() != "1" {
		t.Fatalf("expected session bound to user 1, got %q", sess.User())
	}
	if len(repo.sessions) != 1 {
		t.Fatalf("expected session audit record, got %d", len(repo.sessions))
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	handler, sm := newAuthHandler(t, &stubRepo{user: &auth.User{ID: 1, Email: "user@test.local", PasswordHash: string(hashed), IsActive: true}})

	body := `{"email":"user@test.local","password":"wrongpass1"}`
	req := withSession(t, sm, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))
	res := httptest.NewRecorder()
	handler.LoginForTest(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	handler, sm := newAuthHandler(t, &stubRepo{user: &auth.User{ID: 1, Email: "user@test.local", PasswordHash: string(hashed), IsActive: false}})

	body := `{"email":"user@test.local","password":"correctpass"}`
	req := withSession(t, sm, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))
	res := httptest.NewRecorder()
	handler.LoginForTest(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for inactive user, got %d", res.Code)
	}
}

func TestRegisterCreatesMember(t *testing.T) {
	repo := &stubRepo{}
	handler, sm := newAuthHandler(t, repo)

	body := `{"email":"new@test.local","name":"New User","password":"longenough"}`
	req := withSession(t, sm, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	res := httptest.NewRecorder()
	handler.RegisterForTest(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}
	if repo.user == nil || repo.user.Role != "member" {
		t.Fatalf("expected member role on registration, got %+v", repo.user)
	}
	if repo.user.PasswordHash == "longenough" {
		t.Fatal("password must be hashed")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &stubRepo{user: &auth.User{ID: 1, Email: "new@test.local"}}
	handler, sm := newAuthHandler(t, repo)

	body := `{"email":"new@test.local","name":"New User","password":"longenough"}`
	req := withSession(t, sm, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	res := httptest.NewRecorder()
	handler.RegisterForTest(res, req)

	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", res.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	handler, sm := newAuthHandler(t, &stubRepo{})

	body := `{"email":"not-an-email","name":"","password":"short"}`
	req := withSession(t, sm, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	res := httptest.NewRecorder()
	handler.RegisterForTest(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

type recordingMailer struct {
	welcomed []string
}

func (m *recordingMailer) EnqueueWelcomeEmail(ctx context.Context, to, name string) error {
	m.welcomed = append(m.welcomed, to)
	return nil
}

func TestRegisterQueuesWelcomeEmail(t *testing.T) {
	repo := &stubRepo{}
	mailer := &recordingMailer{}
	svc := auth.NewService(repo, mailer)

	user, err := svc.Register(context.Background(), "New@Test.Local", "New Member", "longenough")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "new@test.local" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if len(mailer.welcomed) != 1 || mailer.welcomed[0] != "new@test.local" {
		t.Fatalf("expected one welcome email to new@test.local, got %v", mailer.welcomed)
	}
}
